package services

// strategy is one named step of a fallback chain.
type strategy[In, Out any] struct {
	name    string
	resolve func(In) *Out
}

// firstResolved runs chain in order and returns the first non-nil result
// together with the name of the strategy that produced it. Both are zero
// when every strategy fails.
func firstResolved[In, Out any](in In, chain []strategy[In, Out]) (*Out, string) {
	for _, s := range chain {
		if out := s.resolve(in); out != nil {
			return out, s.name
		}
	}
	return nil, ""
}
