package services

import (
	"regexp"

	"propalyze-cleaner/models"
)

var bhkRegexp = regexp.MustCompile(`(?i)([0-9]+)\s*bhk`)

type bhkInput struct {
	record RawRecord
	name   *string
}

var bhkChain = []strategy[bhkInput, int]{
	{name: "explicit", resolve: func(in bhkInput) *int {
		return toInt(ToFloat(in.record.Resolve(bhkKeys...)))
	}},
	{name: "name_pattern", resolve: func(in bhkInput) *int {
		if in.name == nil {
			return nil
		}
		m := bhkRegexp.FindStringSubmatch(*in.name)
		if m == nil {
			return nil
		}
		return atoi(m[1])
	}},
}

// ExtractBHK prefers an explicit bedroom count and otherwise looks for
// "<N> BHK" in the listing name.
func ExtractBHK(r RawRecord, name *string) *int {
	bhk, _ := firstResolved(bhkInput{record: r, name: name}, bhkChain)
	return bhk
}

// ExtractFloor prefers the explicit current/total floor keys and fills
// whichever side is still missing from a combined "Floor" description.
func ExtractFloor(r RawRecord) (current, total *int) {
	current = toInt(ToFloat(r.Resolve(floorCurrentKeys...)))
	total = toInt(ToFloat(r.Resolve(floorTotalKeys...)))
	if current != nil && total != nil {
		return current, total
	}

	combined := r.Resolve(floorKeys...)
	if !combined.Truthy() {
		return current, total
	}
	cur, tot := ParseFloor(combined.Text())
	if current == nil {
		current = cur
	}
	if total == nil {
		total = tot
	}
	return current, total
}

// ExtractParking reads the parking count. A count written with words, such
// as "2 Covered", also yields the parking type; otherwise the type comes
// from its own key.
func ExtractParking(r RawRecord) (count *int, kind *string) {
	raw := r.Resolve(parkingCountKeys...)
	if s, ok := raw.Str(); ok && containsLetter(s) {
		count, kind = ParseParking(s)
	} else {
		count = toInt(ToFloat(raw))
	}

	if kind == nil {
		kind = textField(r, parkingTypeKeys...)
	}
	return count, kind
}

// ExtractSuperBuiltUp returns the super built-up area and the per-area
// price quoted alongside it. A value that is already a number is the area.
func ExtractSuperBuiltUp(r RawRecord) (area, pricePerArea *float64) {
	raw := r.Resolve(superBuiltUpKeys...)
	switch raw.Kind() {
	case models.KindNumber:
		return ToFloat(raw), nil
	case models.KindString:
		s, _ := raw.Str()
		return ParseAreaAndPricePerArea(s)
	default:
		return nil, nil
	}
}

func containsLetter(s string) bool {
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
