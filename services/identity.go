package services

import "strings"

var identityChain = []strategy[RawRecord, string]{
	{name: "explicit", resolve: func(r RawRecord) *string {
		v := r.Resolve(propertyIDKeys...)
		if v.IsNull() {
			return nil
		}
		id := v.Text()
		if strings.TrimSpace(id) == "" {
			return nil
		}
		return &id
	}},
	{name: "name_coordinates", resolve: func(r RawRecord) *string {
		name := r.Resolve(nameKeys...)
		lat := r.Resolve(latitudeKeys...)
		lon := r.Resolve(longitudeKeys...)
		if !name.Truthy() || lat.IsNull() || lon.IsNull() {
			return nil
		}
		id := name.Text() + "__" + lat.Text() + "__" + lon.Text()
		return &id
	}},
}

// DeriveID returns the property identifier: an explicit id key when one is
// present, else "<name>__<lat>__<lon>" when all three are known. It never
// invents an id; nil means the identity is unresolved and the caller
// decides what to do with the record.
func DeriveID(r RawRecord) *string {
	id, _ := deriveID(r)
	return id
}

func deriveID(r RawRecord) (*string, string) {
	return firstResolved(r, identityChain)
}
