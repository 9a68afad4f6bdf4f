package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"propalyze-cleaner/models"
)

var (
	// numberRegexp matches a decimal number once thousands separators are gone.
	numberRegexp = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	// pricePerAreaRegexp matches "₹9,369/sqft" style per-area prices.
	pricePerAreaRegexp = regexp.MustCompile(`(?i)₹[\s\p{Zs}]*([0-9,]+(?:\.[0-9]+)?)[\s\p{Zs}]*/[\s\p{Zs}]*sq`)
	// areaRegexp matches "<number> sqft" and its spelling variants once
	// thousands separators are gone.
	areaRegexp = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)[\s\p{Zs}]*(sqft|ftk|sq\.?ft|sq)`)
	// bigIntegerRegexp matches integers of three or more digits.
	bigIntegerRegexp = regexp.MustCompile(`[0-9]{3,}`)
	integerRegexp    = regexp.MustCompile(`[0-9]+`)
	parkingRegexp    = regexp.MustCompile(`(?i)(covered|open|basement|visitor|reserved|stilt)`)
)

const (
	crore = 1e7
	lakh  = 1e5
)

// ToFloat converts a raw value to a finite float. Numbers pass through,
// booleans count as 1 and 0, strings are parsed after removing thousands
// separators, anything else is nil.
func ToFloat(v models.Value) *float64 {
	switch v.Kind() {
	case models.KindBool:
		if v.Truthy() {
			return finite(1)
		}
		return finite(0)
	case models.KindNumber:
		f, _ := v.Float()
		return finite(f)
	case models.KindString:
		s, _ := v.Str()
		return parseDecimal(s)
	default:
		return nil
	}
}

// ExtractFirstNumber returns the first decimal number found in text.
func ExtractFirstNumber(text string) *float64 {
	m := numberRegexp.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return nil
	}
	return parseDecimal(m)
}

// ParsePrice reads a price from listing text. In order:
//
//	"₹9,369/sqft" → 9369 (a per-area price, returned as-is)
//	"₹1.55 Cr"    → 15500000
//	"85.5 Lakh"   → 8550000
//	"9,369"       → 9369
func ParsePrice(text string) *float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}

	if m := pricePerAreaRegexp.FindStringSubmatch(s); m != nil {
		return parseDecimal(m[1])
	}

	lowered := strings.ToLower(strings.ReplaceAll(s, ",", ""))
	switch {
	case strings.Contains(lowered, "cr"):
		return scale(ExtractFirstNumber(lowered), crore)
	case strings.Contains(lowered, "lakh"), strings.Contains(lowered, "lac"):
		return scale(ExtractFirstNumber(lowered), lakh)
	}

	return ExtractFirstNumber(s)
}

// areaChain finds the area figure inside a super built-up text.
var areaChain = []strategy[string, float64]{
	{name: "unit_pattern", resolve: func(text string) *float64 {
		m := areaRegexp.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
		if m == nil {
			return nil
		}
		return parseDecimal(m[1])
	}},
	// Areas are rarely below 100 in listing units, so the first integer of
	// three or more digits is taken as a last resort.
	{name: "big_integer", resolve: func(text string) *float64 {
		m := bigIntegerRegexp.FindString(strings.ReplaceAll(text, ",", ""))
		if m == "" {
			return nil
		}
		return parseDecimal(m)
	}},
}

// ParseAreaAndPricePerArea splits a text such as "2220 sqft ₹9,369/sqft"
// into its area and its per-area price.
func ParseAreaAndPricePerArea(text string) (area, pricePerArea *float64) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if m := pricePerAreaRegexp.FindStringSubmatch(text); m != nil {
		pricePerArea = parseDecimal(m[1])
	}
	area, _ = firstResolved(text, areaChain)
	return area, pricePerArea
}

// ParseFloor reads "15(Out of 33 Floors)" as (15, 33). A single number is
// the current floor only; numbers past the second are ignored.
func ParseFloor(text string) (current, total *int) {
	tokens := integerRegexp.FindAllString(text, 3)
	if len(tokens) > 0 {
		current = atoi(tokens[0])
	}
	if len(tokens) > 1 {
		total = atoi(tokens[1])
	}
	return current, total
}

// ParseParking reads "4 Covered" as (4, "Covered").
func ParseParking(text string) (count *int, kind *string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	count = toInt(ExtractFirstNumber(text))
	if m := parkingRegexp.FindStringSubmatch(text); m != nil {
		k := capitalize(m[1])
		kind = &k
	}
	return count, kind
}

func parseDecimal(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return finite(f)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func scale(f *float64, factor float64) *float64 {
	if f == nil {
		return nil
	}
	return finite(*f * factor)
}

// toInt truncates toward zero, dropping values that do not fit an int.
func toInt(f *float64) *int {
	if f == nil {
		return nil
	}
	t := math.Trunc(*f)
	if t >= math.MaxInt || t < math.MinInt {
		return nil
	}
	i := int(t)
	return &i
}

func atoi(s string) *int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &i
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
