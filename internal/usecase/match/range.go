package match

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// OpenEndedMax is the upper bound used for labels such as "€900+".
const OpenEndedMax = 1e9

// Range is a closed numeric interval, Min <= Max.
type Range struct {
	Min float64
	Max float64
}

var budgetNormalizer = strings.NewReplacer(
	"€", "",
	"$", "",
	"£", "",
	"EUR", "",
	"eur", "",
	"\u2013", "-",
	"\u2014", "-",
)

// stripSpace drops every Unicode space, including non-breaking ones.
func stripSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), "")
}

// ParseRange parses a budget label such as "€500-700" or "€900+". It returns
// nil for an empty label or one that does not hold exactly two finite numbers
// (or one number followed by "+"). Callers treat nil as unconstrained.
func ParseRange(label string) *Range {
	s := stripSpace(budgetNormalizer.Replace(label))
	if s == "" {
		return nil
	}

	if strings.HasSuffix(s, "+") {
		min, ok := parseAmount(strings.TrimSuffix(s, "+"))
		if !ok {
			return nil
		}
		return &Range{Min: min, Max: OpenEndedMax}
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil
	}
	a, ok := parseAmount(parts[0])
	if !ok {
		return nil
	}
	b, ok := parseAmount(parts[1])
	if !ok {
		return nil
	}
	return &Range{Min: math.Min(a, b), Max: math.Max(a, b)}
}

// ParseRangePtr is ParseRange for optional labels.
func ParseRangePtr(label *string) *Range {
	if label == nil {
		return nil
	}
	return ParseRange(*label)
}

func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
