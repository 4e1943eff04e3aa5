package pages

import (
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseAmount extracts the number from a price label such as
// "Item total: $29.99" or "$7.99". Text it cannot parse yields 0, which
// callers treat as "value absent". Only plain decimals are accepted, so
// NaN, Inf and hex floats are absent too.
func ParseAmount(label string) float64 {
	s := strings.TrimSpace(label)
	if i := strings.LastIndex(s, "$"); i >= 0 {
		s = s[i+1:]
	} else if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !amountPattern.MatchString(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
