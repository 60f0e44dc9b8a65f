package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// fixedPointDivisor recovers floats that the payload stores as scaled integers.
const fixedPointDivisor = 1_000_000_000

var (
	numberToken  = regexp.MustCompile(`-?\d+\.?\d*(?:[eE][-+]?\d+)?`)
	decimalToken = regexp.MustCompile(`-?\d+\.\d+(?:[eE][-+]?\d+)?`)
	leadingToken = regexp.MustCompile(`^-?\d+\.?\d*(?:[eE][-+]?\d+)?`)
	heightToken  = regexp.MustCompile(`-?\d*\.\d+|-?\d+\.?\d*`)
)

func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func hasFraction(raw string) bool {
	return strings.ContainsAny(raw, ".eE")
}

// normalizeNumeric converts a token, dividing integers of magnitude >= 1000 by
// 1e9. The heuristic matches observed payloads and can misfire on genuinely
// large integers.
func normalizeNumeric(raw string) (float64, bool) {
	v, ok := parseFinite(raw)
	if !ok {
		return 0, false
	}
	if !hasFraction(raw) && math.Abs(v) >= 1000 {
		return v / fixedPointDivisor, true
	}
	return v, true
}

// scaleFromTokens returns the first token that is either a literal decimal or a
// fixed-point integer. Small plain integers are skipped.
func scaleFromTokens(source string) (float64, bool) {
	for _, raw := range numberToken.FindAllString(source, -1) {
		v, ok := parseFinite(raw)
		if !ok {
			continue
		}
		if hasFraction(raw) {
			return v, true
		}
		if math.Abs(v) >= 1000 {
			return v / fixedPointDivisor, true
		}
	}
	return 0, false
}

func firstNumeric(source string) (float64, bool) {
	for _, raw := range numberToken.FindAllString(source, -1) {
		if v, ok := normalizeNumeric(raw); ok {
			return v, true
		}
	}
	return 0, false
}

// lastNumeric prefers the last decimal token and falls back to the last token
// of any shape.
func lastNumeric(source string) (float64, bool) {
	if v, ok := lastNormalized(decimalToken, source); ok {
		return v, true
	}
	return lastNormalized(numberToken, source)
}

func lastNormalized(pattern *regexp.Regexp, source string) (float64, bool) {
	var (
		last  float64
		found bool
	)
	for _, raw := range pattern.FindAllString(source, -1) {
		if v, ok := normalizeNumeric(raw); ok {
			last, found = v, true
		}
	}
	return last, found
}

func leadingNumeric(source string) (float64, bool) {
	raw := leadingToken.FindString(source)
	if raw == "" {
		return 0, false
	}
	return normalizeNumeric(raw)
}
