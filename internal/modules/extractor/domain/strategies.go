package domain

import "regexp"

// parser turns decoded payload text into a Payload, reporting false when the
// text does not carry both fields.
type parser func(text string) (Payload, bool)

var (
	heightKeyword = regexp.MustCompile(`(?i)eigh`)
	scaleKeyword  = regexp.MustCompile(`(?i)scale`)
	scaleAnchor   = regexp.MustCompile(`(?i)["']s`)
	scaleKeyValue = regexp.MustCompile(`(?i)["']?s["']?\s*:\s*(-?\d+\.?\d*(?:[eE][-+]?\d+)?)`)

	heightHints = []*regexp.Regexp{
		regexp.MustCompile(`(?i)height`),
		regexp.MustCompile(`(?i)body`),
		regexp.MustCompile(`(?i)hto`),
		regexp.MustCompile(`(?i)["']?h["']?\s*:`),
	}
)

// parseViaHeightKeyword reads height literally after "eigh" and scale after
// "scale" using the decimal-or-fixed-point rule.
func parseViaHeightKeyword(text string) (Payload, bool) {
	loc := heightKeyword.FindStringIndex(text)
	if loc == nil {
		return Payload{}, false
	}
	raw := heightToken.FindString(text[loc[0]:])
	if raw == "" {
		return Payload{}, false
	}
	height, ok := parseFinite(raw)
	if !ok {
		return Payload{}, false
	}

	loc = scaleKeyword.FindStringIndex(text)
	if loc == nil {
		return Payload{}, false
	}
	scale, ok := scaleFromTokens(text[loc[1]:])
	if !ok {
		return Payload{}, false
	}
	return Payload{Scale: scale, Height: height}, true
}

// parseViaAnchor splits the text at the first quoted key starting with "s":
// scale follows the anchor, height is the last number before it.
func parseViaAnchor(text string) (Payload, bool) {
	loc := scaleAnchor.FindStringIndex(text)
	if loc == nil {
		return Payload{}, false
	}
	scale, ok := scaleFromTokens(text[loc[1]:])
	if !ok {
		return Payload{}, false
	}
	height, ok := lastNumeric(text[:loc[0]])
	if !ok {
		return Payload{}, false
	}
	return Payload{Scale: scale, Height: height}, true
}

func parseViaKeyHints(text string) (Payload, bool) {
	scale, ok := findScaleValue(text)
	if !ok {
		return Payload{}, false
	}
	height, ok := findHeightValue(text)
	if !ok {
		return Payload{}, false
	}
	return Payload{Scale: scale, Height: height}, true
}

func findScaleValue(text string) (float64, bool) {
	if m := scaleKeyValue.FindStringSubmatch(text); m != nil && m[1] != "" {
		if v, ok := normalizeNumeric(m[1]); ok {
			return v, true
		}
	}
	if loc := scaleKeyword.FindStringIndex(text); loc != nil {
		return firstNumeric(text[loc[1]:])
	}
	return 0, false
}

func findHeightValue(text string) (float64, bool) {
	for _, pattern := range heightHints {
		loc := pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if v, ok := firstNumeric(text[loc[1]:]); ok {
			return v, true
		}
	}
	return leadingNumeric(text)
}

type attempt struct {
	strategy  Strategy
	printable bool
	parse     parser
}

// attemptsFor lists the parse attempts in priority order. When the candidate
// carried the body marker the keyword strategy runs first on the raw text,
// otherwise it only runs on the printable projection.
func attemptsFor(preferHeightKeyword bool) []attempt {
	attempts := make([]attempt, 0, 5)
	if preferHeightKeyword {
		attempts = append(attempts, attempt{StrategyKeyword, false, parseViaHeightKeyword})
	}
	attempts = append(attempts,
		attempt{StrategyAnchor, false, parseViaAnchor},
		attempt{StrategyHints, false, parseViaKeyHints},
	)
	if !preferHeightKeyword {
		attempts = append(attempts, attempt{StrategyKeyword, true, parseViaHeightKeyword})
	}
	return append(attempts,
		attempt{StrategyAnchor, true, parseViaAnchor},
		attempt{StrategyHints, true, parseViaKeyHints},
	)
}

func parseDecoded(decoded string, preferHeightKeyword bool) (Payload, attempt, bool) {
	printable := printableProjection(decoded)
	for _, a := range attemptsFor(preferHeightKeyword) {
		text := decoded
		if a.printable {
			text = printable
		}
		if p, ok := a.parse(text); ok && p.Valid() {
			return p, a, true
		}
	}
	return Payload{}, attempt{}, false
}

func printableProjection(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= 0x20 && c <= 0x7e {
			out = append(out, c)
		}
	}
	return string(out)
}
