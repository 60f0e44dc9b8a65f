package domain

import "strings"

// Decode extracts the scale/height payload from raw scanned text, a pasted
// link or raw QR content.
func Decode(rawText string) (Payload, error) {
	match, err := Explain(rawText)
	if err != nil {
		return Payload{}, err
	}
	return match.Payload, nil
}

// Explain is Decode that also reports the winning candidate and strategy.
// Candidates are tried in collection order and the first one that parses
// wins; there is no scoring between candidates.
func Explain(rawText string) (Match, error) {
	candidates := CollectCandidates(rawText)
	if len(candidates) == 0 {
		return Match{}, &DecodeError{Reason: ErrNoPayload}
	}
	for i, candidate := range candidates {
		normalized := normalizeBase64(stripNoise(candidate))
		if normalized == "" {
			continue
		}
		decoded, err := decodeBase64(normalized)
		if err != nil {
			continue
		}
		preferHeightKeyword := strings.Contains(candidate, Marker)
		payload, used, ok := parseDecoded(decoded, preferHeightKeyword)
		if !ok {
			continue
		}
		return Match{
			Payload:        payload,
			Candidate:      candidate,
			CandidateIndex: i,
			Strategy:       used.strategy,
			Printable:      used.printable,
		}, nil
	}
	return Match{}, &DecodeError{Reason: ErrNoScaleHeight}
}
