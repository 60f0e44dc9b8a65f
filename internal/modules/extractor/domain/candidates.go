package domain

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

const queryMarker = "o="

var (
	urlParamKeys = []string{"payload", "data", "value", "q", "v", "o"}
	queryValue   = regexp.MustCompile(`(?i)(?:payload|data|value|q|v)=([A-Za-z0-9+/=_-]+)`)
	whitespace   = regexp.MustCompile(`\s`)
)

// CollectCandidates lists the substrings of rawText that may hold the base64
// payload, in priority order, without duplicates or empty entries.
func CollectCandidates(rawText string) []string {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return nil
	}
	var (
		out  []string
		seen = map[string]struct{}{}
	)
	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	add(fromURL(trimmed))
	if idx := strings.Index(trimmed, Marker); idx >= 0 {
		add(trimmed[idx:])
	}
	if idx := strings.Index(trimmed, queryMarker); idx >= 0 {
		add(trimmed[idx+len(queryMarker):])
	}
	add(trimmed)
	return out
}

func fromURL(text string) string {
	u, ok := parseURL(text)
	if !ok {
		if m := queryValue.FindStringSubmatch(text); m != nil {
			return m[1]
		}
		return ""
	}
	query := u.Query()
	for _, key := range urlParamKeys {
		if v := query.Get(key); v != "" {
			return v
		}
	}
	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// parseURL only accepts absolute URLs; url.Parse alone takes almost anything
// as a relative reference.
func parseURL(text string) (*url.URL, bool) {
	u, err := url.Parse(text)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return nil, false
	}
	return u, true
}

// stripNoise drops everything before the body marker, or before an "o="
// query marker when there is no body marker. Stripping twice is a no-op.
func stripNoise(candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if idx := strings.Index(trimmed, Marker); idx >= 0 {
		return trimmed[idx:]
	}
	if idx := strings.Index(trimmed, queryMarker); idx >= 0 {
		return trimmed[idx+len(queryMarker):]
	}
	return trimmed
}

func normalizeBase64(candidate string) string {
	s := whitespace.ReplaceAllString(candidate, "")
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}

func decodeBase64(normalized string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
