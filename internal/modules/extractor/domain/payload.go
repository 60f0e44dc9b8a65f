package domain

import (
	"errors"
	"math"
)

// Marker is the base64 encoding of the `"body"` key fragment that prefixes the
// interesting part of an outfit QR payload.
const Marker = "ImJvZHki"

var (
	ErrNoPayload     = errors.New("no base64 payload found")
	ErrNoScaleHeight = errors.New("could not determine scale/height")
)

// Payload carries the two raw fields recovered from a QR payload. Height is a
// signed modifier around the reference height, not a length.
type Payload struct {
	Scale  float64 `json:"scale" yaml:"scale"`
	Height float64 `json:"height" yaml:"height"`
}

func (p Payload) Valid() bool {
	return isFinite(p.Scale) && isFinite(p.Height)
}

type Strategy string

const (
	StrategyKeyword Strategy = "keyword"
	StrategyAnchor  Strategy = "anchor"
	StrategyHints   Strategy = "hints"
)

// Match describes which candidate and parse strategy produced a payload.
type Match struct {
	Payload        Payload
	Candidate      string
	CandidateIndex int
	Strategy       Strategy
	Printable      bool
}

type DecodeError struct {
	Reason error
}

func (e *DecodeError) Error() string {
	return e.Reason.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
