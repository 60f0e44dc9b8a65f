package domain

import (
	"time"

	apperrors "skytools/internal/platform/errors"
)

const SchemaVersion = 1

// EmptyInputMessage is stored when a decode is requested with blank input.
const EmptyInputMessage = "paste a QR string or link before decoding"

type State string

const (
	StateIdle     State = "idle"
	StateDecoding State = "decoding"
	StateDecoded  State = "decoded"
)

type Payload struct {
	Scale  float64 `json:"scale"`
	Height float64 `json:"height"`
}

// Measurement is the single current measurement slot. ComparisonScale and
// BodyHeightDelta drive the height snapshots and survive a failed decode;
// only Reset zeroes them.
type Measurement struct {
	SchemaVersion   int       `json:"schema_version"`
	ID              string    `json:"id,omitempty"`
	State           State     `json:"state"`
	RawInput        string    `json:"raw_input,omitempty"`
	FileName        string    `json:"file_name,omitempty"`
	Error           string    `json:"error,omitempty"`
	Payload         *Payload  `json:"payload,omitempty"`
	ComparisonScale float64   `json:"comparison_scale"`
	BodyHeightDelta float64   `json:"body_height_delta"`
	Strategy        string    `json:"strategy,omitempty"`
	DecodedAt       time.Time `json:"decoded_at,omitzero"`
}

func Idle() Measurement {
	return Measurement{SchemaVersion: SchemaVersion, State: StateIdle}
}

func (m Measurement) HasMeasurement() bool {
	return m.Payload != nil
}

// BeginText moves to Decoding for pasted text.
func (m Measurement) BeginText(rawInput string) (Measurement, error) {
	if m.State == StateDecoding {
		return m, apperrors.ErrDecodeInFlight
	}
	m.State = StateDecoding
	m.RawInput = rawInput
	m.FileName = ""
	return m, nil
}

// BeginImage moves to Decoding for an image scan. The previous raw input is
// kept until the scan yields text.
func (m Measurement) BeginImage(fileName string) (Measurement, error) {
	if m.State == StateDecoding {
		return m, apperrors.ErrDecodeInFlight
	}
	m.State = StateDecoding
	m.FileName = fileName
	return m, nil
}

func (m Measurement) Succeed(id string, payload Payload, strategy string, at time.Time) Measurement {
	m.SchemaVersion = SchemaVersion
	m.ID = id
	m.State = StateDecoded
	m.Error = ""
	m.Payload = &payload
	m.ComparisonScale = payload.Scale
	m.BodyHeightDelta = payload.Height
	m.Strategy = strategy
	m.DecodedAt = at
	return m
}

// Fail stores message and clears the payload. The machine returns to Idle.
func (m Measurement) Fail(message string) Measurement {
	m.SchemaVersion = SchemaVersion
	m.ID = ""
	m.State = StateIdle
	m.Error = message
	m.Payload = nil
	m.Strategy = ""
	m.DecodedAt = time.Time{}
	return m
}
