package dto

import (
	"time"

	heightdto "skytools/internal/modules/height/dto"
)

type SubmitTextInput struct {
	Text string
}

type SubmitImageInput struct {
	ImagePath string
}

// EvaluateInput is a one-shot decode that does not touch the current slot.
// Exactly one of Text or ImagePath is used; ImagePath wins when both are set.
type EvaluateInput struct {
	Text      string
	ImagePath string
}

type MetricOutput struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type SectionOutput struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	DefaultOpen bool           `json:"default_open" yaml:"default_open"`
	Metrics     []MetricOutput `json:"metrics" yaml:"metrics"`
}

type MeasurementOutput struct {
	ID             string                `json:"id,omitempty" yaml:"id,omitempty"`
	State          string                `json:"state" yaml:"state"`
	RawInput       string                `json:"raw_input,omitempty" yaml:"raw_input,omitempty"`
	FileName       string                `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	Error          string                `json:"error,omitempty" yaml:"error,omitempty"`
	HasMeasurement bool                  `json:"has_measurement" yaml:"has_measurement"`
	Scale          float64               `json:"scale" yaml:"scale"`
	Height         float64               `json:"height" yaml:"height"`
	Strategy       string                `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	DecodedAt      time.Time             `json:"decoded_at,omitzero" yaml:"decoded_at,omitempty"`
	Snapshots      heightdto.RangeOutput `json:"snapshots" yaml:"snapshots"`
	Sections       []SectionOutput       `json:"sections" yaml:"sections"`
}

type ReportOutput struct {
	Scale     float64               `json:"scale" yaml:"scale"`
	Height    float64               `json:"height" yaml:"height"`
	Strategy  string                `json:"strategy" yaml:"strategy"`
	Source    string                `json:"source,omitempty" yaml:"source,omitempty"`
	Snapshots heightdto.RangeOutput `json:"snapshots" yaml:"snapshots"`
	Sections  []SectionOutput       `json:"sections" yaml:"sections"`
}
