package domain

import (
	"strconv"

	heightdomain "skytools/internal/modules/height/domain"
)

const meterPrecision = 3

// AncestorLampStageHeight is the fixed height of the reference lamp drawn next
// to the Sky Kid in the height simulation, in stage units.
const AncestorLampStageHeight = 160

type Metric struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type Section struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	DefaultOpen bool     `json:"default_open" yaml:"default_open"`
	Metrics     []Metric `json:"metrics" yaml:"metrics"`
}

type Reading struct {
	Factor     float64
	SizeType   int
	BaseHeight float64
	Height     float64
}

// Readings is everything a report shows: the raw inputs plus the snapshots
// at the current modifier and at the sampled bounds.
type Readings struct {
	Scale     float64
	HeightRaw float64
	Current   Reading
	Max       Reading
	Min       Reading
}

func BuildSections(r Readings) []Section {
	return []Section{
		{
			ID:          "basic",
			Title:       "Measurement",
			DefaultOpen: true,
			Metrics: []Metric{
				{ID: "height", Label: "Height", Value: meters(r.Current.Height)},
				{ID: "size-type", Label: "Size type", Value: strconv.Itoa(r.Current.SizeType)},
			},
		},
		{
			ID:    "extra",
			Title: "More info",
			Metrics: []Metric{
				{ID: "height-max", Label: "Height max", Value: meters(r.Max.Height)},
				{ID: "size-type-max", Label: "Size type max", Value: strconv.Itoa(r.Max.SizeType)},
				{ID: "height-min", Label: "Height min", Value: meters(r.Min.Height)},
				{ID: "size-type-min", Label: "Size type min", Value: strconv.Itoa(r.Min.SizeType)},
			},
		},
		{
			ID:    "advanced",
			Title: "Advanced",
			Metrics: []Metric{
				{ID: "scale", Label: "Scale raw", Value: rawNumber(r.Scale)},
				{ID: "height-raw", Label: "Height raw", Value: rawNumber(r.HeightRaw)},
				{ID: "base-height", Label: "Base height", Value: meters(r.Current.BaseHeight)},
				{ID: "final-factor", Label: "Final factor", Value: heightdomain.FormatFactor(r.Current.Factor)},
			},
		},
		{
			ID:          "comparison",
			Title:       "Height simulation",
			DefaultOpen: true,
			Metrics: []Metric{
				{ID: "sky-kid", Label: "Sky Kid (from QR)", Value: meters(r.Current.Height)},
				{ID: "ancestor-lamp", Label: "Ancestor Lamp (fixed)", Value: strconv.Itoa(AncestorLampStageHeight)},
				{ID: "comparison-scale", Label: "Scale (raw)", Value: rawNumber(r.Scale)},
				{ID: "comparison-height", Label: "Height (raw)", Value: rawNumber(r.HeightRaw)},
			},
		},
	}
}

func meters(v float64) string {
	return heightdomain.FormatMeters(v, meterPrecision)
}

func rawNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
