package domain

import (
	"fmt"
	"math"
)

// Sample modifiers used for the max/min comparison snapshots; the game allows
// height modifiers in [-2, 2].
const (
	MaxModifierSample = 2.0
	MinModifierSample = -2.0
)

const (
	sizeTypeMin     = 1
	sizeTypeMax     = 14
	shortestHeightM = 0.8
	tallestHeightM  = 1.2
	referenceHeight = 1.0
	oldRawMin       = -2.0
	oldRawMax       = 2.0
	oldScaleBuckets = 13.5
	modifierScale   = 10.0
)

// ratioPerStep spaces the 14 base height rungs geometrically between the
// shortest and tallest height.
var ratioPerStep = math.Pow(tallestHeightM/shortestHeightM, 1.0/float64(sizeTypeMax-1))

// Coefficients parameterise the fitted ratio model
// A + B*m + C*g(s) + D*m*g(s) with m = modifier*10.
type Coefficients struct {
	A, B, C, D float64
}

var (
	Standard = Coefficients{A: 1.095388425, B: 0.004983453, C: 0.492141518, D: 0.002968009}
	Compact  = Coefficients{A: 1.224206561, B: 0.012636310, C: 0.495569563, D: 0.004517799}
)

// Snapshot is derived from (scale, modifier) on every read and never stored.
type Snapshot struct {
	Factor      float64 `json:"factor" yaml:"factor"`
	SizeType    int     `json:"size_type" yaml:"size_type"`
	BaseHeight  float64 `json:"base_height" yaml:"base_height"`
	Height      float64 `json:"height" yaml:"height"`
	HeightDelta float64 `json:"height_delta" yaml:"height_delta"`
}

func ComputeSnapshot(scale, heightModifier float64) Snapshot {
	factor := Factor(scale, heightModifier)
	sizeType := SizeTypeFromHeight(referenceHeight * factor)
	base := BaseHeightFromSizeType(sizeType)
	height := base * factor
	return Snapshot{
		Factor:      factor,
		SizeType:    sizeType,
		BaseHeight:  base,
		Height:      height,
		HeightDelta: height - base,
	}
}

// CoefficientsFor selects the compact fit for negative modifiers.
func CoefficientsFor(heightModifier float64) Coefficients {
	if heightModifier < 0 {
		return Compact
	}
	return Standard
}

// ScaleComponent grows linearly and shrinks reciprocally.
func ScaleComponent(scale float64) float64 {
	if scale >= 0 {
		return 1 + scale
	}
	return 1 / (1 - scale)
}

func Predict(scale, heightModifier float64, c Coefficients) float64 {
	m := heightModifier * modifierScale
	s := ScaleComponent(scale)
	return c.A + c.B*m + c.C*s + c.D*m*s
}

// Factor normalises the predicted ratio by the ratio at scale 0 with the same
// modifier, so any modifier alone yields 1. A zero baseline yields 1.
func Factor(scale, heightModifier float64) float64 {
	c := CoefficientsFor(heightModifier)
	base := Predict(0, heightModifier, c)
	if base == 0 {
		return 1
	}
	return Predict(scale, heightModifier, c) / base
}

// SizeTypeFromHeight maps a reference height onto the legacy 14 bucket scale,
// returned zero based in [0, 13].
func SizeTypeFromHeight(heightM float64) int {
	raw := clamp(modifierScale*(heightM-referenceHeight), oldRawMin, oldRawMax)
	scalar := (raw + 2) / 4
	oldValue := math.Floor((1 - scalar) * oldScaleBuckets)
	return int(clamp(math.Round(oldValue+1), sizeTypeMin, sizeTypeMax)) - 1
}

// BaseHeightFromSizeType returns 0.8 m for size type 13 up to 1.2 m for 0.
func BaseHeightFromSizeType(sizeType int) float64 {
	return shortestHeightM * math.Pow(ratioPerStep, float64(sizeTypeMax-1-sizeType))
}

func FormatMeters(v float64, precision int) string {
	return fmt.Sprintf("%.*f m", precision, v)
}

func FormatFactor(v float64) string {
	return fmt.Sprintf("%.3fx", v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
