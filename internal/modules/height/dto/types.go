package dto

type SnapshotInput struct {
	Scale          float64
	HeightModifier float64
}

type SnapshotOutput struct {
	Factor      float64 `json:"factor" yaml:"factor"`
	SizeType    int     `json:"size_type" yaml:"size_type"`
	BaseHeight  float64 `json:"base_height" yaml:"base_height"`
	Height      float64 `json:"height" yaml:"height"`
	HeightDelta float64 `json:"height_delta" yaml:"height_delta"`
}

// RangeOutput pairs the snapshot at the requested modifier with the snapshots
// at the sampled modifier bounds for the same scale.
type RangeOutput struct {
	Scale          float64        `json:"scale" yaml:"scale"`
	HeightModifier float64        `json:"height_modifier" yaml:"height_modifier"`
	Current        SnapshotOutput `json:"current" yaml:"current"`
	Max            SnapshotOutput `json:"max" yaml:"max"`
	Min            SnapshotOutput `json:"min" yaml:"min"`
}
