package dto

type ScannerInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Version      string   `json:"version" yaml:"version"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	Binary       string   `json:"binary" yaml:"binary"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
}

type DoctorResult struct {
	Name            string   `json:"name" yaml:"name"`
	ChecksumValid   bool     `json:"checksum_valid" yaml:"checksum_valid"`
	BinaryReachable bool     `json:"binary_reachable" yaml:"binary_reachable"`
	LifecycleOK     bool     `json:"lifecycle_ok" yaml:"lifecycle_ok"`
	Formats         []string `json:"formats,omitempty" yaml:"formats,omitempty"`
	Error           string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type ScanInput struct {
	ImagePath string
	// Scanner selects a manifest by name; empty picks the first enabled scanner.
	Scanner string
}

type ScanOutput struct {
	Scanner string
	Text    string
	Format  string
}
