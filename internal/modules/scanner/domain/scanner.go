package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

type Capability string

const CapabilityScan Capability = "scan"

var (
	ErrScannerDisabled   = errors.New("scanner plugin is disabled")
	ErrChecksumMismatch  = errors.New("scanner checksum mismatch")
	ErrCapabilityMissing = errors.New("scanner capability missing")
	ErrScannerTimeout    = errors.New("scanner timeout")
	ErrNoQRCode          = errors.New("no QR code found in image")
	ErrEmptyImage        = errors.New("image is empty")
	ErrImageTooLarge     = errors.New("image is too large")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("scanner name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("scanner version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("scanner binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("scanner sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("scanner capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	if c != CapabilityScan {
		return fmt.Errorf("unknown capability: %s", c)
	}
	return nil
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
	Formats      []string
}

type ScanRequest struct {
	Filename string
	Image    []byte
}

func (r ScanRequest) Validate() error {
	if len(r.Image) == 0 {
		return ErrEmptyImage
	}
	return nil
}

type ScanResult struct {
	Text   string
	Format string
}

// ScanError reports that no text could be read from an image. Err holds the
// underlying cause.
type ScanError struct {
	Image string
	Err   error
}

func (e *ScanError) Error() string {
	if e.Image == "" {
		return fmt.Sprintf("could not read QR code: %v", e.Err)
	}
	return fmt.Sprintf("could not read QR code from %s: %v", filepath.Base(e.Image), e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
