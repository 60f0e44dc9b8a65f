package domain_test

import (
	"errors"
	"strings"
	"testing"

	"skytools/internal/modules/scanner/domain"
)

const validSHA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	scan := []domain.Capability{domain.CapabilityScan}
	cases := []struct {
		name      string
		manifest  domain.Manifest
		shouldErr bool
	}{
		{name: "valid", manifest: domain.Manifest{Name: "qr", Version: "1", Binary: "/tmp/qr", SHA256: validSHA, Enabled: true, Capabilities: scan}},
		{name: "missing name", manifest: domain.Manifest{Version: "1", Binary: "/tmp/qr", SHA256: validSHA, Capabilities: scan}, shouldErr: true},
		{name: "missing version", manifest: domain.Manifest{Name: "qr", Binary: "/tmp/qr", SHA256: validSHA, Capabilities: scan}, shouldErr: true},
		{name: "missing binary", manifest: domain.Manifest{Name: "qr", Version: "1", SHA256: validSHA, Capabilities: scan}, shouldErr: true},
		{name: "uppercase sha", manifest: domain.Manifest{Name: "qr", Version: "1", Binary: "/tmp/qr", SHA256: strings.ToUpper(validSHA), Capabilities: scan}, shouldErr: true},
		{name: "no capabilities", manifest: domain.Manifest{Name: "qr", Version: "1", Binary: "/tmp/qr", SHA256: validSHA}, shouldErr: true},
		{name: "unknown capability", manifest: domain.Manifest{Name: "qr", Version: "1", Binary: "/tmp/qr", SHA256: validSHA, Capabilities: []domain.Capability{"command"}}, shouldErr: true},
		{name: "duplicate capability", manifest: domain.Manifest{Name: "qr", Version: "1", Binary: "/tmp/qr", SHA256: validSHA, Capabilities: []domain.Capability{"scan", "scan"}}, shouldErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.manifest.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestScanErrorWrapsCause(t *testing.T) {
	t.Parallel()
	err := error(&domain.ScanError{Image: "/tmp/shots/outfit.png", Err: domain.ErrNoQRCode})
	if !errors.Is(err, domain.ErrNoQRCode) {
		t.Fatalf("expected wrapped cause")
	}
	if got := err.Error(); got != "could not read QR code from outfit.png: no QR code found in image" {
		t.Fatalf("unexpected message %q", got)
	}
	if err := (domain.ScanRequest{}).Validate(); !errors.Is(err, domain.ErrEmptyImage) {
		t.Fatalf("expected empty image error, got %v", err)
	}
}
