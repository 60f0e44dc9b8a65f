package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"skytools/internal/modules/scanner/domain"
	"skytools/internal/modules/scanner/dto"
	"skytools/internal/modules/scanner/service"
	"skytools/internal/modules/scanner/usecase"
	apperrors "skytools/internal/platform/errors"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	text     string
	err      error
	scanned  []string
	received []byte
}

func (h *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (h *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Formats: []string{"png"}}, nil
}
func (h *fakeHost) Scan(_ context.Context, m domain.Manifest, req domain.ScanRequest) (domain.ScanResult, error) {
	h.scanned = append(h.scanned, m.Name)
	h.received = req.Image
	if h.err != nil {
		return domain.ScanResult{}, h.err
	}
	return domain.ScanResult{Text: h.text, Format: "QR_CODE"}, nil
}

func TestScanUsesFirstEnabledScanner(t *testing.T) {
	t.Parallel()
	disabled := manifestWithBinary(t, "off")
	disabled.Enabled = false
	enabled := manifestWithBinary(t, "qrscan")
	host := &fakeHost{text: "ImJvZHki"}
	uc := usecase.NewInteractor(service.NewScannerService(fakeManifestStore{manifests: []domain.Manifest{disabled, enabled}}, host, "", nil))

	image := writeImage(t, []byte("png-bytes"))
	out, err := uc.Scan(context.Background(), dto.ScanInput{ImagePath: image})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.Scanner != "qrscan" || out.Text != "ImJvZHki" || out.Format != "QR_CODE" {
		t.Fatalf("unexpected scan output: %+v", out)
	}
	if string(host.received) != "png-bytes" {
		t.Fatalf("image bytes not forwarded: %q", host.received)
	}
}

func TestScanFailuresAreScanErrors(t *testing.T) {
	t.Parallel()
	image := writeImage(t, []byte("png-bytes"))
	cases := []struct {
		name      string
		manifests []domain.Manifest
		host      *fakeHost
		input     dto.ScanInput
		want      error
	}{
		{name: "no scanners", host: &fakeHost{}, input: dto.ScanInput{ImagePath: image}, want: apperrors.ErrScannerUnavailable},
		{name: "unknown scanner", manifests: []domain.Manifest{manifestWithBinary(t, "qrscan")}, host: &fakeHost{}, input: dto.ScanInput{ImagePath: image, Scanner: "other"}, want: apperrors.ErrNotFound},
		{name: "no qr", manifests: []domain.Manifest{manifestWithBinary(t, "qrscan")}, host: &fakeHost{err: domain.ErrNoQRCode}, input: dto.ScanInput{ImagePath: image}, want: domain.ErrNoQRCode},
		{name: "empty text", manifests: []domain.Manifest{manifestWithBinary(t, "qrscan")}, host: &fakeHost{}, input: dto.ScanInput{ImagePath: image}, want: domain.ErrNoQRCode},
		{name: "empty image", manifests: []domain.Manifest{manifestWithBinary(t, "qrscan")}, host: &fakeHost{text: "x"}, input: dto.ScanInput{ImagePath: writeImage(t, nil)}, want: domain.ErrEmptyImage},
		{name: "missing image", manifests: []domain.Manifest{manifestWithBinary(t, "qrscan")}, host: &fakeHost{text: "x"}, input: dto.ScanInput{ImagePath: filepath.Join(t.TempDir(), "nope.png")}, want: os.ErrNotExist},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := usecase.NewInteractor(service.NewScannerService(fakeManifestStore{manifests: tc.manifests}, tc.host, "", nil))
			_, err := uc.Scan(context.Background(), tc.input)
			var scanErr *domain.ScanError
			if !errors.As(err, &scanErr) {
				t.Fatalf("expected ScanError, got %T %v", err, err)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestScanRejectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t, "qrscan")
	manifest.SHA256 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	host := &fakeHost{text: "x"}
	uc := usecase.NewInteractor(service.NewScannerService(fakeManifestStore{manifests: []domain.Manifest{manifest}}, host, "qrscan", nil))
	if _, err := uc.Scan(context.Background(), dto.ScanInput{ImagePath: writeImage(t, []byte("x"))}); !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if len(host.scanned) != 0 {
		t.Fatalf("host must not be called on checksum mismatch")
	}
}

func TestListAndDoctor(t *testing.T) {
	t.Parallel()
	good := manifestWithBinary(t, "qrscan")
	missing := manifestWithBinary(t, "gone")
	missing.Binary = filepath.Join(t.TempDir(), "missing")
	uc := usecase.NewInteractor(service.NewScannerService(fakeManifestStore{manifests: []domain.Manifest{good, missing}}, &fakeHost{}, "", nil))

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "qrscan" || list[0].Capabilities[0] != "scan" {
		t.Fatalf("unexpected list: %+v", list)
	}

	docs, err := uc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !docs[0].LifecycleOK || !docs[0].ChecksumValid || len(docs[0].Formats) != 1 {
		t.Fatalf("expected healthy scanner, got %+v", docs[0])
	}
	if docs[1].BinaryReachable || docs[1].Error == "" {
		t.Fatalf("expected unreachable binary, got %+v", docs[1])
	}
}

func manifestWithBinary(t *testing.T, name string) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(binPath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256([]byte("binary"))
	return domain.Manifest{
		Name:         name,
		Version:      "1",
		Binary:       binPath,
		SHA256:       hex.EncodeToString(hash[:]),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityScan},
	}
}

func writeImage(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "outfit.png")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}
