package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"skytools/internal/modules/scanner/domain"
	"skytools/internal/modules/scanner/dto"
	scannerout "skytools/internal/modules/scanner/port/out"
	apperrors "skytools/internal/platform/errors"
	"skytools/internal/platform/logging"
)

// MaxImageBytes bounds the screenshot size sent to a scanner plugin.
const MaxImageBytes = 16 << 20

type ScannerService struct {
	store     scannerout.ManifestStore
	host      scannerout.Host
	preferred string
	logger    hclog.Logger
}

// NewScannerService wires the manifest store and plugin host. preferred names
// the scanner used when a scan request does not name one.
func NewScannerService(store scannerout.ManifestStore, host scannerout.Host, preferred string, logger hclog.Logger) *ScannerService {
	return &ScannerService{store: store, host: host, preferred: preferred, logger: logging.OrNull(logger).Named("scanner")}
}

func (s *ScannerService) List(ctx context.Context) ([]dto.ScannerInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScannerInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.ScannerInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *ScannerService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if meta, err := s.host.GetMetadata(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
				result.Formats = meta.Formats
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Scan reads the image and asks the selected scanner plugin for its QR text.
// Every failure is returned as a *domain.ScanError.
func (s *ScannerService) Scan(ctx context.Context, input dto.ScanInput) (dto.ScanOutput, error) {
	fail := func(err error) (dto.ScanOutput, error) {
		s.logger.Warn("scan failed", "image", input.ImagePath, "error", err)
		return dto.ScanOutput{}, &domain.ScanError{Image: input.ImagePath, Err: err}
	}
	image, err := readImage(input.ImagePath)
	if err != nil {
		return fail(err)
	}
	manifest, err := s.selectManifest(ctx, input.Scanner)
	if err != nil {
		return fail(err)
	}
	if s.host == nil {
		return fail(apperrors.ErrScannerUnavailable)
	}
	request := domain.ScanRequest{Filename: filepath.Base(input.ImagePath), Image: image}
	if err := request.Validate(); err != nil {
		return fail(err)
	}
	result, err := s.host.Scan(ctx, manifest, request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(fmt.Errorf("%w: %s", domain.ErrScannerTimeout, manifest.Name))
		}
		return fail(err)
	}
	if result.Text == "" {
		return fail(domain.ErrNoQRCode)
	}
	s.logger.Debug("scanned image", "scanner", manifest.Name, "format", result.Format, "bytes", len(image))
	return dto.ScanOutput{Scanner: manifest.Name, Text: result.Text, Format: result.Format}, nil
}

func (s *ScannerService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate scanner name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ScannerService) selectManifest(ctx context.Context, name string) (domain.Manifest, error) {
	if name == "" {
		name = s.preferred
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	var (
		manifest domain.Manifest
		found    bool
	)
	for _, item := range manifests {
		if name == "" {
			if item.Enabled && item.HasCapability(domain.CapabilityScan) {
				manifest, found = item, true
				break
			}
			continue
		}
		if item.Name == name {
			manifest, found = item, true
			break
		}
	}
	if !found {
		if name == "" {
			return domain.Manifest{}, apperrors.ErrScannerUnavailable
		}
		return domain.Manifest{}, fmt.Errorf("%w: scanner %q", apperrors.ErrNotFound, name)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrScannerDisabled, manifest.Name)
	}
	if !manifest.HasCapability(domain.CapabilityScan) {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, domain.CapabilityScan)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	return manifest, nil
}

func readImage(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image path is required", apperrors.ErrInvalidInput)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	payload, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(payload) > MaxImageBytes {
		return nil, domain.ErrImageTooLarge
	}
	return payload, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scanner binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
