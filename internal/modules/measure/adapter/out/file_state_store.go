package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"skytools/internal/modules/measure/domain"
	measureout "skytools/internal/modules/measure/port/out"
	apperrors "skytools/internal/platform/errors"
)

type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) measureout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Save(_ context.Context, measurement domain.Measurement) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create measurement state dir: %w", err)
	}
	payload, err := json.MarshalIndent(measurement, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal measurement state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write measurement state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace measurement state: %w", err)
	}
	return nil
}

func (s *FileStateStore) Load(_ context.Context) (domain.Measurement, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Measurement{}, apperrors.ErrNoMeasurement
		}
		return domain.Measurement{}, fmt.Errorf("read measurement state: %w", err)
	}
	measurement := domain.Measurement{}
	if err := json.Unmarshal(payload, &measurement); err != nil {
		return domain.Measurement{}, fmt.Errorf("decode measurement state: %w", err)
	}
	if measurement.State == "" {
		return domain.Measurement{}, apperrors.ErrNoMeasurement
	}
	if measurement.SchemaVersion > domain.SchemaVersion {
		return domain.Measurement{}, fmt.Errorf("measurement state schema %d is newer than supported %d", measurement.SchemaVersion, domain.SchemaVersion)
	}
	return measurement, nil
}

func (s *FileStateStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear measurement state: %w", err)
	}
	return nil
}
