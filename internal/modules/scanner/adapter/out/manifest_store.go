package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"skytools/internal/modules/scanner/domain"
	scannerout "skytools/internal/modules/scanner/port/out"
)

const manifestFile = "plugins.json"

type FileManifestStore struct {
	pluginDir string
	path      string
}

func NewFileManifestStore(pluginDir string) scannerout.ManifestStore {
	return &FileManifestStore{pluginDir: pluginDir, path: filepath.Join(pluginDir, manifestFile)}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read scanner manifest store: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode scanner manifests: %w", err)
	}
	// Scan selects a configured scanner by name, so names must be unique.
	seen := make(map[string]int, len(manifests))
	for i := range manifests {
		name := strings.TrimSpace(manifests[i].Name)
		if name != "" {
			if first, ok := seen[name]; ok {
				return nil, fmt.Errorf("duplicate scanner name %q in entries %d and %d", name, first, i)
			}
			seen[name] = i
		}
		manifests[i].Binary = s.resolveBinary(manifests[i].Binary)
	}
	return manifests, nil
}

// resolveBinary expands a leading ~ and anchors relative paths at the plugin dir.
func (s *FileManifestStore) resolveBinary(binary string) string {
	if binary == "" {
		return ""
	}
	if binary == "~" || strings.HasPrefix(binary, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(binary, "~"))
		}
	}
	if filepath.IsAbs(binary) {
		return filepath.Clean(binary)
	}
	return filepath.Clean(filepath.Join(s.pluginDir, binary))
}
