package out

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"skytools/internal/modules/guide/domain"
	guideout "skytools/internal/modules/guide/port/out"
)

//go:embed slides.yaml
var defaultDeck []byte

type deckFile struct {
	Slides []domain.Slide `yaml:"slides"`
}

type YAMLSlideSource struct {
	raw []byte
}

// NewYAMLSlideSource reads slides from raw; nil selects the built-in deck.
func NewYAMLSlideSource(raw []byte) guideout.SlideSource {
	if raw == nil {
		raw = defaultDeck
	}
	return YAMLSlideSource{raw: raw}
}

func (s YAMLSlideSource) Load(ctx context.Context) ([]domain.Slide, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(s.raw))
	decoder.KnownFields(true)
	var file deckFile
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode slide deck: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Slides))
	for i, slide := range file.Slides {
		if err := slide.Validate(); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		if _, dup := seen[slide.ID]; dup {
			return nil, fmt.Errorf("slide %d: duplicate id %q", i+1, slide.ID)
		}
		seen[slide.ID] = struct{}{}
	}
	return file.Slides, nil
}
