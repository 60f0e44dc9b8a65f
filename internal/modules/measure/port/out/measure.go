package out

import (
	"context"

	"skytools/internal/modules/measure/domain"
)

// StateStore persists the current measurement slot between runs. Load
// returns apperrors.ErrNoMeasurement when nothing is stored.
type StateStore interface {
	Load(ctx context.Context) (domain.Measurement, error)
	Save(ctx context.Context, measurement domain.Measurement) error
	Clear(ctx context.Context) error
}

// Scanner turns an image file into the text encoded in its QR code.
type Scanner interface {
	Scan(ctx context.Context, imagePath string) (string, error)
}
