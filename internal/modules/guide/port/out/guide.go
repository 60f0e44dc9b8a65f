package out

import (
	"context"

	"skytools/internal/modules/guide/domain"
)

type SlideSource interface {
	Load(ctx context.Context) ([]domain.Slide, error)
}
