package in

import (
	"context"

	"skytools/internal/modules/extractor/dto"
)

type Usecase interface {
	Decode(ctx context.Context, input dto.DecodeInput) (dto.DecodeOutput, error)
}
