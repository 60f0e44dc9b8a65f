package in

import (
	"context"

	"skytools/internal/modules/guide/dto"
)

type Usecase interface {
	Slides(ctx context.Context) ([]dto.SlideOutput, error)
	Current(ctx context.Context) (dto.SlideOutput, error)
	Next(ctx context.Context) (dto.SlideOutput, error)
	Prev(ctx context.Context) (dto.SlideOutput, error)
	Goto(ctx context.Context, input dto.GotoInput) (dto.SlideOutput, error)
}
