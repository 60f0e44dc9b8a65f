package in

import (
	"context"
	"errors"

	"skytools/internal/modules/guide/dto"
	guidein "skytools/internal/modules/guide/port/in"
	apperrors "skytools/internal/platform/errors"
)

type TUIHandler struct {
	usecase guidein.Usecase
}

func NewTUIHandler(usecase guidein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Current(ctx context.Context) (dto.SlideOutput, error) {
	return h.usecase.Current(ctx)
}

func (h TUIHandler) Next(ctx context.Context) (dto.SlideOutput, error) {
	return h.usecase.Next(ctx)
}

func (h TUIHandler) Prev(ctx context.Context) (dto.SlideOutput, error) {
	return h.usecase.Prev(ctx)
}

// Goto ignores out-of-range indices and returns the slide left showing.
func (h TUIHandler) Goto(ctx context.Context, index int) (dto.SlideOutput, error) {
	out, err := h.usecase.Goto(ctx, dto.GotoInput{Index: index})
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return out, nil
	}
	return out, err
}
