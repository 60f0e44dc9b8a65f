package in

import (
	"context"

	"skytools/internal/modules/measure/dto"
	measurein "skytools/internal/modules/measure/port/in"
)

type TUIHandler struct {
	usecase measurein.Usecase
}

func NewTUIHandler(usecase measurein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Current(ctx context.Context) (dto.MeasurementOutput, error) {
	return h.usecase.Show(ctx)
}

func (h TUIHandler) SubmitText(ctx context.Context, text string) (dto.MeasurementOutput, error) {
	return h.usecase.SubmitText(ctx, dto.SubmitTextInput{Text: text})
}

func (h TUIHandler) SubmitImage(ctx context.Context, imagePath string) (dto.MeasurementOutput, error) {
	return h.usecase.SubmitImage(ctx, dto.SubmitImageInput{ImagePath: imagePath})
}

func (h TUIHandler) Reset(ctx context.Context) (dto.MeasurementOutput, error) {
	return h.usecase.Reset(ctx)
}
