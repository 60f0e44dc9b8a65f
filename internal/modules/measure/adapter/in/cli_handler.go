package in

import (
	"context"

	"skytools/internal/modules/measure/dto"
	measurein "skytools/internal/modules/measure/port/in"
)

type CLIHandler struct {
	usecase measurein.Usecase
}

func NewCLIHandler(usecase measurein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Decode(ctx context.Context, text string) (dto.MeasurementOutput, error) {
	return h.usecase.SubmitText(ctx, dto.SubmitTextInput{Text: text})
}

func (h CLIHandler) Scan(ctx context.Context, imagePath string) (dto.MeasurementOutput, error) {
	return h.usecase.SubmitImage(ctx, dto.SubmitImageInput{ImagePath: imagePath})
}

func (h CLIHandler) Show(ctx context.Context) (dto.MeasurementOutput, error) {
	return h.usecase.Show(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.MeasurementOutput, error) {
	return h.usecase.Reset(ctx)
}

// Explain decodes without touching the stored measurement.
func (h CLIHandler) Explain(ctx context.Context, text, imagePath string) (dto.ReportOutput, error) {
	return h.usecase.Evaluate(ctx, dto.EvaluateInput{Text: text, ImagePath: imagePath})
}
