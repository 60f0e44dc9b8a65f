package in

import (
	"context"

	"skytools/internal/modules/measure/dto"
)

// Usecase drives the current measurement slot. Decode and scan failures are
// reported through MeasurementOutput.Error; returned errors are controller
// faults such as a decode already in flight or state I/O.
type Usecase interface {
	SubmitText(ctx context.Context, input dto.SubmitTextInput) (dto.MeasurementOutput, error)
	SubmitImage(ctx context.Context, input dto.SubmitImageInput) (dto.MeasurementOutput, error)
	Show(ctx context.Context) (dto.MeasurementOutput, error)
	Reset(ctx context.Context) (dto.MeasurementOutput, error)
	Evaluate(ctx context.Context, input dto.EvaluateInput) (dto.ReportOutput, error)
}
