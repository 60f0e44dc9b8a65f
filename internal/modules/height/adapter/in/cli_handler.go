package in

import (
	"context"

	"skytools/internal/modules/height/dto"
	heightin "skytools/internal/modules/height/port/in"
)

type CLIHandler struct {
	usecase heightin.Usecase
}

func NewCLIHandler(usecase heightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Range(ctx context.Context, scale, modifier float64) (dto.RangeOutput, error) {
	return h.usecase.Range(ctx, dto.SnapshotInput{Scale: scale, HeightModifier: modifier})
}
