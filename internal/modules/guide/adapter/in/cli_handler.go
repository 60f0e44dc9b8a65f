package in

import (
	"context"

	"skytools/internal/modules/guide/dto"
	guidein "skytools/internal/modules/guide/port/in"
)

type CLIHandler struct {
	usecase guidein.Usecase
}

func NewCLIHandler(usecase guidein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) All(ctx context.Context) ([]dto.SlideOutput, error) {
	return h.usecase.Slides(ctx)
}

// Step selects a slide by its 1-based number.
func (h CLIHandler) Step(ctx context.Context, number int) (dto.SlideOutput, error) {
	return h.usecase.Goto(ctx, dto.GotoInput{Index: number - 1})
}
