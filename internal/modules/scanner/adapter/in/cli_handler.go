package in

import (
	"context"

	"skytools/internal/modules/scanner/dto"
	scannerin "skytools/internal/modules/scanner/port/in"
)

type CLIHandler struct {
	usecase scannerin.Usecase
}

func NewCLIHandler(usecase scannerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ScannerInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
