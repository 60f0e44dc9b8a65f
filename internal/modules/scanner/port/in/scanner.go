package in

import (
	"context"

	"skytools/internal/modules/scanner/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ScannerInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Scan(ctx context.Context, input dto.ScanInput) (dto.ScanOutput, error)
}
