package usecase

import (
	"context"

	"skytools/internal/modules/scanner/dto"
	scannerin "skytools/internal/modules/scanner/port/in"
	"skytools/internal/modules/scanner/service"
)

type Interactor struct {
	svc *service.ScannerService
}

func NewInteractor(svc *service.ScannerService) scannerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ScannerInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Scan(ctx context.Context, input dto.ScanInput) (dto.ScanOutput, error) {
	return i.svc.Scan(ctx, input)
}
