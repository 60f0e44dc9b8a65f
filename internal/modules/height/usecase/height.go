package usecase

import (
	"context"
	"fmt"
	"math"

	"skytools/internal/modules/height/domain"
	"skytools/internal/modules/height/dto"
	heightin "skytools/internal/modules/height/port/in"
	apperrors "skytools/internal/platform/errors"
)

type Interactor struct{}

func NewInteractor() heightin.Usecase {
	return &Interactor{}
}

func (i *Interactor) Snapshot(_ context.Context, input dto.SnapshotInput) (dto.SnapshotOutput, error) {
	if err := validate(input); err != nil {
		return dto.SnapshotOutput{}, err
	}
	return toOutput(domain.ComputeSnapshot(input.Scale, input.HeightModifier)), nil
}

func (i *Interactor) Range(_ context.Context, input dto.SnapshotInput) (dto.RangeOutput, error) {
	if err := validate(input); err != nil {
		return dto.RangeOutput{}, err
	}
	return dto.RangeOutput{
		Scale:          input.Scale,
		HeightModifier: input.HeightModifier,
		Current:        toOutput(domain.ComputeSnapshot(input.Scale, input.HeightModifier)),
		Max:            toOutput(domain.ComputeSnapshot(input.Scale, domain.MaxModifierSample)),
		Min:            toOutput(domain.ComputeSnapshot(input.Scale, domain.MinModifierSample)),
	}, nil
}

func validate(input dto.SnapshotInput) error {
	for name, v := range map[string]float64{"scale": input.Scale, "height modifier": input.HeightModifier} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", apperrors.ErrInvalidInput, name)
		}
	}
	return nil
}

func toOutput(s domain.Snapshot) dto.SnapshotOutput {
	return dto.SnapshotOutput{
		Factor:      s.Factor,
		SizeType:    s.SizeType,
		BaseHeight:  s.BaseHeight,
		Height:      s.Height,
		HeightDelta: s.HeightDelta,
	}
}
