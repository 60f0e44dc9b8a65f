package usecase

import (
	"context"

	heightdto "skytools/internal/modules/height/dto"
	heightin "skytools/internal/modules/height/port/in"
	"skytools/internal/modules/measure/domain"
	"skytools/internal/modules/measure/dto"
	measurein "skytools/internal/modules/measure/port/in"
	"skytools/internal/modules/measure/service"
)

type Interactor struct {
	svc    *service.Controller
	height heightin.Usecase
}

func NewInteractor(svc *service.Controller, height heightin.Usecase) measurein.Usecase {
	return &Interactor{svc: svc, height: height}
}

func (i *Interactor) SubmitText(ctx context.Context, input dto.SubmitTextInput) (dto.MeasurementOutput, error) {
	m, err := i.svc.SubmitRawText(ctx, input.Text)
	return i.present(ctx, m, err)
}

func (i *Interactor) SubmitImage(ctx context.Context, input dto.SubmitImageInput) (dto.MeasurementOutput, error) {
	m, err := i.svc.SubmitImage(ctx, input.ImagePath)
	return i.present(ctx, m, err)
}

func (i *Interactor) Show(ctx context.Context) (dto.MeasurementOutput, error) {
	m, err := i.svc.Current(ctx)
	return i.present(ctx, m, err)
}

func (i *Interactor) Reset(ctx context.Context) (dto.MeasurementOutput, error) {
	m, err := i.svc.Reset(ctx)
	return i.present(ctx, m, err)
}

func (i *Interactor) Evaluate(ctx context.Context, input dto.EvaluateInput) (dto.ReportOutput, error) {
	decoded, err := i.svc.Evaluate(ctx, input.Text, input.ImagePath)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	snapshots, err := i.height.Range(ctx, heightdto.SnapshotInput{Scale: decoded.Scale, HeightModifier: decoded.Height})
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{
		Scale:     decoded.Scale,
		Height:    decoded.Height,
		Strategy:  decoded.Strategy,
		Source:    decoded.Candidate,
		Snapshots: snapshots,
		Sections:  sections(snapshots),
	}, nil
}

// present keeps the measurement view even when the controller reports a
// fault, so callers can still render the slot they were shown.
func (i *Interactor) present(ctx context.Context, m domain.Measurement, fault error) (dto.MeasurementOutput, error) {
	if m.State == "" {
		return dto.MeasurementOutput{}, fault
	}
	snapshots, err := i.height.Range(ctx, heightdto.SnapshotInput{Scale: m.ComparisonScale, HeightModifier: m.BodyHeightDelta})
	if err != nil {
		return dto.MeasurementOutput{}, err
	}
	out := dto.MeasurementOutput{
		ID:             m.ID,
		State:          string(m.State),
		RawInput:       m.RawInput,
		FileName:       m.FileName,
		Error:          m.Error,
		HasMeasurement: m.HasMeasurement(),
		Scale:          m.ComparisonScale,
		Height:         m.BodyHeightDelta,
		Strategy:       m.Strategy,
		DecodedAt:      m.DecodedAt,
		Snapshots:      snapshots,
		Sections:       sections(snapshots),
	}
	return out, fault
}

func sections(r heightdto.RangeOutput) []dto.SectionOutput {
	built := domain.BuildSections(domain.Readings{
		Scale:     r.Scale,
		HeightRaw: r.HeightModifier,
		Current:   reading(r.Current),
		Max:       reading(r.Max),
		Min:       reading(r.Min),
	})
	out := make([]dto.SectionOutput, 0, len(built))
	for _, section := range built {
		metrics := make([]dto.MetricOutput, 0, len(section.Metrics))
		for _, metric := range section.Metrics {
			metrics = append(metrics, dto.MetricOutput{ID: metric.ID, Label: metric.Label, Value: metric.Value})
		}
		out = append(out, dto.SectionOutput{ID: section.ID, Title: section.Title, DefaultOpen: section.DefaultOpen, Metrics: metrics})
	}
	return out
}

func reading(s heightdto.SnapshotOutput) domain.Reading {
	return domain.Reading{Factor: s.Factor, SizeType: s.SizeType, BaseHeight: s.BaseHeight, Height: s.Height}
}
