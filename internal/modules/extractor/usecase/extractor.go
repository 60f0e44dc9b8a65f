package usecase

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"skytools/internal/modules/extractor/domain"
	"skytools/internal/modules/extractor/dto"
	extractorin "skytools/internal/modules/extractor/port/in"
	"skytools/internal/platform/logging"
)

type Interactor struct {
	logger hclog.Logger
}

func NewInteractor(logger hclog.Logger) extractorin.Usecase {
	return &Interactor{logger: logging.OrNull(logger).Named("extractor")}
}

func (i *Interactor) Decode(ctx context.Context, input dto.DecodeInput) (dto.DecodeOutput, error) {
	if err := ctx.Err(); err != nil {
		return dto.DecodeOutput{}, err
	}
	match, err := domain.Explain(input.Text)
	if err != nil {
		i.logger.Debug("decode failed", "error", err, "input_len", len(input.Text))
		return dto.DecodeOutput{}, err
	}
	i.logger.Debug("decoded payload",
		"candidate", match.CandidateIndex,
		"strategy", match.Strategy,
		"printable", match.Printable,
		"scale", match.Payload.Scale,
		"height", match.Payload.Height,
	)
	return dto.DecodeOutput{
		Scale:          match.Payload.Scale,
		Height:         match.Payload.Height,
		Candidate:      match.Candidate,
		CandidateIndex: match.CandidateIndex,
		Strategy:       string(match.Strategy),
		Printable:      match.Printable,
	}, nil
}
