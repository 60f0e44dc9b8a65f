package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	extractordto "skytools/internal/modules/extractor/dto"
	"skytools/internal/modules/measure/domain"
	apperrors "skytools/internal/platform/errors"
)

// Evaluate decodes text, or the QR code in imagePath, without touching the
// current slot. Decode and scan failures wrap apperrors.ErrUndecodable.
func (c *Controller) Evaluate(ctx context.Context, text, imagePath string) (extractordto.DecodeOutput, error) {
	if imagePath != "" {
		if c.scanner == nil {
			return extractordto.DecodeOutput{}, apperrors.ErrScannerUnavailable
		}
		scanned, err := c.scanner.Scan(ctx, imagePath)
		if err != nil {
			if errors.Is(err, apperrors.ErrScannerUnavailable) || errors.Is(err, apperrors.ErrInvalidInput) {
				return extractordto.DecodeOutput{}, err
			}
			return extractordto.DecodeOutput{}, fmt.Errorf("%w: %v", apperrors.ErrUndecodable, err)
		}
		text = scanned
	}
	source := strings.TrimSpace(text)
	if source == "" {
		return extractordto.DecodeOutput{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, domain.EmptyInputMessage)
	}
	out, err := c.extractor.Decode(ctx, extractordto.DecodeInput{Text: source})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return extractordto.DecodeOutput{}, ctxErr
		}
		return extractordto.DecodeOutput{}, fmt.Errorf("%w: %v", apperrors.ErrUndecodable, err)
	}
	return out, nil
}
