package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	extractordto "skytools/internal/modules/extractor/dto"
	extractorin "skytools/internal/modules/extractor/port/in"
	"skytools/internal/modules/measure/domain"
	measureout "skytools/internal/modules/measure/port/out"
	"skytools/internal/platform/clock"
	apperrors "skytools/internal/platform/errors"
	"skytools/internal/platform/id"
	"skytools/internal/platform/logging"
)

// Controller owns the current measurement slot. Decoding and scanning run
// outside the lock; the Decoding state rejects overlapping submissions.
type Controller struct {
	clock     clock.Clock
	idGen     id.Generator
	extractor extractorin.Usecase
	scanner   measureout.Scanner
	store     measureout.StateStore
	logger    hclog.Logger

	mu       sync.Mutex
	current  domain.Measurement
	loaded   bool
	sequence uint64
}

func NewController(clk clock.Clock, idGen id.Generator, extractor extractorin.Usecase, scanner measureout.Scanner, store measureout.StateStore, logger hclog.Logger) *Controller {
	return &Controller{
		clock:     clk,
		idGen:     idGen,
		extractor: extractor,
		scanner:   scanner,
		store:     store,
		logger:    logging.OrNull(logger).Named("measure"),
		current:   domain.Idle(),
	}
}

func (c *Controller) Current(ctx context.Context) (domain.Measurement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(ctx); err != nil {
		return domain.Measurement{}, err
	}
	return c.current, nil
}

func (c *Controller) SubmitRawText(ctx context.Context, text string) (domain.Measurement, error) {
	source := strings.TrimSpace(text)

	c.mu.Lock()
	if err := c.loadLocked(ctx); err != nil {
		c.mu.Unlock()
		return domain.Measurement{}, err
	}
	if source == "" {
		if c.current.State == domain.StateDecoding {
			snapshot := c.current
			c.mu.Unlock()
			return snapshot, apperrors.ErrDecodeInFlight
		}
		c.current = c.current.Fail(domain.EmptyInputMessage)
		snapshot := c.current
		err := c.saveLocked(ctx)
		c.mu.Unlock()
		return snapshot, err
	}
	next, err := c.current.BeginText(source)
	if err != nil {
		snapshot := c.current
		c.mu.Unlock()
		return snapshot, err
	}
	c.current = next
	c.sequence++
	seq := c.sequence
	c.mu.Unlock()

	return c.decode(ctx, seq, source)
}

func (c *Controller) SubmitImage(ctx context.Context, imagePath string) (domain.Measurement, error) {
	c.mu.Lock()
	if err := c.loadLocked(ctx); err != nil {
		c.mu.Unlock()
		return domain.Measurement{}, err
	}
	next, err := c.current.BeginImage(filepath.Base(imagePath))
	if err != nil {
		snapshot := c.current
		c.mu.Unlock()
		return snapshot, err
	}
	c.current = next
	c.sequence++
	seq := c.sequence
	c.mu.Unlock()

	if c.scanner == nil {
		return c.finish(ctx, seq, func(m domain.Measurement) domain.Measurement {
			return m.Fail(apperrors.ErrScannerUnavailable.Error())
		})
	}
	text, err := c.scanner.Scan(ctx, imagePath)
	if err != nil {
		c.logger.Warn("scan failed", "image", imagePath, "error", err)
		return c.finish(ctx, seq, func(m domain.Measurement) domain.Measurement {
			return m.Fail(err.Error())
		})
	}

	c.mu.Lock()
	if c.sequence == seq {
		c.current.RawInput = text
	}
	c.mu.Unlock()
	return c.decode(ctx, seq, strings.TrimSpace(text))
}

// Reset returns to Idle from any state. A decode still in flight is
// discarded when it completes.
func (c *Controller) Reset(ctx context.Context) (domain.Measurement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.sequence++
	c.current = domain.Idle()
	if c.store == nil {
		return c.current, nil
	}
	return c.current, c.store.Clear(ctx)
}

func (c *Controller) decode(ctx context.Context, seq uint64, source string) (domain.Measurement, error) {
	out, err := c.extractor.Decode(ctx, extractordto.DecodeInput{Text: source})
	if err != nil {
		c.logger.Warn("decode failed", "error", err)
		return c.finish(ctx, seq, func(m domain.Measurement) domain.Measurement {
			return m.Fail(err.Error())
		})
	}
	c.logger.Debug("decode succeeded", "strategy", out.Strategy, "candidate", out.CandidateIndex, "scale", out.Scale, "height", out.Height)
	measurementID := c.idGen.New()
	at := c.clock.Now()
	return c.finish(ctx, seq, func(m domain.Measurement) domain.Measurement {
		return m.Succeed(measurementID, domain.Payload{Scale: out.Scale, Height: out.Height}, out.Strategy, at)
	})
}

// finish applies the outcome of decode seq unless a reset or newer submission
// superseded it, then persists the slot.
func (c *Controller) finish(ctx context.Context, seq uint64, apply func(domain.Measurement) domain.Measurement) (domain.Measurement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sequence != seq {
		c.logger.Debug("discarding superseded decode", "sequence", seq)
		return c.current, nil
	}
	c.current = apply(c.current)
	return c.current, c.saveLocked(ctx)
}

func (c *Controller) loadLocked(ctx context.Context) error {
	if c.loaded || c.store == nil {
		c.loaded = true
		return nil
	}
	stored, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoMeasurement):
		c.current = domain.Idle()
	case err != nil:
		return err
	default:
		// A run that died mid-decode leaves Decoding on disk.
		if stored.State == domain.StateDecoding {
			stored.State = domain.StateIdle
			if stored.HasMeasurement() {
				stored.State = domain.StateDecoded
			}
		}
		c.current = stored
	}
	c.loaded = true
	return nil
}

func (c *Controller) saveLocked(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(ctx, c.current)
}
