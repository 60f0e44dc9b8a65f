package usecase

import (
	"context"
	"fmt"
	"sync"

	"skytools/internal/modules/guide/domain"
	"skytools/internal/modules/guide/dto"
	guidein "skytools/internal/modules/guide/port/in"
	guideout "skytools/internal/modules/guide/port/out"
	apperrors "skytools/internal/platform/errors"
)

type Interactor struct {
	source guideout.SlideSource

	mu   sync.Mutex
	deck *domain.Deck
}

func NewInteractor(source guideout.SlideSource) guidein.Usecase {
	return &Interactor{source: source}
}

func (i *Interactor) Slides(ctx context.Context) ([]dto.SlideOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	deck, err := i.deckLocked(ctx)
	if err != nil {
		return nil, err
	}
	slides := deck.Slides()
	out := make([]dto.SlideOutput, 0, len(slides))
	for index, slide := range slides {
		out = append(out, toOutput(slide, index, len(slides)))
	}
	return out, nil
}

func (i *Interactor) Current(ctx context.Context) (dto.SlideOutput, error) {
	return i.move(ctx, func(d *domain.Deck) domain.Slide { return d.Current() })
}

func (i *Interactor) Next(ctx context.Context) (dto.SlideOutput, error) {
	return i.move(ctx, (*domain.Deck).Next)
}

func (i *Interactor) Prev(ctx context.Context) (dto.SlideOutput, error) {
	return i.move(ctx, (*domain.Deck).Prev)
}

// Goto leaves the deck where it was when input.Index is out of range and
// reports that as invalid input alongside the unchanged slide.
func (i *Interactor) Goto(ctx context.Context, input dto.GotoInput) (dto.SlideOutput, error) {
	var moved bool
	out, err := i.move(ctx, func(d *domain.Deck) domain.Slide {
		moved = d.Goto(input.Index)
		return d.Current()
	})
	if err != nil {
		return dto.SlideOutput{}, err
	}
	if !moved {
		return out, fmt.Errorf("%w: step %d is outside the guide (1-%d)", apperrors.ErrInvalidInput, input.Index+1, out.Total)
	}
	return out, nil
}

func (i *Interactor) move(ctx context.Context, step func(*domain.Deck) domain.Slide) (dto.SlideOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	deck, err := i.deckLocked(ctx)
	if err != nil {
		return dto.SlideOutput{}, err
	}
	slide := step(deck)
	return toOutput(slide, deck.Active(), deck.Len()), nil
}

func (i *Interactor) deckLocked(ctx context.Context) (*domain.Deck, error) {
	if i.deck != nil {
		return i.deck, nil
	}
	slides, err := i.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load guide: %w", err)
	}
	i.deck = domain.NewDeck(slides)
	return i.deck, nil
}

func toOutput(slide domain.Slide, index, total int) dto.SlideOutput {
	if total == 0 {
		index = 0
	}
	return dto.SlideOutput{
		Index:       index,
		Number:      index + 1,
		Total:       total,
		ID:          slide.ID,
		Step:        slide.Step,
		Title:       slide.Title,
		Description: slide.Description,
		Placeholder: slide.Placeholder,
		ImageAlt:    slide.ImageAlt,
	}
}
