package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptySlideField = errors.New("slide field is empty")

// Slide is one step of the in-game walkthrough for finding the outfit QR code.
type Slide struct {
	ID          string `yaml:"id"`
	Step        string `yaml:"step"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Placeholder string `yaml:"placeholder"`
	ImageAlt    string `yaml:"image_alt"`
}

func (s Slide) Validate() error {
	for name, value := range map[string]string{"id": s.ID, "step": s.Step, "title": s.Title} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", ErrEmptySlideField, name)
		}
	}
	return nil
}

// Fallback is shown when the deck has no slides.
var Fallback = Slide{
	ID:          "placeholder",
	Step:        "Step ?",
	Title:       "No slides yet",
	Description: "Add walkthrough content to the guide deck.",
	Placeholder: "No data",
}

// Deck tracks the active slide. Next and Prev wrap around; Goto ignores
// indices outside the deck.
type Deck struct {
	slides []Slide
	active int
}

func NewDeck(slides []Slide) *Deck {
	return &Deck{slides: append([]Slide(nil), slides...)}
}

func (d *Deck) Len() int {
	return len(d.slides)
}

func (d *Deck) Active() int {
	return d.active
}

func (d *Deck) Slides() []Slide {
	return append([]Slide(nil), d.slides...)
}

func (d *Deck) Current() Slide {
	if len(d.slides) == 0 {
		return Fallback
	}
	if d.active < 0 || d.active >= len(d.slides) {
		return d.slides[0]
	}
	return d.slides[d.active]
}

func (d *Deck) Next() Slide {
	if len(d.slides) > 0 {
		d.active = (d.active + 1) % len(d.slides)
	}
	return d.Current()
}

func (d *Deck) Prev() Slide {
	if n := len(d.slides); n > 0 {
		d.active = (d.active - 1 + n) % n
	}
	return d.Current()
}

// Goto reports whether index was inside the deck.
func (d *Deck) Goto(index int) bool {
	if index < 0 || index >= len(d.slides) {
		return false
	}
	d.active = index
	return true
}
