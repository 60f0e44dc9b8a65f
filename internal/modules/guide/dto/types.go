package dto

// SlideOutput numbers slides from 1 for display; Index is the 0-based
// position used by Goto.
type SlideOutput struct {
	Index       int    `json:"index" yaml:"index"`
	Number      int    `json:"number" yaml:"number"`
	Total       int    `json:"total" yaml:"total"`
	ID          string `json:"id" yaml:"id"`
	Step        string `json:"step" yaml:"step"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	ImageAlt    string `json:"image_alt,omitempty" yaml:"image_alt,omitempty"`
}

type GotoInput struct {
	Index int
}
