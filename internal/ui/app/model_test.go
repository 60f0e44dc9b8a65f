package app_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	guidedto "skytools/internal/modules/guide/dto"
	measuredto "skytools/internal/modules/measure/dto"
	"skytools/internal/ui/app"
	"skytools/internal/ui/components"
	guideview "skytools/internal/ui/views/guide"
	measureview "skytools/internal/ui/views/measure"
)

type fakeMeasure struct {
	texts  []string
	images []string
	resets int
}

func (f *fakeMeasure) Current(context.Context) (measuredto.MeasurementOutput, error) {
	return measuredto.MeasurementOutput{State: "idle"}, nil
}

func (f *fakeMeasure) SubmitText(_ context.Context, text string) (measuredto.MeasurementOutput, error) {
	f.texts = append(f.texts, text)
	return measuredto.MeasurementOutput{State: "decoded", HasMeasurement: true, Scale: 1.2, Height: 0.35, Strategy: "keyword"}, nil
}

func (f *fakeMeasure) SubmitImage(_ context.Context, path string) (measuredto.MeasurementOutput, error) {
	f.images = append(f.images, path)
	return measuredto.MeasurementOutput{State: "idle", Error: "no QR code found in image"}, nil
}

func (f *fakeMeasure) Reset(context.Context) (measuredto.MeasurementOutput, error) {
	f.resets++
	return measuredto.MeasurementOutput{State: "idle"}, nil
}

type fakeGuide struct {
	gotos []int
}

func (f *fakeGuide) Current(context.Context) (guidedto.SlideOutput, error) {
	return guidedto.SlideOutput{ID: "open-settings", Step: "Step 1", Total: 5}, nil
}

func (f *fakeGuide) Next(context.Context) (guidedto.SlideOutput, error) {
	return guidedto.SlideOutput{ID: "open-account", Step: "Step 2", Index: 1, Total: 5}, nil
}

func (f *fakeGuide) Prev(context.Context) (guidedto.SlideOutput, error) {
	return guidedto.SlideOutput{ID: "show-qr", Step: "Step 5", Index: 4, Total: 5}, nil
}

func (f *fakeGuide) Goto(_ context.Context, index int) (guidedto.SlideOutput, error) {
	f.gotos = append(f.gotos, index)
	return guidedto.SlideOutput{ID: "outfit-qr", Step: "Step 4", Index: index, Total: 5}, nil
}

// drain runs cmd and every command it batches, feeding messages back into the
// model. Spinner ticks are dropped to keep the loop finite.
func drain(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case measureview.UpdatedMsg, guideview.SlideMsg, components.PaletteSubmitMsg:
			var follow tea.Cmd
			model, follow = model.Update(msg)
			queue = append(queue, follow)
		}
	}
	return model
}

func TestPaletteRoutesCommands(t *testing.T) {
	t.Parallel()
	measure := &fakeMeasure{}
	guide := &fakeGuide{}
	var model tea.Model = app.NewModel(measure, guide)
	model = drain(t, model, model.Init())

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "decode  abc def"} })
	if len(measure.texts) != 1 || measure.texts[0] != "abc def" {
		t.Fatalf("expected decode of %q, got %v", "abc def", measure.texts)
	}

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "scan /tmp/qr.png"} })
	if len(measure.images) != 1 || measure.images[0] != "/tmp/qr.png" {
		t.Fatalf("expected scan of /tmp/qr.png, got %v", measure.images)
	}

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "reset"} })
	if measure.resets != 1 {
		t.Fatalf("expected one reset, got %d", measure.resets)
	}

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "guide:goto 4"} })
	if len(guide.gotos) != 1 || guide.gotos[0] != 3 {
		t.Fatalf("expected goto index 3, got %v", guide.gotos)
	}
	if view := model.View(); !strings.Contains(view, "guide: Step 4") {
		t.Fatalf("status bar should report the guide step:\n%s", view)
	}

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "s /tmp/other.png"} })
	if len(measure.images) != 2 || measure.images[1] != "/tmp/other.png" {
		t.Fatalf("expected alias s to scan, got %v", measure.images)
	}

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "guide:goto two"} })
	if view := model.View(); !strings.Contains(view, "usage: guide:goto <step>") {
		t.Fatalf("expected usage status:\n%s", view)
	}

	model = drain(t, model, func() tea.Msg { return components.PaletteSubmitMsg{Input: "launch rockets"} })
	if view := model.View(); !strings.Contains(view, "unknown command: launch") {
		t.Fatalf("expected unknown command status:\n%s", view)
	}
}
