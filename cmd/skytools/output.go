package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	guidedto "skytools/internal/modules/guide/dto"
	heightdto "skytools/internal/modules/height/dto"
	measuredto "skytools/internal/modules/measure/dto"
	"skytools/internal/platform/markdown"
	guideview "skytools/internal/ui/views/guide"
)

type outputFormat string

const (
	formatText     outputFormat = "text"
	formatJSON     outputFormat = "json"
	formatYAML     outputFormat = "yaml"
	formatMarkdown outputFormat = "markdown"
)

func parseFormat(raw string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML, formatMarkdown:
		return f, nil
	case "md":
		return formatMarkdown, nil
	}
	return "", fmt.Errorf("unknown --format %q (text|json|yaml|markdown)", raw)
}

// render writes v as JSON or YAML, or through the text and markdown
// renderers supplied by the command.
func render(w io.Writer, f outputFormat, v any, text func(io.Writer), md func() (string, error)) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case formatMarkdown:
		if md == nil {
			raw, err := yaml.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			_, err = fmt.Fprintf(w, "```yaml\n%s```\n", raw)
			return err
		}
		doc, err := md()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, doc)
		return err
	default:
		text(w)
		return nil
	}
}

// ─── measurement ─────────────────────────────────────────────────────────────

func writeMeasurementText(w io.Writer, m measuredto.MeasurementOutput) {
	status := m.State
	if m.Strategy != "" {
		status += " (" + m.Strategy + ")"
	}
	_, _ = fmt.Fprintf(w, "state: %s\n", status)
	if m.FileName != "" {
		_, _ = fmt.Fprintf(w, "image: %s\n", m.FileName)
	}
	if m.Error != "" {
		_, _ = fmt.Fprintf(w, "error: %s\n", m.Error)
	}
	if !m.HasMeasurement {
		_, _ = fmt.Fprintln(w, "no measurement")
		return
	}
	_, _ = fmt.Fprintf(w, "scale=%g height=%g\n", m.Scale, m.Height)
	writeSectionsText(w, m.Sections)
}

func writeReportText(w io.Writer, r measuredto.ReportOutput) {
	_, _ = fmt.Fprintf(w, "strategy: %s\n", r.Strategy)
	if r.Source != "" {
		_, _ = fmt.Fprintf(w, "candidate: %s\n", r.Source)
	}
	_, _ = fmt.Fprintf(w, "scale=%g height=%g\n", r.Scale, r.Height)
	writeSectionsText(w, r.Sections)
}

func writeSectionsText(w io.Writer, sections []measuredto.SectionOutput) {
	for _, section := range sections {
		_, _ = fmt.Fprintf(w, "\n%s\n", section.Title)
		for _, metric := range section.Metrics {
			_, _ = fmt.Fprintf(w, "  %-16s %s\n", metric.Label, metric.Value)
		}
	}
}

func measurementMarkdown(m measuredto.MeasurementOutput) (string, error) {
	meta := map[string]any{"state": m.State}
	if m.ID != "" {
		meta["id"] = m.ID
	}
	if m.HasMeasurement {
		meta["scale"] = m.Scale
		meta["height"] = m.Height
		meta["strategy"] = m.Strategy
		meta["decoded_at"] = m.DecodedAt.Format(time.RFC3339)
	}
	if m.Error != "" {
		meta["error"] = m.Error
	}
	body := "# Measurement\n"
	if m.HasMeasurement {
		body += sectionsMarkdown(m.Sections)
	} else {
		body += "\nNo measurement.\n"
	}
	return markdown.RenderFrontmatter(meta, body)
}

func reportMarkdown(r measuredto.ReportOutput) (string, error) {
	meta := map[string]any{"scale": r.Scale, "height": r.Height, "strategy": r.Strategy}
	return markdown.RenderFrontmatter(meta, "# Measurement\n"+sectionsMarkdown(r.Sections))
}

func sectionsMarkdown(sections []measuredto.SectionOutput) string {
	var b strings.Builder
	for _, section := range sections {
		rows := make([][]string, 0, len(section.Metrics))
		for _, metric := range section.Metrics {
			rows = append(rows, []string{metric.Label, metric.Value})
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s", section.Title, markdown.Table([]string{"Metric", "Value"}, rows))
	}
	return b.String()
}

// ─── height ──────────────────────────────────────────────────────────────────

func heightRows(r heightdto.RangeOutput) [][]string {
	row := func(name string, s heightdto.SnapshotOutput) []string {
		return []string{
			name,
			fmt.Sprintf("%.3fx", s.Factor),
			fmt.Sprintf("%d", s.SizeType),
			fmt.Sprintf("%.3f m", s.BaseHeight),
			fmt.Sprintf("%.3f m", s.Height),
		}
	}
	return [][]string{row("current", r.Current), row("max", r.Max), row("min", r.Min)}
}

var heightHeaders = []string{"Sample", "Factor", "Size type", "Base height", "Height"}

func writeHeightText(w io.Writer, r heightdto.RangeOutput) {
	_, _ = fmt.Fprintf(w, "scale=%g modifier=%g\n", r.Scale, r.HeightModifier)
	for _, row := range heightRows(r) {
		_, _ = fmt.Fprintf(w, "  %-8s factor=%s size_type=%s base=%s height=%s\n", row[0], row[1], row[2], row[3], row[4])
	}
}

func heightMarkdown(r heightdto.RangeOutput) (string, error) {
	meta := map[string]any{"scale": r.Scale, "height_modifier": r.HeightModifier}
	return markdown.RenderFrontmatter(meta, "# Height\n\n"+markdown.Table(heightHeaders, heightRows(r)))
}

// ─── guide ───────────────────────────────────────────────────────────────────

func writeSlidesText(w io.Writer, slides []guidedto.SlideOutput) {
	for i, s := range slides {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s/%d  %s\n  %s\n", s.Step, s.Total, s.Title, s.Description)
	}
}

func slidesMarkdown(slides []guidedto.SlideOutput) (string, error) {
	parts := make([]string, 0, len(slides))
	for _, s := range slides {
		parts = append(parts, guideview.SlideMarkdown(s))
	}
	return strings.Join(parts, "\n"), nil
}
