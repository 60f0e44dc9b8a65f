package markdown_test

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"skytools/internal/platform/markdown"
)

func TestRenderFrontmatter(t *testing.T) {
	t.Parallel()
	out, err := markdown.RenderFrontmatter(map[string]any{"scale": 1.2, "strategy": "keyword"}, "# Measurement\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "---\n") || !strings.HasSuffix(out, "---\n\n# Measurement\n") {
		t.Fatalf("unexpected layout:\n%s", out)
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(out, "---\n"), "---\n\n# Measurement\n")
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("frontmatter is not yaml: %v", err)
	}
	if meta["scale"] != 1.2 || meta["strategy"] != "keyword" {
		t.Fatalf("unexpected frontmatter %v", meta)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	got := markdown.Table([]string{"Metric", "Value"}, [][]string{{"Height", "1.367 m"}, {"a|b"}})
	want := "| Metric | Value |\n| --- | --- |\n| Height | 1.367 m |\n| a\\|b |  |\n"
	if got != want {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", got, want)
	}
}
