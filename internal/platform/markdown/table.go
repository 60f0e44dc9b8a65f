package markdown

import "strings"

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// Table renders a GitHub-style table. Rows shorter than headers are padded.
func Table(headers []string, rows [][]string) string {
	var b strings.Builder
	writeRow(&b, headers, len(headers))
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(&b, row, len(headers))
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, width int) {
	b.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(cells) {
			cell = cellEscaper.Replace(cells[i])
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}
