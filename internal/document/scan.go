package document

import (
	"strings"

	"github.com/colonyops/ctt/internal/core/checkbox"
)

// TaskLine is a checkbox line and its 1-based line number.
type TaskLine struct {
	Number int
	Text   string
}

// TaskLines returns every checkbox line outside of front matter and fenced
// code blocks.
func (d *Document) TaskLines() []TaskLine {
	var (
		out   []TaskLine
		fence string
		start = frontmatterEnd(d.lines)
	)

	for i := start; i < len(d.lines); i++ {
		line := d.lines[i]
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}

		if checkbox.IsTask(line) {
			out = append(out, TaskLine{Number: i + 1, Text: line})
		}
	}

	return out
}

// frontmatterEnd returns the index of the first line after a leading
// "---" front matter block, or 0 when there is none.
func frontmatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i + 1
		}
	}
	return 0
}
