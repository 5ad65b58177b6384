package util

import (
	"strings"
)

// Markdown strips tab indentation and replaces ' with `, allowing markdown
// to be written as indented multi-line strings inside Go source.
func Markdown(s string) string {
	lines := strings.Split(s, "\n")

	// Drop blank lines at both ends
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	// Find the common tab indentation
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		i := 0
		for i < len(line) && line[i] == '\t' {
			i++
		}
		if indent == -1 || i < indent {
			indent = i
		}
	}
	if indent < 0 {
		indent = 0
	}

	for i, line := range lines {
		if len(line) < indent {
			lines[i] = ""
			continue
		}
		lines[i] = line[indent:]
	}

	return strings.Replace(strings.Join(lines, "\n"), "'", "`", -1)
}
