package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims and collapses every run of whitespace into one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

func NormalizeCity(city string) string {
	return TrimAndNormalize(city)
}

// NormalizeDescription keeps paragraph breaks but drops trailing spaces on
// each line and surrounding blank lines.
func NormalizeDescription(description string) string {
	description = strings.ReplaceAll(description, "\r\n", "\n")
	lines := strings.Split(description, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
