package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText normalizes extracted text: NFC composition, CRLF to LF, each
// line trimmed, and runs of blank lines collapsed to a single paragraph
// break. Leading and trailing blank lines are dropped.
func CleanText(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	pendingBreak := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			pendingBreak = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if pendingBreak {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		b.WriteString(line)
		pendingBreak = false
	}
	return b.String()
}

// countBlocks counts paragraph blocks in cleaned text
func countBlocks(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n\n") + 1
}
