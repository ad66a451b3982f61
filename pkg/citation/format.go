package citation

import (
	"fmt"
	"strings"
)

// FormatAnswer appends a numbered citation block to answer. Numbers are list
// positions, not citation ids. No citations, no block.
func FormatAnswer(answer string, citations []Citation) string {
	if len(citations) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\nCitations:\n")
	for i, c := range citations {
		b.WriteString(fmt.Sprintf("[%d] Document: %s\n", i+1, c.Name()))
		if c.Snippet != "" {
			b.WriteString(fmt.Sprintf("    Snippet: %s\n", c.Snippet))
		}
	}
	return b.String()
}
