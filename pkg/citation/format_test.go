package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAnswerEmpty(t *testing.T) {
	answer := "The answer.\n  with trailing space "
	assert.Equal(t, answer, FormatAnswer(answer, nil))
	assert.Equal(t, answer, FormatAnswer(answer, []Citation{}))
}

func TestFormatAnswer(t *testing.T) {
	citations := []Citation{
		{ID: "doc-1", SourceURI: "s3://bucket/a.pdf", Snippet: "hello world..."},
		{ID: "web-1", Title: "News", URL: "https://n.example"},
		{ID: "doc-9", SourceURI: "Unknown", Snippet: "x..."},
	}

	want := "Answer" +
		"\n\nCitations:\n" +
		"[1] Document: s3://bucket/a.pdf\n" +
		"    Snippet: hello world...\n" +
		"[2] Document: News\n" +
		"[3] Document: Unknown\n" +
		"    Snippet: x...\n"

	assert.Equal(t, want, FormatAnswer("Answer", citations))
}
