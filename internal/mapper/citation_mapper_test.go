package mapper

import (
	"encoding/json"
	"testing"

	"kb-agent-lambda/pkg/citation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCitations() []citation.Citation {
	return []citation.Citation{
		{
			ID:        "doc-1",
			ChunkID:   "c1",
			SourceURI: "s3://bucket/a.pdf",
			Snippet:   "hello world...",
			Span:      &citation.Span{Start: 0, End: 12},
			Metadata:  map[string]interface{}{"x-amz-bedrock-kb-chunk-id": "c1"},
			Kind:      citation.KindDocument,
		},
		{
			ID:        "web-1",
			SourceURI: "https://example.com",
			Title:     "Example",
			URL:       "https://example.com",
			Snippet:   "snippet",
			Kind:      citation.KindWeb,
		},
	}
}

func TestToUnderwritingCitations(t *testing.T) {
	out := NewCitationMapper().ToUnderwritingCitations(sampleCitations())
	require.Len(t, out, 2)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"doc-1","name":"s3://bucket/a.pdf","type":"document","snippet":"hello world...","metadata":{"x-amz-bedrock-kb-chunk-id":"c1"}},
		{"id":"web-1","name":"Example","type":"web","url":"https://example.com","snippet":"snippet","metadata":{}}
	]`, string(body))
}

func TestToEncyclopediaCitations(t *testing.T) {
	out := NewCitationMapper().ToEncyclopediaCitations(sampleCitations()[:1])

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"doc-1","source":"s3://bucket/a.pdf","content":"hello world...","metadata":{"x-amz-bedrock-kb-chunk-id":"c1"},"span":{"start":0,"end":12}}]`, string(body))

	assert.NotNil(t, NewCitationMapper().ToEncyclopediaCitations(nil))
}
