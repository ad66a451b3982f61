package citation

import "fmt"

const (
	UnknownSource = "Unknown"

	genericWebTitle   = "Web Search Result"
	genericWebSnippet = "Information retrieved from web search"
)

// Extractor turns knowledge-base responses into document candidates
type Extractor struct {
	// SnippetLength caps the reference text, in characters
	SnippetLength int

	// SkipUnlocated drops references that carry no location instead of
	// emitting them with UnknownURI
	SkipUnlocated bool

	// UnknownURI is used when the location has no resolvable uri
	UnknownURI string
}

// NewEncyclopediaExtractor keeps unlocated references as "Unknown"
func NewEncyclopediaExtractor(snippetLength int) *Extractor {
	return &Extractor{
		SnippetLength: snippetLength,
		UnknownURI:    UnknownSource,
	}
}

// NewUnderwritingExtractor drops unlocated references
func NewUnderwritingExtractor(snippetLength int) *Extractor {
	return &Extractor{
		SnippetLength: snippetLength,
		SkipUnlocated: true,
	}
}

// Extract walks the citation groups in arrival order. A response without
// citations yields an empty, non-nil slice.
func (e *Extractor) Extract(resp *KBResponse) []Candidate {
	candidates := []Candidate{}
	if resp == nil {
		return candidates
	}

	for i, group := range resp.Citations {
		span := group.Span()
		for _, ref := range group.RetrievedReferences {
			if e.SkipUnlocated && !ref.Located() {
				continue
			}
			metadata := ref.Metadata
			if metadata == nil {
				metadata = map[string]interface{}{}
			}
			candidates = append(candidates, Candidate{
				GroupIndex: i,
				ChunkID:    ref.ChunkID(),
				SourceURI:  ref.SourceURI(e.UnknownURI),
				Snippet:    Snippet(ref.Text(), e.SnippetLength, MarkAlways),
				Span:       copySpan(span),
				Metadata:   metadata,
				Kind:       KindDocument,
			})
		}
	}
	return candidates
}

// ExtractWeb turns a web-search body into web candidates, one group per
// result. When the body has no results key but carries an answer, a single
// generic candidate stands in for it.
func ExtractWeb(resp *WebSearchResponse, snippetLength int) []Candidate {
	candidates := []Candidate{}
	if resp == nil {
		return candidates
	}

	if resp.Results == nil {
		if resp.Answer != nil {
			candidates = append(candidates, Candidate{
				Title:    genericWebTitle,
				Snippet:  genericWebSnippet,
				Metadata: map[string]interface{}{},
				Kind:     KindWeb,
			})
		}
		return candidates
	}

	for i, r := range resp.Results {
		title := fmt.Sprintf("Web Result %d", i+1)
		if r.Title != nil {
			title = *r.Title
		}
		candidates = append(candidates, Candidate{
			GroupIndex: i,
			SourceURI:  r.URL,
			Title:      title,
			URL:        r.URL,
			Snippet:    Snippet(r.Snippet, snippetLength, MarkWhenClipped),
			Metadata:   map[string]interface{}{},
			Kind:       KindWeb,
		})
	}
	return candidates
}

func copySpan(s *Span) *Span {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
