package citation

import "unicode/utf8"

const (
	TruncationMarker = "..."

	EncyclopediaSnippetLength = 500
	UnderwritingSnippetLength = 800
	WebSnippetLength          = 200
)

// MarkPolicy decides when the truncation marker is appended
type MarkPolicy int

const (
	// MarkAlways appends the marker to every snippet, clipped or not.
	// Knowledge-base references use it.
	MarkAlways MarkPolicy = iota
	// MarkWhenClipped appends the marker only when text was cut
	MarkWhenClipped
)

// Snippet keeps at most limit characters (runes) of text and applies the
// marker policy. A non-positive limit disables clipping.
func Snippet(text string, limit int, policy MarkPolicy) string {
	clipped := false
	if limit > 0 && utf8.RuneCountInString(text) > limit {
		text = firstRunes(text, limit)
		clipped = true
	}
	if policy == MarkAlways || clipped {
		return text + TruncationMarker
	}
	return text
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
