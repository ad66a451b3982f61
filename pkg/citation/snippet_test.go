package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		limit  int
		policy MarkPolicy
		want   string
	}{
		{"short always marked", "hello", 10, MarkAlways, "hello..."},
		{"short when clipped", "hello", 10, MarkWhenClipped, "hello"},
		{"exact length when clipped", "hello", 5, MarkWhenClipped, "hello"},
		{"long always", "hello world", 5, MarkAlways, "hello..."},
		{"long when clipped", "hello world", 5, MarkWhenClipped, "hello..."},
		{"empty always", "", 5, MarkAlways, "..."},
		{"no limit", "hello world", 0, MarkWhenClipped, "hello world"},
		{"runes not bytes", "héllo wörld", 7, MarkWhenClipped, "héllo w..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Snippet(tt.text, tt.limit, tt.policy))
		})
	}
}

func TestSnippetNeverExceedsCap(t *testing.T) {
	for _, n := range []int{0, 1, 199, 200, 201, 500, 799, 800, 801, 2000} {
		text := strings.Repeat("x", n)
		for _, limit := range []int{WebSnippetLength, EncyclopediaSnippetLength, UnderwritingSnippetLength} {
			got := strings.TrimSuffix(Snippet(text, limit, MarkAlways), TruncationMarker)
			assert.LessOrEqual(t, len(got), limit)
			if n > limit {
				assert.Equal(t, text[:limit], got)
			} else {
				assert.Equal(t, text, got)
			}
		}
	}
}
