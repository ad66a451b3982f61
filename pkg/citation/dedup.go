package citation

import (
	"fmt"
	"sort"
)

// Deduplicator collapses candidates that point at the same evidence
type Deduplicator interface {
	Name() string
	Deduplicate(candidates []Candidate) []Candidate
}

const (
	StrategySpanAware = "span"
	StrategyNameOnly  = "name"
	StrategyNone      = "none"
)

// StrategyFor resolves a configured strategy name
func StrategyFor(name string) (Deduplicator, error) {
	switch name {
	case StrategySpanAware:
		return SpanAware{}, nil
	case StrategyNameOnly:
		return NameOnly{}, nil
	case StrategyNone, "":
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown dedup strategy: %s", name)
	}
}

// SpanAware keys candidates on chunk id, source uri and answer span, after a
// stable sort on group index. First seen wins.
type SpanAware struct{}

func (SpanAware) Name() string { return StrategySpanAware }

func (SpanAware) Deduplicate(candidates []Candidate) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GroupIndex < sorted[j].GroupIndex
	})
	return firstSeen(sorted, SpanKey)
}

// SpanKey is the composite key used by SpanAware
func SpanKey(c Candidate) string {
	spanKey := "none"
	if c.Span != nil {
		spanKey = fmt.Sprintf("%d:%d", c.Span.Start, c.Span.End)
	}
	return c.ChunkID + ":" + c.SourceURI + ":" + spanKey
}

// NameOnly keys candidates on their display name, in arrival order
type NameOnly struct{}

func (NameOnly) Name() string { return StrategyNameOnly }

func (NameOnly) Deduplicate(candidates []Candidate) []Candidate {
	return firstSeen(candidates, Candidate.Name)
}

// Passthrough returns its input unchanged
type Passthrough struct{}

func (Passthrough) Name() string { return StrategyNone }

func (Passthrough) Deduplicate(candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	return out
}

func firstSeen(candidates []Candidate, key func(Candidate) string) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		k := key(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}
