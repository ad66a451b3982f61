package citation

import "sync"

// Accumulator collects candidates from the tool calls of one turn. Group
// indexes of each batch are rebased after the groups already held, so the
// span-aware sort keeps call-return order. The zero value is ready to use.
type Accumulator struct {
	mu         sync.Mutex
	candidates []Candidate
	nextGroup  int
	bySource   map[string]int
}

// Add appends one tool call's candidates under source
func (a *Accumulator) Add(source string, candidates []Candidate) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.bySource == nil {
		a.bySource = make(map[string]int)
	}

	base := a.nextGroup
	maxGroup := -1
	for _, c := range candidates {
		if c.GroupIndex > maxGroup {
			maxGroup = c.GroupIndex
		}
		c.GroupIndex += base
		a.candidates = append(a.candidates, c)
	}
	a.nextGroup = base + maxGroup + 1
	a.bySource[source] += len(candidates)
}

// Candidates returns a copy of everything collected so far
func (a *Accumulator) Candidates() []Candidate {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Candidate, len(a.candidates))
	copy(out, a.candidates)
	return out
}

// Len is the number of collected candidates
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.candidates)
}

// CountFrom is the number of candidates added under source
func (a *Accumulator) CountFrom(source string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bySource[source]
}
