package citation

// Pipeline finalizes collected candidates: deduplicate, then assign ids
type Pipeline struct {
	dedup Deduplicator
}

// NewPipeline builds a pipeline; a nil deduplicator passes candidates through
func NewPipeline(dedup Deduplicator) *Pipeline {
	if dedup == nil {
		dedup = Passthrough{}
	}
	return &Pipeline{dedup: dedup}
}

// Strategy names the deduplicator in use
func (p *Pipeline) Strategy() string {
	return p.dedup.Name()
}

// Finalize returns the citation list for candidates
func (p *Pipeline) Finalize(candidates []Candidate) []Citation {
	return AssignIDs(p.dedup.Deduplicate(candidates))
}
