package citation

import "fmt"

// AssignIDs stamps final ids in order. Existing ids are kept; documents and
// web results count independently from 1; anything else gets src-<position>.
func AssignIDs(candidates []Candidate) []Citation {
	citations := make([]Citation, 0, len(candidates))
	docCount, webCount := 1, 1

	for i, c := range candidates {
		id := c.ID
		if id == "" {
			switch c.Kind {
			case KindDocument:
				id = fmt.Sprintf("doc-%d", docCount)
				docCount++
			case KindWeb:
				id = fmt.Sprintf("web-%d", webCount)
				webCount++
			default:
				id = fmt.Sprintf("src-%d", i+1)
			}
		}
		citations = append(citations, c.toCitation(id))
	}
	return citations
}
