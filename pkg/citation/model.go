package citation

// Kind tells documents and web results apart for id assignment
type Kind string

const (
	KindDocument Kind = "document"
	KindWeb      Kind = "web"
)

// Bedrock knowledge bases tag every retrieved chunk with this metadata key
const ChunkIDMetadataKey = "x-amz-bedrock-kb-chunk-id"

// Span is a character range of the generated answer a citation supports
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Candidate is a citation as extracted from one provider response, before
// deduplication and id assignment.
type Candidate struct {
	GroupIndex int
	ChunkID    string
	SourceURI  string
	Title      string
	URL        string
	Snippet    string
	Span       *Span
	Metadata   map[string]interface{}
	Kind       Kind

	// Preassigned id, kept by AssignIDs when non-empty
	ID string
}

// Name is the display name of the source: the title when the provider gave
// one, the source URI otherwise.
func (c Candidate) Name() string {
	if c.Title != "" {
		return c.Title
	}
	return c.SourceURI
}

// Citation is a deduplicated candidate with its final id
type Citation struct {
	ID        string                 `json:"id"`
	ChunkID   string                 `json:"chunk_id,omitempty"`
	SourceURI string                 `json:"source_uri"`
	Title     string                 `json:"title,omitempty"`
	URL       string                 `json:"url,omitempty"`
	Snippet   string                 `json:"snippet"`
	Span      *Span                  `json:"span,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
	Kind      Kind                   `json:"kind"`
}

// Name mirrors Candidate.Name
func (c Citation) Name() string {
	if c.Title != "" {
		return c.Title
	}
	return c.SourceURI
}

func (c Candidate) toCitation(id string) Citation {
	return Citation{
		ID:        id,
		ChunkID:   c.ChunkID,
		SourceURI: c.SourceURI,
		Title:     c.Title,
		URL:       c.URL,
		Snippet:   c.Snippet,
		Span:      c.Span,
		Metadata:  c.Metadata,
		Kind:      c.Kind,
	}
}
