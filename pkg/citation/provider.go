package citation

// Typed views of the provider responses the extractor consumes. Every field
// the provider may omit is a pointer or a nil-able collection; the accessor
// methods below hold the fallback defaults.

// KBResponse is a knowledge-base retrieve-and-generate response
type KBResponse struct {
	SessionID *string           `json:"sessionId,omitempty"`
	Output    *KBOutput         `json:"output,omitempty"`
	Citations []KBCitationGroup `json:"citations,omitempty"`
}

type KBOutput struct {
	Text *string `json:"text,omitempty"`
}

// KBCitationGroup is one generated answer part with the references backing it
type KBCitationGroup struct {
	GeneratedResponsePart *GeneratedResponsePart `json:"generatedResponsePart,omitempty"`
	RetrievedReferences   []RetrievedReference   `json:"retrievedReferences,omitempty"`
}

type GeneratedResponsePart struct {
	TextResponsePart *TextResponsePart `json:"textResponsePart,omitempty"`
}

type TextResponsePart struct {
	Text *string `json:"text,omitempty"`
	Span *KBSpan `json:"span,omitempty"`
}

type KBSpan struct {
	Start *int `json:"start,omitempty"`
	End   *int `json:"end,omitempty"`
}

type RetrievedReference struct {
	Content  *RetrievalContent      `json:"content,omitempty"`
	Location *RetrievalLocation     `json:"location,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type RetrievalContent struct {
	Text *string `json:"text,omitempty"`
}

type RetrievalLocation struct {
	Type                   string                  `json:"type,omitempty"`
	S3Location             *S3Location             `json:"s3Location,omitempty"`
	WebLocation            *WebLocation            `json:"webLocation,omitempty"`
	CustomDocumentLocation *CustomDocumentLocation `json:"customDocumentLocation,omitempty"`
}

type S3Location struct {
	URI *string `json:"uri,omitempty"`
}

type WebLocation struct {
	URL *string `json:"url,omitempty"`
}

type CustomDocumentLocation struct {
	ID *string `json:"id,omitempty"`
}

// AnswerText returns the generated answer or fallback when there is none
func (r *KBResponse) AnswerText(fallback string) string {
	if r == nil || r.Output == nil || r.Output.Text == nil {
		return fallback
	}
	return *r.Output.Text
}

// KBSessionID returns the provider session id, "" when absent
func (r *KBResponse) KBSessionID() string {
	if r == nil || r.SessionID == nil {
		return ""
	}
	return *r.SessionID
}

// Span returns the answer range of the group, nil when absent
func (g KBCitationGroup) Span() *Span {
	if g.GeneratedResponsePart == nil || g.GeneratedResponsePart.TextResponsePart == nil {
		return nil
	}
	s := g.GeneratedResponsePart.TextResponsePart.Span
	if s == nil {
		return nil
	}
	span := &Span{}
	if s.Start != nil {
		span.Start = *s.Start
	}
	if s.End != nil {
		span.End = *s.End
	}
	return span
}

// Text returns the reference content, "" when absent
func (r RetrievedReference) Text() string {
	if r.Content == nil || r.Content.Text == nil {
		return ""
	}
	return *r.Content.Text
}

// Located reports whether the provider sent a location at all
func (r RetrievedReference) Located() bool {
	return r.Location != nil
}

// SourceURI resolves the reference location: S3 uri first, then custom
// document id, then web url. fallback is returned when none is present.
func (r RetrievedReference) SourceURI(fallback string) string {
	loc := r.Location
	if loc == nil {
		return fallback
	}
	switch {
	case loc.S3Location != nil && loc.S3Location.URI != nil:
		return *loc.S3Location.URI
	case loc.CustomDocumentLocation != nil && loc.CustomDocumentLocation.ID != nil:
		return *loc.CustomDocumentLocation.ID
	case loc.WebLocation != nil && loc.WebLocation.URL != nil:
		return *loc.WebLocation.URL
	}
	return fallback
}

// ChunkID returns the knowledge-base chunk id from metadata, "" when absent
func (r RetrievedReference) ChunkID() string {
	if v, ok := r.Metadata[ChunkIDMetadataKey].(string); ok {
		return v
	}
	return ""
}

// WebSearchResponse is the body returned by the web-search function.
// Results is nil when the key was absent and empty when the provider sent [].
type WebSearchResponse struct {
	Answer  *string     `json:"answer,omitempty"`
	Results []WebResult `json:"results"`
}

type WebResult struct {
	Title   *string `json:"title,omitempty"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
}

// AnswerText returns the web answer or fallback when there is none
func (r *WebSearchResponse) AnswerText(fallback string) string {
	if r == nil || r.Answer == nil {
		return fallback
	}
	return *r.Answer
}
