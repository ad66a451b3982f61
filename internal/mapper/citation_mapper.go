package mapper

import (
	"kb-agent-lambda/internal/dto"
	"kb-agent-lambda/pkg/citation"
)

type CitationMapper struct{}

func NewCitationMapper() *CitationMapper {
	return &CitationMapper{}
}

func (m *CitationMapper) ToUnderwritingCitations(citations []citation.Citation) []dto.UnderwritingCitationDTO {
	out := make([]dto.UnderwritingCitationDTO, 0, len(citations))
	for _, c := range citations {
		out = append(out, dto.UnderwritingCitationDTO{
			ID:       c.ID,
			Name:     c.Name(),
			Type:     string(c.Kind),
			URL:      c.URL,
			Snippet:  c.Snippet,
			Metadata: metadataOrEmpty(c.Metadata),
		})
	}
	return out
}

func (m *CitationMapper) ToEncyclopediaCitations(citations []citation.Citation) []dto.EncyclopediaCitationDTO {
	out := make([]dto.EncyclopediaCitationDTO, 0, len(citations))
	for _, c := range citations {
		out = append(out, dto.EncyclopediaCitationDTO{
			ID:       c.ID,
			Source:   c.SourceURI,
			Content:  c.Snippet,
			Metadata: metadataOrEmpty(c.Metadata),
			Span:     c.Span,
		})
	}
	return out
}

func metadataOrEmpty(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
