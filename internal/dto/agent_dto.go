package dto

import "kb-agent-lambda/pkg/citation"

// Underwriting assistant

type UnderwritingRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

type UnderwritingCitationDTO struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Type     string                 `json:"type"`
	URL      string                 `json:"url,omitempty"`
	Snippet  string                 `json:"snippet"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UnderwritingResponse struct {
	SessionID string                    `json:"session_id"`
	Question  string                    `json:"question"`
	Answer    string                    `json:"answer"`
	Citations []UnderwritingCitationDTO `json:"citations"`
}

// Encyclopedia assistant

type EncyclopediaRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	SessionID string `json:"sessionId,omitempty" validate:"omitempty,max=128"`
}

type EncyclopediaCitationDTO struct {
	ID       string                 `json:"id"`
	Source   string                 `json:"source"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
	Span     *citation.Span         `json:"span,omitempty"`
}

type EncyclopediaResponse struct {
	Response  string                    `json:"response"`
	Citations []EncyclopediaCitationDTO `json:"citations"`
	SessionID string                    `json:"sessionId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
