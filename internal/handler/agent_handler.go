package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"kb-agent-lambda/internal/dto"
	"kb-agent-lambda/internal/mapper"
	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/internal/service"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
)

type UnderwritingHandler struct {
	service  service.IAgentService
	mapper   *mapper.CitationMapper
	validate *validator.Validate
	logger   logger.ILogger
}

func NewUnderwritingHandler(svc service.IAgentService, log logger.ILogger) *UnderwritingHandler {
	return &UnderwritingHandler{
		service:  svc,
		mapper:   mapper.NewCitationMapper(),
		validate: newValidator(),
		logger:   log,
	}
}

func (h *UnderwritingHandler) Handle(ctx context.Context, event json.RawMessage) (resp events.APIGatewayProxyResponse, err error) {
	defer recoverTurn(h.logger, &resp)

	var request dto.UnderwritingRequest
	if err := decode(event, &request); err != nil {
		h.logger.Warn("Lambda", "Bad request", map[string]interface{}{"error": err.Error()})
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Error parsing request: %v", err)), nil
	}
	if err := h.validate.Struct(request); err != nil {
		return errorResponse(http.StatusBadRequest, validationMessage(err)), nil
	}

	result, err := h.service.Ask(ctx, service.TurnRequest{
		Question:  request.Question,
		SessionID: request.SessionID,
	})
	if err != nil {
		h.logger.Error("Lambda", "Turn failed", map[string]interface{}{"error": err.Error()})
		return serviceError(err), nil
	}

	return jsonResponse(http.StatusOK, dto.UnderwritingResponse{
		SessionID: result.SessionID,
		Question:  result.Question,
		Answer:    result.Answer,
		Citations: h.mapper.ToUnderwritingCitations(result.Citations),
	}), nil
}

type EncyclopediaHandler struct {
	service  service.IAgentService
	mapper   *mapper.CitationMapper
	validate *validator.Validate
	logger   logger.ILogger
}

func NewEncyclopediaHandler(svc service.IAgentService, log logger.ILogger) *EncyclopediaHandler {
	return &EncyclopediaHandler{
		service:  svc,
		mapper:   mapper.NewCitationMapper(),
		validate: newValidator(),
		logger:   log,
	}
}

func (h *EncyclopediaHandler) Handle(ctx context.Context, event json.RawMessage) (resp events.APIGatewayProxyResponse, err error) {
	defer recoverTurn(h.logger, &resp)

	var request dto.EncyclopediaRequest
	if err := decode(event, &request); err != nil {
		h.logger.Warn("Lambda", "Bad request", map[string]interface{}{"error": err.Error()})
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Error parsing request: %v", err)), nil
	}
	if err := h.validate.Struct(request); err != nil {
		return errorResponse(http.StatusBadRequest, validationMessage(err)), nil
	}

	result, err := h.service.Ask(ctx, service.TurnRequest{
		Question:  request.Prompt,
		SessionID: request.SessionID,
	})
	if err != nil {
		h.logger.Error("Lambda", "Turn failed", map[string]interface{}{"error": err.Error()})
		return serviceError(err), nil
	}

	h.logger.Info("Lambda", "Encyclopedia agent response", map[string]interface{}{
		"session_id": result.SessionID,
		"citations":  len(result.Citations),
	})

	return jsonResponse(http.StatusOK, dto.EncyclopediaResponse{
		Response:  result.Answer,
		Citations: h.mapper.ToEncyclopediaCitations(result.Citations),
		SessionID: result.SessionID,
	}), nil
}

func decode(event json.RawMessage, out interface{}) error {
	payload, err := requestPayload(event)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}
