package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/internal/repository/contract"
	"kb-agent-lambda/pkg/agent"
	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/events"
	"kb-agent-lambda/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrMissingKnowledgeBase = errors.New("knowledge base ID not configured")
)

// Runner is the agent loop a profile drives
type Runner interface {
	Run(ctx context.Context, turn *agent.Turn, history []llm.Message, question string) (string, []llm.Message, error)
	SystemPrompt() string
	ToolNames() []string
}

type TurnRequest struct {
	Question  string
	SessionID string
}

type TurnResult struct {
	SessionID string
	Question  string
	Answer    string
	Citations []citation.Citation
}

// IAgentService answers one question per call
type IAgentService interface {
	Ask(ctx context.Context, request TurnRequest) (*TurnResult, error)
}

// Profile configures one deployed assistant
type Profile struct {
	Name     string
	Runner   Runner
	Pipeline *citation.Pipeline

	// KnowledgeBaseID must be set when RequireKnowledgeBase is true
	KnowledgeBaseID      string
	RequireKnowledgeBase bool
}

type agentService struct {
	profile   Profile
	sessions  contract.SessionRepository
	publisher events.Publisher
	logger    logger.ILogger
	now       func() time.Time
}

// NewAgentService builds the service. sessions is nil when session
// management is disabled; publisher is nil when no bus is configured.
func NewAgentService(
	profile Profile,
	sessions contract.SessionRepository,
	publisher events.Publisher,
	log logger.ILogger,
) IAgentService {
	if profile.Pipeline == nil {
		profile.Pipeline = citation.NewPipeline(nil)
	}
	return &agentService{
		profile:   profile,
		sessions:  sessions,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (s *agentService) Ask(ctx context.Context, request TurnRequest) (*TurnResult, error) {
	question := strings.TrimSpace(request.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: missing question", ErrInvalidRequest)
	}
	if s.profile.RequireKnowledgeBase && s.profile.KnowledgeBaseID == "" {
		return nil, ErrMissingKnowledgeBase
	}

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	ctx, span := otel.Tracer("service").Start(ctx, "agent.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("profile", s.profile.Name),
		attribute.String("session_id", sessionID),
	)

	s.logger.Info("Lambda", "Received question", map[string]interface{}{
		"profile":    s.profile.Name,
		"question":   question,
		"session_id": sessionID,
	})

	turn := agent.NewTurn(sessionID)
	history := s.restore(ctx, turn)

	answer, messages, err := s.profile.Runner.Run(ctx, turn, history, question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("agent turn: %w", err)
	}

	citations := s.finalize(turn)
	span.SetAttributes(
		attribute.Int("citations", len(citations)),
		attribute.Int("tool_calls", turn.ToolCalls()),
	)

	s.save(ctx, turn, messages)
	s.publish(ctx, turn, len(citations))

	return &TurnResult{
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
		Citations: citations,
	}, nil
}

func (s *agentService) restore(ctx context.Context, turn *agent.Turn) []llm.Message {
	if s.sessions == nil {
		return nil
	}
	state, ok := s.sessions.Restore(ctx, turn.SessionID)
	if !ok {
		s.logger.Info("SessionStore", "Starting new session", map[string]interface{}{"session_id": turn.SessionID})
		return nil
	}
	turn.SystemPrompt = state.SystemPrompt
	s.logger.Info("SessionStore", "Restored session", map[string]interface{}{
		"session_id": turn.SessionID,
		"messages":   len(state.Messages),
	})
	return state.Messages
}

func (s *agentService) finalize(turn *agent.Turn) []citation.Citation {
	for _, name := range s.profile.Runner.ToolNames() {
		if n := turn.Citations.CountFrom(name); n > 0 {
			s.logger.Info("Lambda", "Collected citations", map[string]interface{}{"tool": name, "count": n})
		}
	}

	candidates := turn.Citations.Candidates()
	citations := s.profile.Pipeline.Finalize(candidates)

	s.logger.Info("Lambda", "Finalized citations", map[string]interface{}{
		"strategy": s.profile.Pipeline.Strategy(),
		"from":     len(candidates),
		"to":       len(citations),
	})
	return citations
}

func (s *agentService) save(ctx context.Context, turn *agent.Turn, messages []llm.Message) {
	if s.sessions == nil {
		return
	}
	prompt := turn.SystemPrompt
	if prompt == "" {
		prompt = s.profile.Runner.SystemPrompt()
	}
	if err := s.sessions.Save(ctx, turn.SessionID, messages, prompt); err != nil {
		s.logger.Error("SessionStore", "Failed to save session", map[string]interface{}{
			"session_id": turn.SessionID,
			"error":      err.Error(),
		})
	}
}

func (s *agentService) publish(ctx context.Context, turn *agent.Turn, citationCount int) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.TurnCompleted{
		SessionID:     turn.SessionID,
		Profile:       s.profile.Name,
		CitationCount: citationCount,
		ToolCalls:     turn.ToolCalls(),
		OccurredAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn("Events", "Failed to publish turn event", map[string]interface{}{"error": err.Error()})
	}
}
