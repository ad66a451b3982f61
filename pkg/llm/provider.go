package llm

import (
	"context"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// ContentBlock is one piece of a message; exactly one field is set
type ContentBlock struct {
	Text       string      `json:"text,omitempty"`
	ToolUse    *ToolUse    `json:"tool_use,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolUse is a model request to run a tool
type ToolUse struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// ToolResult answers a ToolUse
type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string         `json:"role"` // "user", "assistant"
	Content []ContentBlock `json:"content"`
}

// TextMessage builds a single-block text message
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{{Text: text}}}
}

// Text joins the text blocks of the message
func (m Message) Text() string {
	var parts []string
	for _, b := range m.Content {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolUses lists the tool requests in the message
func (m Message) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, b := range m.Content {
		if b.ToolUse != nil {
			uses = append(uses, *b.ToolUse)
		}
	}
	return uses
}

// ToolSpec describes a tool to the model. InputSchema is a JSON schema object.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// Request is one model call
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
}

// Response is the model reply
type Response struct {
	Message    Message
	StopReason string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// ApplyOptions folds opts over defaults
func ApplyOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends the conversation and tool specs and returns the next reply
	Chat(ctx context.Context, req Request, options ...Option) (*Response, error)
}
