package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kb-agent-lambda/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Tools    []ollamaTool    `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"`
}

type ollamaTool struct {
	Type     string             `json:"type"`
	Function ollamaToolFunction `json:"function"`
}

type ollamaToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type ollamaToolCall struct {
	Function ollamaToolCallFunction `json:"function"`
}

type ollamaToolCallFunction struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Chat(ctx context.Context, req llm.Request, opts ...llm.Option) (*llm.Response, error) {
	// 1. Process Options
	options := llm.ApplyOptions(llm.Options{Temperature: 0.7}, opts...)

	// 2. Map generic messages to Ollama messages
	ollamaMessages := toOllamaMessages(req)

	// 3. Prepare Payload
	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaChatRequest{
		Model:    model,
		Messages: ollamaMessages,
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}
	for _, t := range req.Tools {
		reqPayload.Tools = append(reqPayload.Tools, ollamaTool{
			Type: "function",
			Function: ollamaToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			},
		})
	}

	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	// 4. Send Request
	url := o.BaseURL + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// 5. Parse Response
	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return fromOllamaMessage(ollamaResp.Message, len(req.Messages)), nil
}

func toOllamaMessages(req llm.Request) []ollamaMessage {
	var out []ollamaMessage
	if req.System != "" {
		out = append(out, ollamaMessage{Role: "system", Content: req.System})
	}

	// Ollama has no tool call ids, results are matched by name
	names := map[string]string{}

	for _, msg := range req.Messages {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}

		current := ollamaMessage{Role: role}
		for _, b := range msg.Content {
			switch {
			case b.ToolUse != nil:
				names[b.ToolUse.ID] = b.ToolUse.Name
				current.ToolCalls = append(current.ToolCalls, ollamaToolCall{
					Function: ollamaToolCallFunction{Name: b.ToolUse.Name, Arguments: b.ToolUse.Input},
				})
			case b.ToolResult != nil:
				out = append(out, ollamaMessage{
					Role:     "tool",
					Content:  b.ToolResult.Content,
					ToolName: names[b.ToolResult.ToolUseID],
				})
			case b.Text != "":
				if current.Content != "" {
					current.Content += "\n"
				}
				current.Content += b.Text
			}
		}
		if current.Content != "" || len(current.ToolCalls) > 0 {
			out = append(out, current)
		}
	}
	return out
}

func fromOllamaMessage(m ollamaMessage, turn int) *llm.Response {
	msg := llm.Message{Role: llm.RoleAssistant}
	if m.Content != "" {
		msg.Content = append(msg.Content, llm.ContentBlock{Text: m.Content})
	}
	for i, call := range m.ToolCalls {
		args := call.Function.Arguments
		if args == nil {
			args = map[string]interface{}{}
		}
		msg.Content = append(msg.Content, llm.ContentBlock{ToolUse: &llm.ToolUse{
			ID:    fmt.Sprintf("ollama-%d-%d", turn, i),
			Name:  call.Function.Name,
			Input: args,
		}})
	}

	stop := llm.StopEndTurn
	if len(m.ToolCalls) > 0 {
		stop = llm.StopToolUse
	}
	return &llm.Response{Message: msg, StopReason: stop}
}
