package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kb-agent-lambda/pkg/llm"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// ConverseAPI is the slice of the runtime client we use
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Guardrail applies content filtering to every model call
type Guardrail struct {
	ID      string
	Version string
}

// Provider talks to Bedrock through the Converse API
type Provider struct {
	api       ConverseAPI
	modelID   string
	guardrail *Guardrail
}

// Ensure Provider implements LLMProvider
var _ llm.LLMProvider = &Provider{}

// NewProvider builds a provider; guardrail may be nil
func NewProvider(api ConverseAPI, modelID string, guardrail *Guardrail) *Provider {
	if guardrail != nil && guardrail.ID == "" {
		guardrail = nil
	}
	return &Provider{api: api, modelID: modelID, guardrail: guardrail}
}

func (p *Provider) Chat(ctx context.Context, req llm.Request, opts ...llm.Option) (*llm.Response, error) {
	options := llm.ApplyOptions(llm.Options{MaxTokens: 4096}, opts...)

	input, err := p.buildInput(req, options)
	if err != nil {
		return nil, err
	}

	out, err := p.api.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, errors.New("bedrock converse: reply carries no message")
	}

	reply, err := fromMessage(msg.Value)
	if err != nil {
		return nil, err
	}
	return &llm.Response{Message: reply, StopReason: string(out.StopReason)}, nil
}

func (p *Provider) buildInput(req llm.Request, options llm.Options) (*bedrockruntime.ConverseInput, error) {
	model := p.modelID
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]types.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		converted, err := toMessage(m)
		if err != nil {
			return nil, err
		}
		messages = append(messages, converted)
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(model),
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(options.MaxTokens)),
			Temperature: aws.Float32(float32(options.Temperature)),
		},
	}

	if req.System != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: req.System},
		}
	}

	if len(req.Tools) > 0 {
		tools := make([]types.Tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, &types.ToolMemberToolSpec{Value: types.ToolSpecification{
				Name:        aws.String(t.Name),
				Description: aws.String(t.Description),
				InputSchema: &types.ToolInputSchemaMemberJson{Value: document.NewLazyDocument(t.InputSchema)},
			}})
		}
		input.ToolConfig = &types.ToolConfiguration{Tools: tools}
	}

	if p.guardrail != nil {
		version := p.guardrail.Version
		if version == "" {
			version = "DRAFT"
		}
		input.GuardrailConfig = &types.GuardrailConfiguration{
			GuardrailIdentifier: aws.String(p.guardrail.ID),
			GuardrailVersion:    aws.String(version),
			Trace:               types.GuardrailTraceEnabled,
		}
	}

	return input, nil
}

func toMessage(m llm.Message) (types.Message, error) {
	role := types.ConversationRoleUser
	switch m.Role {
	case llm.RoleUser:
	case llm.RoleAssistant, "model":
		role = types.ConversationRoleAssistant
	default:
		return types.Message{}, fmt.Errorf("bedrock converse: unsupported role %q", m.Role)
	}

	blocks := make([]types.ContentBlock, 0, len(m.Content))
	for _, b := range m.Content {
		switch {
		case b.ToolUse != nil:
			input := b.ToolUse.Input
			if input == nil {
				input = map[string]interface{}{}
			}
			blocks = append(blocks, &types.ContentBlockMemberToolUse{Value: types.ToolUseBlock{
				ToolUseId: aws.String(b.ToolUse.ID),
				Name:      aws.String(b.ToolUse.Name),
				Input:     document.NewLazyDocument(input),
			}})
		case b.ToolResult != nil:
			status := types.ToolResultStatusSuccess
			if b.ToolResult.IsError {
				status = types.ToolResultStatusError
			}
			blocks = append(blocks, &types.ContentBlockMemberToolResult{Value: types.ToolResultBlock{
				ToolUseId: aws.String(b.ToolResult.ToolUseID),
				Content: []types.ToolResultContentBlock{
					&types.ToolResultContentBlockMemberText{Value: b.ToolResult.Content},
				},
				Status: status,
			}})
		case b.Text != "":
			blocks = append(blocks, &types.ContentBlockMemberText{Value: b.Text})
		}
	}
	return types.Message{Role: role, Content: blocks}, nil
}

func fromMessage(m types.Message) (llm.Message, error) {
	out := llm.Message{Role: llm.RoleAssistant}
	if m.Role == types.ConversationRoleUser {
		out.Role = llm.RoleUser
	}

	for _, block := range m.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			out.Content = append(out.Content, llm.ContentBlock{Text: b.Value})
		case *types.ContentBlockMemberToolUse:
			input, err := decodeInput(b.Value.Input)
			if err != nil {
				return llm.Message{}, fmt.Errorf("decode tool input for %s: %w", aws.ToString(b.Value.Name), err)
			}
			out.Content = append(out.Content, llm.ContentBlock{ToolUse: &llm.ToolUse{
				ID:    aws.ToString(b.Value.ToolUseId),
				Name:  aws.ToString(b.Value.Name),
				Input: input,
			}})
		}
	}
	return out, nil
}

// decodeInput goes through JSON so numbers come back as float64
func decodeInput(d document.Interface) (map[string]interface{}, error) {
	input := map[string]interface{}{}
	if d == nil {
		return input, nil
	}
	raw, err := d.MarshalSmithyDocument()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, err
	}
	if input == nil {
		input = map[string]interface{}{}
	}
	return input, nil
}
