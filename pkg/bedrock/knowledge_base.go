package bedrock

import (
	"context"
	"fmt"

	"kb-agent-lambda/pkg/citation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// RetrieveAndGenerateAPI is the slice of the agent runtime client we use
type RetrieveAndGenerateAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// Query is one retrieve-and-generate call
type Query struct {
	Text            string
	NumberOfResults int
	Filter          types.RetrievalFilter
	MaxTokens       int
	Temperature     float32
	TopP            float32
	SessionID       string
}

// KnowledgeBase queries a single knowledge base with a fixed generation model
type KnowledgeBase struct {
	api      RetrieveAndGenerateAPI
	id       string
	modelARN string
}

func NewKnowledgeBase(api RetrieveAndGenerateAPI, knowledgeBaseID, modelARN string) *KnowledgeBase {
	return &KnowledgeBase{
		api:      api,
		id:       knowledgeBaseID,
		modelARN: modelARN,
	}
}

// ID returns the knowledge base id
func (k *KnowledgeBase) ID() string {
	return k.id
}

// ModelARN builds the foundation-model ARN used for generation
func ModelARN(region, modelID string) string {
	return fmt.Sprintf("arn:aws:bedrock:%s::foundation-model/%s", region, modelID)
}

// RetrieveAndGenerate runs the query and returns the typed response
func (k *KnowledgeBase) RetrieveAndGenerate(ctx context.Context, q Query) (*citation.KBResponse, error) {
	out, err := k.api.RetrieveAndGenerate(ctx, k.buildInput(q))
	if err != nil {
		return nil, fmt.Errorf("retrieve and generate on %s: %w", k.id, err)
	}
	return FromOutput(out), nil
}

func (k *KnowledgeBase) buildInput(q Query) *bedrockagentruntime.RetrieveAndGenerateInput {
	vector := &types.KnowledgeBaseVectorSearchConfiguration{
		Filter: q.Filter,
	}
	if q.NumberOfResults > 0 {
		vector.NumberOfResults = aws.Int32(int32(q.NumberOfResults))
	}

	input := &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{
			Text: aws.String(q.Text),
		},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(k.id),
				ModelArn:        aws.String(k.modelARN),
				RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
					VectorSearchConfiguration: vector,
				},
				GenerationConfiguration: &types.GenerationConfiguration{
					InferenceConfig: &types.InferenceConfig{
						TextInferenceConfig: &types.TextInferenceConfig{
							MaxTokens:   aws.Int32(int32(q.MaxTokens)),
							Temperature: aws.Float32(q.Temperature),
							TopP:        aws.Float32(q.TopP),
						},
					},
				},
			},
		},
	}
	if q.SessionID != "" {
		input.SessionId = aws.String(q.SessionID)
	}
	return input
}
