package bedrock

import (
	"context"
	"errors"
	"testing"

	"kb-agent-lambda/pkg/citation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	input *bedrockagentruntime.RetrieveAndGenerateInput
	out   *bedrockagentruntime.RetrieveAndGenerateOutput
	err   error
}

func (f *fakeRuntime) RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestModelARN(t *testing.T) {
	assert.Equal(t,
		"arn:aws:bedrock:us-west-2::foundation-model/anthropic.claude-3-sonnet-20240229-v1:0",
		ModelARN("us-west-2", "anthropic.claude-3-sonnet-20240229-v1:0"))
}

func TestRetrieveAndGenerateBuildsInput(t *testing.T) {
	fake := &fakeRuntime{out: &bedrockagentruntime.RetrieveAndGenerateOutput{}}
	kb := NewKnowledgeBase(fake, "KB123", "arn:model")
	assert.Equal(t, "KB123", kb.ID())

	filter := EqualsAny("state", []string{"Florida", "FLORIDA"})
	_, err := kb.RetrieveAndGenerate(context.Background(), Query{
		Text:            "what is covered?",
		NumberOfResults: 100,
		Filter:          filter,
		MaxTokens:       8192,
		TopP:            0.5,
		SessionID:       "kb-session",
	})
	require.NoError(t, err)

	in := fake.input
	require.NotNil(t, in)
	assert.Equal(t, "what is covered?", aws.ToString(in.Input.Text))
	assert.Equal(t, "kb-session", aws.ToString(in.SessionId))

	cfg := in.RetrieveAndGenerateConfiguration
	assert.Equal(t, types.RetrieveAndGenerateTypeKnowledgeBase, cfg.Type)
	assert.Equal(t, "KB123", aws.ToString(cfg.KnowledgeBaseConfiguration.KnowledgeBaseId))
	assert.Equal(t, "arn:model", aws.ToString(cfg.KnowledgeBaseConfiguration.ModelArn))

	vector := cfg.KnowledgeBaseConfiguration.RetrievalConfiguration.VectorSearchConfiguration
	assert.Equal(t, int32(100), aws.ToInt32(vector.NumberOfResults))
	assert.Equal(t, filter, vector.Filter)

	text := cfg.KnowledgeBaseConfiguration.GenerationConfiguration.InferenceConfig.TextInferenceConfig
	assert.Equal(t, int32(8192), aws.ToInt32(text.MaxTokens))
	assert.Equal(t, float32(0), aws.ToFloat32(text.Temperature))
	assert.Equal(t, float32(0.5), aws.ToFloat32(text.TopP))
}

func TestRetrieveAndGenerateWithoutSession(t *testing.T) {
	fake := &fakeRuntime{out: &bedrockagentruntime.RetrieveAndGenerateOutput{}}
	_, err := NewKnowledgeBase(fake, "KB", "arn").RetrieveAndGenerate(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.Nil(t, fake.input.SessionId)
	assert.Nil(t, fake.input.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration.RetrievalConfiguration.VectorSearchConfiguration.NumberOfResults)
}

func TestRetrieveAndGenerateError(t *testing.T) {
	fake := &fakeRuntime{err: errors.New("throttled")}
	_, err := NewKnowledgeBase(fake, "KB", "arn").RetrieveAndGenerate(context.Background(), Query{Text: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestFromOutput(t *testing.T) {
	out := &bedrockagentruntime.RetrieveAndGenerateOutput{
		SessionId: aws.String("kb-session"),
		Output:    &types.RetrieveAndGenerateOutput{Text: aws.String("Bees dance.")},
		Citations: []types.Citation{
			{
				GeneratedResponsePart: &types.GeneratedResponsePart{
					TextResponsePart: &types.TextResponsePart{
						Text: aws.String("Bees dance."),
						Span: &types.Span{Start: aws.Int32(0), End: aws.Int32(10)},
					},
				},
				RetrievedReferences: []types.RetrievedReference{
					{
						Content: &types.RetrievalResultContent{Text: aws.String("Honey bees communicate by dancing.")},
						Location: &types.RetrievalResultLocation{
							Type:       types.RetrievalResultLocationTypeS3,
							S3Location: &types.RetrievalResultS3Location{Uri: aws.String("s3://kb/bees.pdf")},
						},
						Metadata: map[string]document.Interface{
							citation.ChunkIDMetadataKey: document.NewLazyDocument("chunk-1"),
							"page":                      document.NewLazyDocument(4),
						},
					},
					{
						Content: &types.RetrievalResultContent{Text: aws.String("no location")},
					},
				},
			},
		},
	}

	resp := FromOutput(out)
	assert.Equal(t, "kb-session", resp.KBSessionID())
	assert.Equal(t, "Bees dance.", resp.AnswerText("fallback"))

	candidates := citation.NewEncyclopediaExtractor(citation.EncyclopediaSnippetLength).Extract(resp)
	require.Len(t, candidates, 2)
	assert.Equal(t, "s3://kb/bees.pdf", candidates[0].SourceURI)
	assert.Equal(t, "chunk-1", candidates[0].ChunkID)
	assert.Equal(t, float64(4), candidates[0].Metadata["page"])
	assert.Equal(t, &citation.Span{Start: 0, End: 10}, candidates[0].Span)
	assert.Equal(t, citation.UnknownSource, candidates[1].SourceURI)
}

func TestFromOutputEmpty(t *testing.T) {
	resp := FromOutput(&bedrockagentruntime.RetrieveAndGenerateOutput{})
	assert.Nil(t, resp.Citations)
	assert.Equal(t, "No relevant information found.", resp.AnswerText("No relevant information found."))
	assert.Equal(t, "", FromOutput(nil).KBSessionID())
}
