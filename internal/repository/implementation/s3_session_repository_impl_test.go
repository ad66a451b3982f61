package implementation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/pkg/llm"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
	getErr       error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.objects[key] = body
	f.contentTypes[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestS3SessionRoundTrip(t *testing.T) {
	api := newFakeS3()
	repo := NewS3SessionRepository(api, "bucket", "sessions/", logger.NewNopLogger())
	ctx := context.Background()

	messages := []llm.Message{
		llm.TextMessage(llm.RoleUser, "What is the wind deductible?"),
		{Role: llm.RoleAssistant, Content: []llm.ContentBlock{
			{ToolUse: &llm.ToolUse{ID: "t1", Name: "InternalGuidelinesLookup", Input: map[string]interface{}{"question": "wind"}}},
		}},
	}
	require.NoError(t, repo.Save(ctx, "abc", messages, "be helpful"))

	raw, ok := api.objects["bucket/sessions/abc.json"]
	require.True(t, ok)
	assert.Equal(t, "application/json", api.contentTypes["bucket/sessions/abc.json"])
	assert.JSONEq(t, `{"messages":[{"role":"user","content":[{"text":"What is the wind deductible?"}]},{"role":"assistant","content":[{"tool_use":{"id":"t1","name":"InternalGuidelinesLookup","input":{"question":"wind"}}}]}],"system_prompt":"be helpful"}`, string(raw))

	state, ok := repo.Restore(ctx, "abc")
	require.True(t, ok)
	assert.Equal(t, messages, state.Messages)
	assert.Equal(t, "be helpful", state.SystemPrompt)

	// whole object overwrite
	require.NoError(t, repo.Save(ctx, "abc", nil, "other"))
	state, ok = repo.Restore(ctx, "abc")
	require.True(t, ok)
	assert.Empty(t, state.Messages)
	assert.Equal(t, "other", state.SystemPrompt)
}

func TestS3SessionRestoreAbsent(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		getErr error
	}{
		{name: "missing key"},
		{name: "malformed json", body: "{not json"},
		{name: "missing system prompt", body: `{"messages":[]}`},
		{name: "transport error", body: `{"messages":[],"system_prompt":"x"}`, getErr: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeS3()
			api.getErr = tt.getErr
			if tt.body != "" {
				api.objects["b/p/s.json"] = []byte(tt.body)
			}
			repo := NewS3SessionRepository(api, "b", "p/", logger.NewNopLogger())

			state, ok := repo.Restore(context.Background(), "s")
			assert.False(t, ok)
			assert.Nil(t, state)
		})
	}
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "sessions/42.json", SessionKey("sessions/", "42"))
	assert.Equal(t, "42.json", SessionKey("", "42"))
}
