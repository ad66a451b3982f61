package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLambda struct {
	input *lambda.InvokeInput
	out   *lambda.InvokeOutput
	err   error
}

func (f *fakeLambda) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestSearchStringBody(t *testing.T) {
	fake := &fakeLambda{out: &lambda.InvokeOutput{
		Payload: []byte(`{"statusCode":200,"body":"{\"answer\":\"Storms hit.\",\"results\":[{\"title\":\"Storm\",\"url\":\"https://w.example\",\"snippet\":\"Hurricane\"}]}"}`),
	}}

	resp, err := NewClient(fake, "search-fn").Search(context.Background(), "florida hurricane")
	require.NoError(t, err)
	assert.Equal(t, "Storms hit.", resp.AnswerText(""))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://w.example", resp.Results[0].URL)

	assert.Equal(t, "search-fn", aws.ToString(fake.input.FunctionName))
	assert.Equal(t, types.InvocationTypeRequestResponse, fake.input.InvocationType)
	var sent map[string]string
	require.NoError(t, json.Unmarshal(fake.input.Payload, &sent))
	assert.Equal(t, "florida hurricane", sent["query"])
}

func TestSearchObjectBody(t *testing.T) {
	fake := &fakeLambda{out: &lambda.InvokeOutput{
		Payload: []byte(`{"statusCode":200,"body":{"answer":"only answer"}}`),
	}}

	resp, err := NewClient(fake, "fn").Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, resp.Results)
	assert.Equal(t, "only answer", resp.AnswerText(""))
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		fake *fakeLambda
	}{
		{"not configured", "", &fakeLambda{}},
		{"invoke failure", "fn", &fakeLambda{err: errors.New("boom")}},
		{"function error", "fn", &fakeLambda{out: &lambda.InvokeOutput{FunctionError: aws.String("Unhandled"), Payload: []byte(`{}`)}}},
		{"non-200", "fn", &fakeLambda{out: &lambda.InvokeOutput{Payload: []byte(`{"statusCode":500,"body":"bad"}`)}}},
		{"garbage", "fn", &fakeLambda{out: &lambda.InvokeOutput{Payload: []byte(`not json`)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.fake, tt.fn).Search(context.Background(), "q")
			assert.Error(t, err)
		})
	}

	_, err := NewClient(&fakeLambda{}, "").Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
