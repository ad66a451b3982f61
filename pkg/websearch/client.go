package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"kb-agent-lambda/pkg/citation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

var ErrNotConfigured = errors.New("missing web search lambda")

// InvokeAPI is the slice of the Lambda client we use
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Client calls the web-search function synchronously
type Client struct {
	api          InvokeAPI
	functionName string
}

func NewClient(api InvokeAPI, functionName string) *Client {
	return &Client{api: api, functionName: functionName}
}

type searchRequest struct {
	Query string `json:"query"`
}

// envelope is the proxy-style reply of the search function. Body is either a
// JSON string or an inline object.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// Search sends query and decodes the search body
func (c *Client) Search(ctx context.Context, query string) (*citation.WebSearchResponse, error) {
	if c == nil || c.functionName == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	out, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(c.functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", c.functionName, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("web search lambda error: %s: %s", aws.ToString(out.FunctionError), string(out.Payload))
	}

	var env envelope
	if err := json.Unmarshal(out.Payload, &env); err != nil {
		return nil, fmt.Errorf("decode search envelope: %w", err)
	}
	if env.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search lambda error: status %d: %s", env.StatusCode, string(env.Body))
	}

	body, err := unwrapBody(env.Body)
	if err != nil {
		return nil, err
	}

	var resp citation.WebSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search body: %w", err)
	}
	return &resp, nil
}

func unwrapBody(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []byte("{}"), nil
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode search body string: %w", err)
	}
	if s == "" {
		return []byte("{}"), nil
	}
	return []byte(s), nil
}
