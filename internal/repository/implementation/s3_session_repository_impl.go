package implementation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/internal/repository/contract"
	"kb-agent-lambda/pkg/llm"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the session store uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3SessionRepositoryImpl struct {
	client S3API
	bucket string
	prefix string
	logger logger.ILogger
}

func NewS3SessionRepository(client S3API, bucket, prefix string, log logger.ILogger) contract.SessionRepository {
	return &S3SessionRepositoryImpl{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: log,
	}
}

// SessionKey derives the object key for a session
func SessionKey(prefix, sessionID string) string {
	return prefix + sessionID + ".json"
}

func (r *S3SessionRepositoryImpl) Save(ctx context.Context, sessionID string, messages []llm.Message, systemPrompt string) error {
	body, err := encodeState(messages, systemPrompt)
	if err != nil {
		return err
	}

	key := SessionKey(r.prefix, sessionID)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put session %s: %w", key, err)
	}
	return nil
}

func (r *S3SessionRepositoryImpl) Restore(ctx context.Context, sessionID string) (*contract.SessionState, bool) {
	key := SessionKey(r.prefix, sessionID)
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		r.logger.Debug("SessionStore", "No stored session", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		r.logger.Warn("SessionStore", "Failed to read session", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}

	state, err := decodeState(sessionID, body)
	if err != nil {
		r.logger.Warn("SessionStore", "Malformed session", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}
	return state, true
}

func encodeState(messages []llm.Message, systemPrompt string) ([]byte, error) {
	if messages == nil {
		messages = []llm.Message{}
	}
	body, err := json.Marshal(contract.SessionState{Messages: messages, SystemPrompt: systemPrompt})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return body, nil
}

// decodeState requires both fields to be present
func decodeState(sessionID string, body []byte) (*contract.SessionState, error) {
	var raw struct {
		Messages     *[]llm.Message `json:"messages"`
		SystemPrompt *string        `json:"system_prompt"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw.Messages == nil || raw.SystemPrompt == nil {
		return nil, fmt.Errorf("session object is missing messages or system_prompt")
	}
	return &contract.SessionState{
		SessionID:    sessionID,
		Messages:     *raw.Messages,
		SystemPrompt: *raw.SystemPrompt,
	}, nil
}
