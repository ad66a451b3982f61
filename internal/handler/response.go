package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"kb-agent-lambda/internal/dto"
	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/internal/service"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

func jsonResponse(status int, body interface{}) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"failed to encode response"}`)
	}

	headers := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(payload),
	}
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	return jsonResponse(status, dto.ErrorResponse{Error: message})
}

// serviceError maps service errors onto status codes
func serviceError(err error) events.APIGatewayProxyResponse {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return errorResponse(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingKnowledgeBase):
		return errorResponse(http.StatusInternalServerError, "Knowledge base ID not configured")
	default:
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
}

// requestPayload finds the request object in a Lambda event. API Gateway
// sends it as a JSON string under "body"; direct invocations send either an
// object under "body" or the request itself.
func requestPayload(event json.RawMessage) ([]byte, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(event, &envelope); err != nil {
		return nil, fmt.Errorf("event is not a JSON object: %w", err)
	}

	body, ok := envelope["body"]
	if !ok {
		return event, nil
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return event, nil
	}

	if body[0] != '"' {
		return body, nil
	}
	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	if s == "" {
		return event, nil
	}
	return []byte(s), nil
}

// newValidator reports fields by their json names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validationMessage names the first failed field. A missing required field
// is "Missing <field> parameter".
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	if fe.Tag() == "required" {
		return fmt.Sprintf("Missing %s parameter", fe.Field())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("Invalid %s parameter: failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("Invalid %s parameter: failed %s", fe.Field(), fe.Tag())
}

// recoverTurn turns a panic during a turn into a 500 carrying the panic text
func recoverTurn(log logger.ILogger, resp *events.APIGatewayProxyResponse) {
	if r := recover(); r != nil {
		log.Error("Lambda", "Panic during turn", map[string]interface{}{"panic": fmt.Sprint(r)})
		*resp = errorResponse(http.StatusInternalServerError, fmt.Sprint(r))
	}
}
