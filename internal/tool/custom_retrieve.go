package tool

import (
	"context"
	"fmt"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/pkg/agent"
	"kb-agent-lambda/pkg/bedrock"
	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/llm"
)

const (
	CustomRetrieveName = "custom_retrieve"

	noRetrieveAnswer = "No relevant information found."
)

// CustomRetrieve answers from the encyclopedia knowledge base and returns the
// answer with its citation block inline. The knowledge-base session opened by
// the first call of a turn is reused by the following ones.
type CustomRetrieve struct {
	kb                     Retriever
	extractor              *citation.Extractor
	dedup                  citation.Deduplicator
	defaultNumberOfResults int
	logger                 logger.ILogger
}

func NewCustomRetrieve(kb Retriever, snippetLength, numberOfResults int, log logger.ILogger) *CustomRetrieve {
	return &CustomRetrieve{
		kb:                     kb,
		extractor:              citation.NewEncyclopediaExtractor(snippetLength),
		dedup:                  citation.SpanAware{},
		defaultNumberOfResults: numberOfResults,
		logger:                 log,
	}
}

func (t *CustomRetrieve) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        CustomRetrieveName,
		Description: "Retrieve relevant knowledge from the knowledge base and answer with citations.",
		InputSchema: objectSchema([]string{"text"}, map[string]interface{}{
			"text": stringProperty("The query to retrieve relevant knowledge."),
			"numberOfResults": map[string]interface{}{
				"type":        "integer",
				"description": fmt.Sprintf("The maximum number of results to return. Default is %d.", t.defaultNumberOfResults),
			},
		}),
	}
}

func (t *CustomRetrieve) Call(ctx context.Context, turn *agent.Turn, input map[string]interface{}) (string, error) {
	text := agent.StringInput(input, "text")
	numberOfResults := t.defaultNumberOfResults
	if n, ok := input["numberOfResults"].(float64); ok && n > 0 {
		numberOfResults = int(n)
	}

	t.logger.Info(CustomRetrieveName, "Invoked", map[string]interface{}{
		"text":              text,
		"number_of_results": numberOfResults,
		"kb_session_id":     turn.KBSessionID(),
	})

	resp, err := t.kb.RetrieveAndGenerate(ctx, bedrock.Query{
		Text:            text,
		NumberOfResults: numberOfResults,
		MaxTokens:       4096,
		Temperature:     0,
		TopP:            0.5,
		SessionID:       turn.KBSessionID(),
	})
	if err != nil {
		t.logger.Error(CustomRetrieveName, "Retrieval failed", map[string]interface{}{"error": err.Error()})
		return fmt.Sprintf("Error during retrieval: %v", err), nil
	}
	turn.SetKBSessionID(resp.KBSessionID())

	candidates := t.extractor.Extract(resp)
	deduped := t.dedup.Deduplicate(candidates)
	turn.Citations.Add(CustomRetrieveName, deduped)

	t.logger.Info(CustomRetrieveName, "Deduplicated citations", map[string]interface{}{
		"groups": len(resp.Citations),
		"from":   len(candidates),
		"to":     len(deduped),
	})

	return citation.FormatAnswer(resp.AnswerText(noRetrieveAnswer), citation.AssignIDs(deduped)), nil
}
