package tool

import (
	"context"
	"fmt"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/pkg/agent"
	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/llm"
)

const (
	WebSearchName = "web_search"

	noWebAnswer = "No web search results found."
)

type WebSearch struct {
	searcher      Searcher
	snippetLength int
	logger        logger.ILogger
}

func NewWebSearch(searcher Searcher, snippetLength int, log logger.ILogger) *WebSearch {
	return &WebSearch{
		searcher:      searcher,
		snippetLength: snippetLength,
		logger:        log,
	}
}

func (t *WebSearch) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        WebSearchName,
		Description: "Search the web if there are questions that other tools don't answer.",
		InputSchema: objectSchema([]string{"query"}, map[string]interface{}{
			"query": stringProperty("The search query."),
		}),
	}
}

func (t *WebSearch) Call(ctx context.Context, turn *agent.Turn, input map[string]interface{}) (string, error) {
	query := agent.StringInput(input, "query")
	t.logger.Info(WebSearchName, "Invoked", map[string]interface{}{"query": query})

	resp, err := t.searcher.Search(ctx, query)
	if err != nil {
		t.logger.Error(WebSearchName, "Search failed", map[string]interface{}{"error": err.Error()})
		return fmt.Sprintf("Error during web search: %v", err), nil
	}

	candidates := citation.ExtractWeb(resp, t.snippetLength)
	turn.Citations.Add(WebSearchName, candidates)

	t.logger.Info(WebSearchName, "Extracted citations", map[string]interface{}{
		"results":        len(resp.Results),
		"citations":      len(candidates),
		"first_citation": firstCitation(candidates),
	})

	return resp.AnswerText(noWebAnswer), nil
}
