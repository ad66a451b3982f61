package tool

import (
	"context"
	"fmt"
	"strings"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/pkg/agent"
	"kb-agent-lambda/pkg/bedrock"
	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/llm"
)

const (
	InternalGuidelinesLookupName = "InternalGuidelinesLookup"

	noGuidelineAnswer   = "No result from KB"
	guidelineErrorReply = "Error retrieving guideline from FAQ knowledge base."
	allStates           = "ALL"
)

// InternalGuidelinesLookup answers underwriting rule questions from the FAQ
// knowledge base, filtered on the state metadata field.
type InternalGuidelinesLookup struct {
	kb              Retriever
	extractor       *citation.Extractor
	numberOfResults int
	logger          logger.ILogger
}

// NewInternalGuidelinesLookup takes a nil kb when no FAQ knowledge base is
// configured; the tool then answers with the static deductible rule.
func NewInternalGuidelinesLookup(kb Retriever, snippetLength, numberOfResults int, log logger.ILogger) *InternalGuidelinesLookup {
	return &InternalGuidelinesLookup{
		kb:              kb,
		extractor:       citation.NewUnderwritingExtractor(snippetLength),
		numberOfResults: numberOfResults,
		logger:          log,
	}
}

func (t *InternalGuidelinesLookup) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name: InternalGuidelinesLookupName,
		Description: "Look up wind underwriting guidelines, underwriting restrictions, deductibles, premium considerations or risk " +
			"exclusions for the county and state where a property is located. Convert state abbreviations to full names and pass " +
			"state as a list of variants such as ['Florida', 'FLORIDA', 'florida']. Pass ['ALL'] when no state is known. " +
			"Include both county and state in the question when the county is known.",
		InputSchema: objectSchema([]string{"question"}, map[string]interface{}{
			"question": stringProperty("The underwriting question."),
			"county":   stringProperty("County of the property."),
			"state": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Case variants of the full state name.",
			},
		}),
	}
}

func (t *InternalGuidelinesLookup) Call(ctx context.Context, turn *agent.Turn, input map[string]interface{}) (string, error) {
	question := agent.StringInput(input, "question")
	county := agent.StringInput(input, "county")
	states, given := ParseStateInput(input["state"])
	filter := bedrock.EqualsAny("state", states)

	t.logger.Info(InternalGuidelinesLookupName, "Invoked", map[string]interface{}{
		"question": question,
		"county":   county,
		"state":    states,
		"filter":   bedrock.DescribeFilter(filter),
	})

	if t.kb == nil {
		return staticGuideline(question, county, states, given), nil
	}

	resp, err := t.kb.RetrieveAndGenerate(ctx, bedrock.Query{
		Text:            question,
		NumberOfResults: t.numberOfResults,
		Filter:          filter,
		MaxTokens:       8192,
		Temperature:     0,
		TopP:            0.54,
	})
	if err != nil {
		t.logger.Error(InternalGuidelinesLookupName, "FAQ KB error", map[string]interface{}{"error": err.Error()})
		return guidelineErrorReply, nil
	}

	candidates := t.extractor.Extract(resp)
	turn.Citations.Add(InternalGuidelinesLookupName, candidates)

	t.logger.Info(InternalGuidelinesLookupName, "Extracted citations", map[string]interface{}{
		"groups":         len(resp.Citations),
		"citations":      len(candidates),
		"first_citation": firstCitation(candidates),
	})

	return resp.AnswerText(noGuidelineAnswer), nil
}

func staticGuideline(question, county string, states []string, given bool) string {
	if county == "" {
		county = "ANY"
	}
	state := "ANY"
	if given {
		state = strings.Join(states, ", ")
	}
	return fmt.Sprintf("For %s in county=%s, state=%s: minimum deductible is 1%% of TIV.", question, county, state)
}
