package tool

import (
	"context"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/pkg/agent"
	"kb-agent-lambda/pkg/bedrock"
	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/llm"
)

const (
	UnderwritingDocsSearchName = "UnderwritingDocsSearch"

	UnderwritingQuery        = "Extract submission details relevant to underwriting."
	noSubmissionDocsAnswer   = "No relevant submission documents found."
	submissionDocsErrorReply = "Error retrieving document information from underwriting package."
)

// UnderwritingDocsSearch queries the submission-package knowledge base
// filtered by whichever policy fields the model supplied.
type UnderwritingDocsSearch struct {
	kb              Retriever
	extractor       *citation.Extractor
	numberOfResults int
	logger          logger.ILogger
}

func NewUnderwritingDocsSearch(kb Retriever, snippetLength, numberOfResults int, log logger.ILogger) *UnderwritingDocsSearch {
	return &UnderwritingDocsSearch{
		kb:              kb,
		extractor:       citation.NewUnderwritingExtractor(snippetLength),
		numberOfResults: numberOfResults,
		logger:          log,
	}
}

func (t *UnderwritingDocsSearch) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name: UnderwritingDocsSearchName,
		Description: "Extract information from underwriting documents such as ACORD forms, loss runs, submission emails and attachments " +
			"submitted with a policy's submission package. Use it for details of a specific insured business or person, coverage " +
			"requests, business type, risk location, producer, prior carrier, claims history, open claims, loss runs, submitted or " +
			"missing documents, inspection reports, roof condition and valuations. Provide any combination of the inputs.",
		InputSchema: objectSchema(nil, map[string]interface{}{
			"policy_number": stringProperty("Unique identifier of the insurance policy. Keep its formatting unchanged."),
			"policy_type":   stringProperty("Type of policy such as Commercial or Personal."),
			"insured_name":  stringProperty("Name of the insured business or individual."),
			"agency_number": stringProperty("Unique id of the agency or producer."),
		}),
	}
}

func (t *UnderwritingDocsSearch) Call(ctx context.Context, turn *agent.Turn, input map[string]interface{}) (string, error) {
	fields := []bedrock.FilterField{
		{Key: "policy_number", Value: agent.StringInput(input, "policy_number")},
		{Key: "policy_type", Value: agent.StringInput(input, "policy_type")},
		{Key: "insured_name", Value: agent.StringInput(input, "insured_name")},
		{Key: "agency_number", Value: agent.StringInput(input, "agency_number")},
	}
	filter := bedrock.StringContainsAny(fields)

	t.logger.Info(UnderwritingDocsSearchName, "Invoked", map[string]interface{}{
		"input":  input,
		"filter": bedrock.DescribeFilter(filter),
	})

	if t.kb == nil {
		t.logger.Error(UnderwritingDocsSearchName, "No underwriting knowledge base configured", nil)
		return submissionDocsErrorReply, nil
	}

	resp, err := t.kb.RetrieveAndGenerate(ctx, bedrock.Query{
		Text:            UnderwritingQuery,
		NumberOfResults: t.numberOfResults,
		Filter:          filter,
		MaxTokens:       8192,
		Temperature:     0,
		TopP:            0.5,
	})
	if err != nil {
		t.logger.Error(UnderwritingDocsSearchName, "Error querying knowledge base", map[string]interface{}{"error": err.Error()})
		return submissionDocsErrorReply, nil
	}

	candidates := t.extractor.Extract(resp)
	turn.Citations.Add(UnderwritingDocsSearchName, candidates)

	t.logger.Info(UnderwritingDocsSearchName, "Extracted citations", map[string]interface{}{
		"groups":         len(resp.Citations),
		"citations":      len(candidates),
		"kb_session_id":  resp.KBSessionID(),
		"first_citation": firstCitation(candidates),
	})

	return resp.AnswerText(noSubmissionDocsAnswer), nil
}
