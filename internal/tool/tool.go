package tool

import (
	"context"

	"kb-agent-lambda/pkg/bedrock"
	"kb-agent-lambda/pkg/citation"
)

// Retriever runs a retrieve-and-generate query against one knowledge base
type Retriever interface {
	RetrieveAndGenerate(ctx context.Context, q bedrock.Query) (*citation.KBResponse, error)
}

// Searcher runs a web search
type Searcher interface {
	Search(ctx context.Context, query string) (*citation.WebSearchResponse, error)
}

func objectSchema(required []string, properties map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func firstCitation(candidates []citation.Candidate) interface{} {
	if len(candidates) == 0 {
		return nil
	}
	c := candidates[0]
	return map[string]interface{}{"name": c.Name(), "kind": c.Kind, "chunk_id": c.ChunkID}
}
