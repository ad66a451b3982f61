package bedrock

import (
	"encoding/json"

	"kb-agent-lambda/pkg/citation"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// FromOutput maps the SDK output onto the typed response the citation
// extractor reads. Absent SDK fields stay absent.
func FromOutput(out *bedrockagentruntime.RetrieveAndGenerateOutput) *citation.KBResponse {
	resp := &citation.KBResponse{}
	if out == nil {
		return resp
	}

	resp.SessionID = out.SessionId
	if out.Output != nil {
		resp.Output = &citation.KBOutput{Text: out.Output.Text}
	}

	if out.Citations != nil {
		resp.Citations = make([]citation.KBCitationGroup, 0, len(out.Citations))
	}
	for _, c := range out.Citations {
		resp.Citations = append(resp.Citations, convertGroup(c))
	}
	return resp
}

func convertGroup(c types.Citation) citation.KBCitationGroup {
	group := citation.KBCitationGroup{}

	if part := c.GeneratedResponsePart; part != nil && part.TextResponsePart != nil {
		text := &citation.TextResponsePart{Text: part.TextResponsePart.Text}
		if s := part.TextResponsePart.Span; s != nil {
			text.Span = &citation.KBSpan{
				Start: int32Ptr(s.Start),
				End:   int32Ptr(s.End),
			}
		}
		group.GeneratedResponsePart = &citation.GeneratedResponsePart{TextResponsePart: text}
	}

	for _, ref := range c.RetrievedReferences {
		group.RetrievedReferences = append(group.RetrievedReferences, convertReference(ref))
	}
	return group
}

func convertReference(ref types.RetrievedReference) citation.RetrievedReference {
	out := citation.RetrievedReference{
		Metadata: convertMetadata(ref.Metadata),
	}
	if ref.Content != nil {
		out.Content = &citation.RetrievalContent{Text: ref.Content.Text}
	}
	if loc := ref.Location; loc != nil {
		l := &citation.RetrievalLocation{Type: string(loc.Type)}
		if loc.S3Location != nil {
			l.S3Location = &citation.S3Location{URI: loc.S3Location.Uri}
		}
		if loc.WebLocation != nil {
			l.WebLocation = &citation.WebLocation{URL: loc.WebLocation.Url}
		}
		if loc.CustomDocumentLocation != nil {
			l.CustomDocumentLocation = &citation.CustomDocumentLocation{ID: loc.CustomDocumentLocation.Id}
		}
		out.Location = l
	}
	return out
}

// convertMetadata decodes each smithy document through JSON so values come
// back as plain strings, float64s, slices and maps. Undecodable values are
// dropped.
func convertMetadata(in map[string]document.Interface) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, d := range in {
		if d == nil {
			out[k] = nil
			continue
		}
		raw, err := d.MarshalSmithyDocument()
		if err != nil {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out[k] = v
	}
	return out
}

func int32Ptr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
