package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// FilterField is one optional metadata condition
type FilterField struct {
	Key   string
	Value string
}

// StringContainsAny builds a stringContains condition per non-empty field.
// Two or more conditions are joined with orAll, a single one is returned as
// is, none yields a nil filter.
func StringContainsAny(fields []FilterField) types.RetrievalFilter {
	var conditions []types.RetrievalFilter
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		conditions = append(conditions, &types.RetrievalFilterMemberStringContains{
			Value: attribute(f.Key, f.Value),
		})
	}
	return joinOr(conditions)
}

// EqualsAny matches key against any of values
func EqualsAny(key string, values []string) types.RetrievalFilter {
	var conditions []types.RetrievalFilter
	for _, v := range values {
		conditions = append(conditions, &types.RetrievalFilterMemberEquals{
			Value: attribute(key, v),
		})
	}
	return joinOr(conditions)
}

// orAll takes at least two members
func joinOr(conditions []types.RetrievalFilter) types.RetrievalFilter {
	switch len(conditions) {
	case 0:
		return nil
	case 1:
		return conditions[0]
	default:
		return &types.RetrievalFilterMemberOrAll{Value: conditions}
	}
}

func attribute(key, value string) types.FilterAttribute {
	return types.FilterAttribute{
		Key:   aws.String(key),
		Value: document.NewLazyDocument(value),
	}
}

// DescribeFilter renders a filter as plain maps for logging
func DescribeFilter(f types.RetrievalFilter) interface{} {
	switch v := f.(type) {
	case nil:
		return map[string]interface{}{}
	case *types.RetrievalFilterMemberOrAll:
		members := make([]interface{}, 0, len(v.Value))
		for _, m := range v.Value {
			members = append(members, DescribeFilter(m))
		}
		return map[string]interface{}{"orAll": members}
	case *types.RetrievalFilterMemberAndAll:
		members := make([]interface{}, 0, len(v.Value))
		for _, m := range v.Value {
			members = append(members, DescribeFilter(m))
		}
		return map[string]interface{}{"andAll": members}
	case *types.RetrievalFilterMemberEquals:
		return map[string]interface{}{"equals": describeAttribute(v.Value)}
	case *types.RetrievalFilterMemberStringContains:
		return map[string]interface{}{"stringContains": describeAttribute(v.Value)}
	default:
		return map[string]interface{}{"unsupported": true}
	}
}

func describeAttribute(a types.FilterAttribute) map[string]interface{} {
	var value interface{}
	if a.Value != nil {
		_ = a.Value.UnmarshalSmithyDocument(&value)
	}
	return map[string]interface{}{"key": aws.ToString(a.Key), "value": value}
}
