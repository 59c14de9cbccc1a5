package cacherhttp

import "encoding/json"

// requestBody is the shape of a POST /graphql body: { query?, variables?,
// operationName?, extensions? }, matching the wire-in contract.
type requestBody struct {
	Query         *string                `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName *string                `json:"operationName,omitempty"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

// isPersistedQuery reports whether extensions carries a non-null
// persistedQuery entry.
func (b requestBody) isPersistedQuery() bool {
	if b.Extensions == nil {
		return false
	}
	v, ok := b.Extensions["persistedQuery"]
	return ok && v != nil
}

// marshalForUpstream re-serializes the body for a send-unmodified
// subrequest. When Query is nil (a persisted query, typically), the
// "query" key is omitted entirely rather than emitted as null, since a
// literal null query breaks some origins per the teacher source's own
// handling of that case.
func (b requestBody) marshalForUpstream() ([]byte, error) {
	if b.Query != nil {
		return json.Marshal(b)
	}
	out := map[string]interface{}{}
	if b.Extensions != nil {
		out["extensions"] = b.Extensions
	}
	if b.Variables != nil {
		out["variables"] = b.Variables
	}
	if b.OperationName != nil {
		out["operationName"] = *b.OperationName
	}
	return json.Marshal(out)
}
