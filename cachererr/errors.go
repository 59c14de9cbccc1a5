// Package cachererr names the error kinds the cacher's core can raise, in
// the teacher's SafeError/ClientError idiom: small named types satisfying
// error, rather than a generic error-code enum. Each kind is distinguished
// with errors.As so callers (chiefly cacherhttp.Handler) can decide how to
// respond without string-matching messages.
package cachererr

import "fmt"

// InvalidPath reports that a processing instruction's configured path
// failed gqlpartition.ParsePath. This is always a configuration error: the
// static instruction table should never contain a malformed path.
type InvalidPath struct {
	Path    string
	Element string
}

func (e *InvalidPath) Error() string {
	return fmt.Sprintf("invalid path %q: element %q is not a valid GraphQL name", e.Path, e.Element)
}

// UnsupportedOperation reports that the incoming operation is a mutation,
// a subscription, or uses an inline fragment on the partition path — forms
// the partitioner and equivalence checker do not implement.
type UnsupportedOperation struct {
	Reason string
}

func (e *UnsupportedOperation) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Reason)
}

// UnmatchedPath reports that the partitioner returned no match for a
// configured path against a received operation. Since the path comes from
// a static, operator-maintained table, this always indicates the table is
// stale relative to the schema the client is actually querying.
type UnmatchedPath struct {
	OperationName string
	Path          string
}

func (e *UnmatchedPath) Error() string {
	return fmt.Sprintf("path %q does not match operation %q", e.Path, e.OperationName)
}

// UpstreamContentType reports that an origin response's Content-Type was
// not application/json.
type UpstreamContentType struct {
	URL         string
	ContentType string
}

func (e *UpstreamContentType) Error() string {
	return fmt.Sprintf("upstream %s returned content-type %q, want application/json", e.URL, e.ContentType)
}

// GraphQLError is one entry of an upstream response's top-level "errors"
// array.
type GraphQLError struct {
	Message string                 `json:"message"`
	Path    []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// UpstreamGraphQLError reports that an origin response's body carried a
// non-empty "errors" array. The partitioning worker does not return this
// type: it folds upstream GraphQL errors into the client-visible response
// itself. The subscriber-status lookup returns it (with Errors unset) after
// purging URL, and the request then fails like any other error kind.
type UpstreamGraphQLError struct {
	URL    string
	Errors []GraphQLError
}

func (e *UpstreamGraphQLError) Error() string {
	return fmt.Sprintf("upstream %s returned %d graphql error(s)", e.URL, len(e.Errors))
}

// UpstreamTransport reports a transport-level failure (connection refused,
// timeout, TLS error, etc) dispatching a subrequest.
type UpstreamTransport struct {
	URL string
	Err error
}

func (e *UpstreamTransport) Error() string {
	return fmt.Sprintf("dispatching %s: %v", e.URL, e.Err)
}

func (e *UpstreamTransport) Unwrap() error { return e.Err }

// MergeShapeMismatch reports a jsonmerge.ShapeMismatchError surfaced from
// the worker's merge step. It is always fatal: the two halves of a
// partitioned response failed to align positionally, which means the
// partitioner and the origin disagree about array shape.
type MergeShapeMismatch struct {
	Err error
}

func (e *MergeShapeMismatch) Error() string {
	return fmt.Sprintf("merge shape mismatch: %v", e.Err)
}

func (e *MergeShapeMismatch) Unwrap() error { return e.Err }
