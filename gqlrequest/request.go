// Package gqlrequest materializes a parsed GraphQL operation, its
// referenced fragments, and its variables as an outbound *http.Request —
// either a GET carrying the document as query parameters (the cacheable
// form) or a POST carrying a JSON body (the non-cacheable form).
package gqlrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samsarahq/go/oops"

	"github.com/samsarahq/graphql-cacher/cacherheaders"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// placeholderURL is the target every built request carries until
// originclient.Rewrite points it at the resolved backend. The real host is
// never known to this package, matching the teacher's separation between
// request construction and backend dispatch.
const placeholderURL = "https://localhost/graphql"

// Operation is everything needed to materialize one half of a partitioned
// request onto the wire.
type Operation struct {
	Definition *ast.OperationDefinition
	Fragments  ast.FragmentDefinitionList
	Variables  map[string]interface{}
	Extensions map[string]interface{}
}

// wireBody is the POST body shape: { query, variables?, operationName?,
// extensions? }, with absent fields omitted.
type wireBody struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

// document renders the operation and its referenced fragments back into a
// single GraphQL document string.
func (o *Operation) document() string {
	var buf strings.Builder
	f := formatter.NewFormatter(&buf)
	f.FormatQueryDocument(&ast.QueryDocument{
		Operations: ast.OperationList{o.Definition},
		Fragments:  o.Fragments,
	})
	return buf.String()
}

// PostRequest builds the POST form used for the non-cacheable (left) half
// of a partitioned operation: a JSON body, passthrough headers copied from
// the client request, and X-Operation-Name set to the operation's name.
func (o *Operation) PostRequest(ctx context.Context, passthrough http.Header) (*http.Request, error) {
	body := wireBody{
		Query:         o.document(),
		Variables:     o.Variables,
		OperationName: o.Definition.Name,
		Extensions:    o.Extensions,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, oops.Wrapf(err, "encoding post body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, placeholderURL, bytes.NewReader(raw))
	if err != nil {
		return nil, oops.Wrapf(err, "building post request")
	}
	cacherheaders.Copy(req.Header, passthrough)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Operation-Name", o.Definition.Name)
	return req, nil
}

// GetRequest builds the GET form used for the cacheable (right) half of a
// partitioned operation: the document, variables, and extensions are
// placed into query parameters, the operation name becomes both the
// surrogate-key header value and X-Operation-Name, and an x-gql: true
// header marks the request as cacher-originated. subscriber, when
// non-nil, is appended as the "subscriber" query parameter.
func (o *Operation) GetRequest(ctx context.Context, passthrough http.Header, subscriber *bool) (*http.Request, error) {
	q := url.Values{}
	q.Set("query", o.document())
	if o.Variables != nil {
		raw, err := json.Marshal(o.Variables)
		if err != nil {
			return nil, oops.Wrapf(err, "encoding variables")
		}
		q.Set("variables", string(raw))
	}
	if o.Extensions != nil {
		raw, err := json.Marshal(o.Extensions)
		if err != nil {
			return nil, oops.Wrapf(err, "encoding extensions")
		}
		q.Set("extensions", string(raw))
	}
	if subscriber != nil {
		q.Set("subscriber", strconv.FormatBool(*subscriber))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, placeholderURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, oops.Wrapf(err, "building get request")
	}
	cacherheaders.Copy(req.Header, passthrough)
	req.Header.Set("X-Operation-Name", o.Definition.Name)
	req.Header.Set("Surrogate-Key", o.Definition.Name)
	req.Header.Set("x-gql", "true")
	return req, nil
}
