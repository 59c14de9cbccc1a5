package gqlrequest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func mustOperation(t *testing.T, src string) *Operation {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Input: src})
	require.Nil(t, err)
	require.Len(t, doc.Operations, 1)
	return &Operation{Definition: doc.Operations[0], Fragments: doc.Fragments}
}

func TestPostRequestBuildsJSONBody(t *testing.T) {
	op := mustOperation(t, `query MyQuery { myQuery { alpha } }`)
	op.Variables = map[string]interface{}{"foo": "bar"}

	passthrough := http.Header{}
	passthrough.Set("Cookie", "session=abc")

	req, err := op.PostRequest(context.Background(), passthrough)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "MyQuery", req.Header.Get("X-Operation-Name"))
	assert.Equal(t, "", req.Header.Get("Surrogate-Key"))
	assert.Equal(t, "session=abc", req.Header.Get("Cookie"))

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	var body wireBody
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "MyQuery", body.OperationName)
	assert.Equal(t, "bar", body.Variables["foo"])
	assert.Contains(t, body.Query, "myQuery")
}

func TestGetRequestCarriesQueryParamsAndSubscriber(t *testing.T) {
	op := mustOperation(t, `query MyQuery { myQuery { alpha } }`)
	subscriber := true

	req, err := op.GetRequest(context.Background(), http.Header{}, &subscriber)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "true", req.Header.Get("x-gql"))
	assert.Equal(t, "MyQuery", req.Header.Get("X-Operation-Name"))
	assert.Equal(t, "true", req.URL.Query().Get("subscriber"))
	assert.Contains(t, req.URL.Query().Get("query"), "myQuery")
}

func TestGetRequestOmitsSubscriberWhenNil(t *testing.T) {
	op := mustOperation(t, `query MyQuery { myQuery { alpha } }`)

	req, err := op.GetRequest(context.Background(), http.Header{}, nil)
	require.NoError(t, err)

	_, present := req.URL.Query()["subscriber"]
	assert.False(t, present)
}
