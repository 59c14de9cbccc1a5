package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/samsarahq/graphql-cacher/gqlpartition"
	"github.com/samsarahq/graphql-cacher/originclient"
)

// fakeDispatcher returns a canned JSON response keyed by HTTP method,
// avoiding a real network dependency — the same substitution thunder's own
// tests use for its ExecutorRunner interface.
type fakeDispatcher struct {
	mu        sync.Mutex
	responses map[string]string // method -> json body
	purged    []string
}

func (f *fakeDispatcher) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Method == "PURGE" {
		f.mu.Lock()
		f.purged = append(f.purged, req.URL.String())
		f.mu.Unlock()
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	}
	body := f.responses[req.Method]
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     h,
	}, nil
}

func mustOperation(t *testing.T, src string) (*ast.OperationDefinition, ast.FragmentDefinitionList) {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Input: src})
	require.Nil(t, err)
	require.Len(t, doc.Operations, 1)
	return doc.Operations[0], doc.Fragments
}

func testBackend(t *testing.T) *originclient.Backend {
	u, err := url.Parse("https://origin.example.test")
	require.NoError(t, err)
	return &originclient.Backend{Name: "main", URL: u, Env: "qa"}
}

func TestProcessMergesBothHalves(t *testing.T) {
	op, fragments := mustOperation(t, `{ myQuery { alpha { one two three } } }`)
	path, err := gqlpartition.ParsePath("myQuery.alpha.two")
	require.NoError(t, err)

	dispatcher := &fakeDispatcher{responses: map[string]string{
		"POST": `{"data":{"myQuery":{"alpha":{"two":"two-value"}}}}`,
		"GET":  `{"data":{"myQuery":{"alpha":{"one":"one-value","three":"three-value"}}}}`,
	}}

	w := New(testBackend(t), dispatcher, nil)
	result, err := w.Process(context.Background(), Request{
		Operation:   op,
		Fragments:   fragments,
		Path:        path,
		Passthrough: http.Header{},
	})
	require.NoError(t, err)
	require.True(t, result.Partitioned)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Body, &got))

	data := got["data"].(map[string]interface{})
	myQuery := data["myQuery"].(map[string]interface{})
	alpha := myQuery["alpha"].(map[string]interface{})
	assert.Equal(t, "one-value", alpha["one"])
	assert.Equal(t, "two-value", alpha["two"])
	assert.Equal(t, "three-value", alpha["three"])
}

func TestProcessSkipsGETWhenRemainderEmpty(t *testing.T) {
	op, fragments := mustOperation(t, `{ myQuery { alpha } }`)
	path, err := gqlpartition.ParsePath("myQuery")
	require.NoError(t, err)

	dispatcher := &fakeDispatcher{responses: map[string]string{
		"POST": `{"data":{"myQuery":{"alpha":"value"}}}`,
	}}

	w := New(testBackend(t), dispatcher, nil)
	result, err := w.Process(context.Background(), Request{
		Operation:   op,
		Fragments:   fragments,
		Path:        path,
		Passthrough: http.Header{},
	})
	require.NoError(t, err)
	assert.False(t, result.Partitioned)
}

func TestProcessFoldsGraphQLErrorsAndPurges(t *testing.T) {
	op, fragments := mustOperation(t, `{ myQuery { alpha { one two } } }`)
	path, err := gqlpartition.ParsePath("myQuery.alpha.two")
	require.NoError(t, err)

	dispatcher := &fakeDispatcher{responses: map[string]string{
		"POST": `{"data":{"myQuery":{"alpha":{"two":"value"}}}}`,
		"GET":  `{"errors":[{"message":"boom"}]}`,
	}}

	w := New(testBackend(t), dispatcher, nil)
	result, err := w.Process(context.Background(), Request{
		Operation:   op,
		Fragments:   fragments,
		Path:        path,
		Passthrough: http.Header{},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Body, &got))
	errs := got["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].(map[string]interface{})["message"])

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	assert.Len(t, dispatcher.purged, 1)
}

func TestProcessReturnsUnmatchedPathError(t *testing.T) {
	op, fragments := mustOperation(t, `{ myQuery { alpha } }`)
	path, err := gqlpartition.ParsePath("myQuery.foo")
	require.NoError(t, err)

	w := New(testBackend(t), &fakeDispatcher{}, nil)
	_, err = w.Process(context.Background(), Request{
		Operation:   op,
		Fragments:   fragments,
		Path:        path,
		Passthrough: http.Header{},
	})
	require.Error(t, err)
}
