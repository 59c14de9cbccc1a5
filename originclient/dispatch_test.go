package originclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeCacheSucceedsOn2xx(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	backend := &Backend{Name: "main", URL: mustParseURL(t, srv.URL), Env: "qa"}
	err := PurgeCache(context.Background(), NewHTTPDispatcher(), backend, srv.URL+"/graphql?query=x")
	require.NoError(t, err)
	assert.Equal(t, "PURGE", gotMethod)
}

func TestPurgeCacheFailsOn5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	backend := &Backend{Name: "main", URL: mustParseURL(t, srv.URL), Env: "qa"}
	err := PurgeCache(context.Background(), NewHTTPDispatcher(), backend, srv.URL+"/graphql")
	require.Error(t, err)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
