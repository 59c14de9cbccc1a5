package originclient

import (
	"context"
	"net/http"

	"github.com/samsarahq/go/oops"
)

// Dispatcher sends an HTTP request and returns its response. It exists so
// worker.Worker can be exercised in tests against a fake that returns
// canned JSON per HTTP method, the way thunder's graphql/http_test.go substitutes
// an in-process ExecutorRunner instead of dialing a real backend.
type Dispatcher interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPDispatcher is the default Dispatcher, backed by an *http.Client.
type HTTPDispatcher struct {
	Client *http.Client
}

// NewHTTPDispatcher returns a Dispatcher backed by http.DefaultClient.
func NewHTTPDispatcher() *HTTPDispatcher {
	return &HTTPDispatcher{Client: http.DefaultClient}
}

func (d *HTTPDispatcher) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req.WithContext(ctx))
}

// Rewrite points req at backend's origin, preserving the request's path
// and query string. Both GET and POST subrequests are built against a
// placeholder host and rewritten onto the resolved backend just before
// dispatch, mirroring backend.rs's Send rewriting the request URL's host,
// scheme, and port immediately before sending.
func Rewrite(req *http.Request, backend *Backend) {
	req.URL.Scheme = backend.URL.Scheme
	req.URL.Host = backend.URL.Host
	req.Host = backend.URL.Host
}

// PurgeCache issues a single-URL PURGE to target via backend. It reports
// an error for any non-2xx/3xx response, since a failed purge leaves a
// stale cache entry behind an upstream GraphQL error — a condition worth
// surfacing even though the worker does not fail the client response over
// it.
func PurgeCache(ctx context.Context, dispatcher Dispatcher, backend *Backend, target string) error {
	req, err := http.NewRequestWithContext(ctx, "PURGE", target, nil)
	if err != nil {
		return oops.Wrapf(err, "building purge request for %s", target)
	}
	Rewrite(req, backend)

	resp, err := dispatcher.Do(ctx, req)
	if err != nil {
		return oops.Wrapf(err, "purging %s", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return oops.Errorf("purge of %s failed with status %d", target, resp.StatusCode)
	}
	return nil
}
