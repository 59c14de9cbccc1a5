package cacherhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/samsarahq/go/oops"

	"github.com/samsarahq/graphql-cacher/cacherheaders"
	"github.com/samsarahq/graphql-cacher/cachererr"
	"github.com/samsarahq/graphql-cacher/gqlrequest"
	"github.com/samsarahq/graphql-cacher/originclient"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// matchupAnalysisOperation is the one hard-coded operation name flat_cache
// augments with a subscriber-status side lookup. Carried over from the
// teacher source's own hard-coded check; a schema-driven alternative would
// need a capability this cacher deliberately doesn't have (no schema
// validation).
const matchupAnalysisOperation = "MatchupAnalysisQuery"

// sendUnmodified forwards r to the bypass backend verbatim, replacing its
// body with overrideBody when non-nil (used when the caller has already
// consumed r.Body and re-serialized it).
func (h *Handler) sendUnmodified(w http.ResponseWriter, r *http.Request, overrideBody []byte) {
	h.sendUnmodifiedBody(w, r, overrideBody)
}

func (h *Handler) sendUnmodifiedBody(w http.ResponseWriter, r *http.Request, overrideBody []byte) {
	env := originclient.EnvFromHeader(r.Header.Get)
	backend, err := h.Backends.Bypass(env)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var bodyReader io.Reader
	if overrideBody != nil {
		bodyReader = bytes.NewReader(overrideBody)
	} else if r.Body != nil {
		bodyReader = r.Body
	}

	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, r.URL.String(), bodyReader)
	if err != nil {
		h.writeError(w, oops.Wrapf(err, "building send-unmodified request"))
		return
	}
	cacherheaders.Copy(outReq.Header, r.Header)
	originclient.Rewrite(outReq, backend)

	resp, err := h.Dispatcher.Do(r.Context(), outReq)
	if err != nil {
		h.writeError(w, &cachererr.UpstreamTransport{URL: outReq.URL.String(), Err: err})
		return
	}
	h.writeUpstream(w, resp, "false", "send unmodified", false)
}

// flatCache forwards r to the main backend unmodified, except when
// operationName is matchupAnalysisOperation: then the subscriber status is
// looked up and appended to the outgoing query string as "subscriber".
func (h *Handler) flatCache(w http.ResponseWriter, r *http.Request, operationName string) {
	env := originclient.EnvFromHeader(r.Header.Get)
	backend, err := h.Backends.Main(env)
	if err != nil {
		h.writeError(w, err)
		return
	}

	outURL := *r.URL
	if operationName == matchupAnalysisOperation {
		isSubscriber, err := h.subscriberStatus(r.Context(), backend, r.Header)
		if err != nil {
			h.writeError(w, err)
			return
		}
		q := outURL.Query()
		q.Set("subscriber", fmt.Sprintf("%t", isSubscriber))
		outURL.RawQuery = q.Encode()
	}

	outReq, err := http.NewRequestWithContext(r.Context(), http.MethodGet, outURL.String(), nil)
	if err != nil {
		h.writeError(w, oops.Wrapf(err, "building flat-cache request"))
		return
	}
	cacherheaders.Copy(outReq.Header, r.Header)
	originclient.Rewrite(outReq, backend)

	resp, err := h.Dispatcher.Do(r.Context(), outReq)
	if err != nil {
		h.writeError(w, &cachererr.UpstreamTransport{URL: outReq.URL.String(), Err: err})
		return
	}
	h.writeUpstream(w, resp, "true", "flat cache", false)
}

// handleDoNotPartition materializes the whole operation as a single GET
// request (no split) and flat-caches it, mirroring the teacher source's
// DoNotPartition arm, which funnels the request through flat_cache rather
// than send_unmodified so it still gets the cacher's own response headers.
func (h *Handler) handleDoNotPartition(w http.ResponseWriter, r *http.Request, body requestBody, operationName string) {
	if body.Query == nil {
		h.writeError(w, oops.Errorf("do-not-partition instruction with no query"))
		return
	}

	doc, err := parser.ParseQuery(&ast.Source{Input: *body.Query})
	if err != nil || len(doc.Operations) != 1 {
		h.writeError(w, oops.Errorf("parsing operation for do-not-partition: %v", err))
		return
	}

	op := &gqlrequest.Operation{
		Definition: doc.Operations[0],
		Fragments:  doc.Fragments,
		Variables:  body.Variables,
		Extensions: body.Extensions,
	}
	getReq, err := op.GetRequest(r.Context(), r.Header, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}

	env := originclient.EnvFromHeader(r.Header.Get)
	backend, err := h.Backends.Main(env)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if operationName == matchupAnalysisOperation {
		isSubscriber, err := h.subscriberStatus(r.Context(), backend, r.Header)
		if err != nil {
			h.writeError(w, err)
			return
		}
		q := getReq.URL.Query()
		q.Set("subscriber", fmt.Sprintf("%t", isSubscriber))
		getReq.URL.RawQuery = q.Encode()
	}

	originclient.Rewrite(getReq, backend)
	resp, err := h.Dispatcher.Do(r.Context(), getReq)
	if err != nil {
		h.writeError(w, &cachererr.UpstreamTransport{URL: getReq.URL.String(), Err: err})
		return
	}
	h.writeUpstream(w, resp, "true", "flat cache", false)
}

// subscriberStatus issues the fixed subscriber-status probe query against
// backend and returns the caller's Sportsline subscriber flag. A non-empty
// "errors" array purges the probe's own URL and is surfaced as an error,
// matching the teacher source's get_subscriber_status.
func (h *Handler) subscriberStatus(ctx context.Context, backend *originclient.Backend, passthrough http.Header) (bool, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: originclient.SubscriberStatusQuery})
	if err != nil {
		return false, oops.Wrapf(err, "parsing subscriber status query")
	}
	op := &gqlrequest.Operation{Definition: doc.Operations[0], Fragments: doc.Fragments}

	req, err := op.GetRequest(ctx, passthrough, nil)
	if err != nil {
		return false, err
	}
	originclient.Rewrite(req, backend)

	resp, err := h.Dispatcher.Do(ctx, req)
	if err != nil {
		return false, &cachererr.UpstreamTransport{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, oops.Wrapf(err, "parsing subscriber status response")
	}

	if errs, ok := decoded["errors"].([]interface{}); ok && len(errs) > 0 {
		if perr := originclient.PurgeCache(ctx, h.Dispatcher, backend, req.URL.String()); perr != nil {
			h.logger().Warn("cache purge failed after subscriber status error", "url", req.URL.String(), "error", perr.Error())
		}
		return false, &cachererr.UpstreamGraphQLError{URL: req.URL.String()}
	}

	data, _ := decoded["data"].(map[string]interface{})
	currentUser, _ := data["currentUser"].(map[string]interface{})
	isSubscriber, _ := currentUser["isSportslineSubscriber"].(bool)
	return isSubscriber, nil
}
