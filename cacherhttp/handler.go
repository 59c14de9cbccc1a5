// Package cacherhttp implements the edge-resident request router: it
// decides, per incoming request, whether to partition a GraphQL operation,
// flat-cache it unmodified against the main backend, or bypass the cacher
// entirely, and writes the reassembled response back to the client.
package cacherhttp

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/samsarahq/go/oops"

	"github.com/samsarahq/graphql-cacher/cacherhttp/worker"
	"github.com/samsarahq/graphql-cacher/instructions"
	"github.com/samsarahq/graphql-cacher/logger"
	"github.com/samsarahq/graphql-cacher/originclient"
)

// Handler is the root http.Handler for the cacher. One Handler is built at
// startup and shared across requests; it holds no per-request state.
type Handler struct {
	Backends   originclient.Table
	Dispatcher originclient.Dispatcher
	Logger     logger.Logger
	Version    string

	// LongQueryThreshold, when non-zero, triggers a warn-level log for any
	// /graphql POST whose processing instruction is not DoNotProcess and
	// whose total handling time exceeds it.
	LongQueryThreshold time.Duration
}

func (h *Handler) logger() logger.Logger {
	if h.Logger == nil {
		return logger.NewNop()
	}
	return h.Logger
}

// ServeHTTP implements the §4.8 decision table: GET /graphql flat-caches;
// POST /graphql with a JSON content type resolves a processing instruction
// and routes accordingly; everything else is sent unmodified to the bypass
// backend.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer h.recoverPanic(w, r)

	if r.URL.Path != "/graphql" {
		h.sendUnmodified(w, r, nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.flatCache(w, r, r.URL.Query().Get("operationName"))
	case http.MethodPost:
		if isJSONContentType(r.Header.Get("Content-Type")) {
			h.handlePost(w, r)
		} else {
			h.sendUnmodified(w, r, nil)
		}
	default:
		h.sendUnmodified(w, r, nil)
	}
}

func isJSONContentType(contentType string) bool {
	essence, _, err := mime.ParseMediaType(contentType)
	return err == nil && essence == "application/json"
}

// recoverPanic logs a recovered panic's value and stack and responds 500,
// standing in for the teacher source's process-wide panic hook, which Go
// has no equivalent of — recovery is scoped per-request instead.
func (h *Handler) recoverPanic(w http.ResponseWriter, r *http.Request) {
	if rec := recover(); rec != nil {
		h.logger().Error("panic handling request", "path", r.URL.Path, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
		h.writeError(w, oops.Errorf("internal error"))
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, oops.Wrapf(err, "reading request body"))
		return
	}

	var body requestBody
	if err := json.Unmarshal(raw, &body); err != nil {
		h.sendUnmodifiedBody(w, r, raw)
		return
	}

	res := resolveInstruction(body)

	switch res.instruction.How {
	case instructions.DoNotProcess:
		out, err := body.marshalForUpstream()
		if err != nil {
			out = raw
		}
		h.sendUnmodifiedBody(w, r, out)
		return

	case instructions.DoNotPartition:
		h.handleDoNotPartition(w, r, body, res.name)

	case instructions.Partition:
		h.handlePartition(w, r, body, res)
	}

	if h.LongQueryThreshold > 0 {
		if elapsed := time.Since(start); elapsed > h.LongQueryThreshold {
			h.logger().Warn("long query", "operation", res.name, "instruction", res.instruction.How.String(), "elapsed", elapsed.String())
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("X-Why", shortReason(err))
	w.Header().Set("X-Came-From", "edge")
	w.Header().Set("X-GraphQL-Cacher-Version", h.Version)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, "The application was unable to process the request")
}

// shortReason renders err as a single-line, header-safe reason string.
func shortReason(err error) string {
	msg := err.Error()
	for i := 0; i < len(msg); i++ {
		if msg[i] == '\n' || msg[i] == '\r' {
			return msg[:i]
		}
	}
	if len(msg) > 256 {
		return msg[:256]
	}
	return msg
}

// writeUpstream copies an upstream *http.Response onto w, stamping the
// cacher's own response headers over whatever the origin returned.
func (h *Handler) writeUpstream(w http.ResponseWriter, resp *http.Response, processed, behavior string, partitioned bool) {
	defer resp.Body.Close()
	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set("X-Came-From", "edge")
	w.Header().Set("X-Processed-By-GraphQL-Cacher", processed)
	w.Header().Set("X-GraphQL-Cacher-Behavior", behavior)
	w.Header().Set("X-GraphQL-Cacher-Version", h.Version)
	if partitioned {
		w.Header().Set("Cache-Control", "max-age=300, private")
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

// writeWorkerResult writes a worker.Result the same way writeUpstream
// writes a raw *http.Response.
func (h *Handler) writeWorkerResult(w http.ResponseWriter, result *worker.Result) {
	for name, values := range result.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set("X-Came-From", "edge")
	w.Header().Set("X-Processed-By-GraphQL-Cacher", "true")
	w.Header().Set("X-GraphQL-Cacher-Behavior", "partition")
	w.Header().Set("X-GraphQL-Cacher-Version", h.Version)
	w.Header().Set("Cache-Control", "max-age=300, private")
	w.WriteHeader(result.StatusCode)
	w.Write(result.Body)
}
