package cacherhttp

import (
	"errors"
	"net/http"

	"github.com/samsarahq/go/oops"

	"github.com/samsarahq/graphql-cacher/cachererr"
	"github.com/samsarahq/graphql-cacher/cacherhttp/worker"
	"github.com/samsarahq/graphql-cacher/gqlpartition"
	"github.com/samsarahq/graphql-cacher/originclient"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// handlePartition resolves the main backend and subscriber status, then
// hands the operation to a worker.Worker for the actual partition/dispatch/
// merge cycle.
func (h *Handler) handlePartition(w http.ResponseWriter, r *http.Request, body requestBody, res resolved) {
	op := res.operation
	fragments := res.fragments

	if op == nil {
		if body.Query == nil {
			h.writeError(w, oops.Errorf("partition instruction with no query"))
			return
		}
		doc, err := parser.ParseQuery(&ast.Source{Input: *body.Query})
		if err != nil || len(doc.Operations) != 1 {
			h.writeError(w, oops.Errorf("parsing operation for partition: %v", err))
			return
		}
		op = doc.Operations[0]
		fragments = doc.Fragments
	}

	path, err := res.instruction.ParsedPath()
	if err != nil {
		var invalid *gqlpartition.InvalidPathError
		if errors.As(err, &invalid) {
			h.writeError(w, &cachererr.InvalidPath{Path: invalid.Input, Element: invalid.Element})
			return
		}
		h.writeError(w, err)
		return
	}

	env := originclient.EnvFromHeader(r.Header.Get)
	backend, err := h.Backends.Main(env)
	if err != nil {
		h.writeError(w, err)
		return
	}

	isSubscriber, err := h.subscriberStatus(r.Context(), backend, r.Header)
	if err != nil {
		h.writeError(w, err)
		return
	}

	wk := worker.New(backend, h.Dispatcher, h.logger())
	result, err := wk.Process(r.Context(), worker.Request{
		Operation:   op,
		Fragments:   fragments,
		Variables:   body.Variables,
		Path:        path,
		Passthrough: r.Header,
		Subscriber:  &isSubscriber,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeWorkerResult(w, result)
}
