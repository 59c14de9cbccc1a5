// Package worker orchestrates one partitioned GraphQL request: partition
// the operation, build both subrequests, dispatch them concurrently,
// harvest responses in completion order, merge, and fold upstream GraphQL
// errors into the client-visible response.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samsarahq/go/oops"
	uuid "github.com/satori/go.uuid"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/errgroup"

	"github.com/samsarahq/graphql-cacher/cachererr"
	"github.com/samsarahq/graphql-cacher/cacherheaders"
	"github.com/samsarahq/graphql-cacher/gqlpartition"
	"github.com/samsarahq/graphql-cacher/gqlrequest"
	jsonmerge "github.com/samsarahq/graphql-cacher/merge"
	"github.com/samsarahq/graphql-cacher/logger"
	"github.com/samsarahq/graphql-cacher/originclient"
)

// Request is everything the worker needs to process one partitionable
// GraphQL operation.
type Request struct {
	Operation   *ast.OperationDefinition
	Fragments   ast.FragmentDefinitionList
	Variables   map[string]interface{}
	Path        gqlpartition.Path
	Passthrough http.Header
	Subscriber  *bool
}

// Result is the reassembled response the router sends back to the client.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Partitioned is false when the path's remainder was empty and only a
	// single (POST) subrequest was actually dispatched.
	Partitioned bool
}

// Worker dispatches both halves of one partitioned request against a single
// resolved Backend.
type Worker struct {
	Backend    *originclient.Backend
	Dispatcher originclient.Dispatcher
	Logger     logger.Logger
	id         uuid.UUID
}

// New creates a Worker scoped to one incoming client request.
func New(backend *originclient.Backend, dispatcher originclient.Dispatcher, log logger.Logger) *Worker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Worker{Backend: backend, Dispatcher: dispatcher, Logger: log, id: uuid.NewV4()}
}

type subresult struct {
	req  *http.Request
	resp *http.Response
	err  error
}

// Process implements the per-request orchestration: partition, build
// subrequests, dispatch concurrently, harvest in completion order, merge.
func (w *Worker) Process(ctx context.Context, r Request) (*Result, error) {
	left, right, ok, err := gqlpartition.Partition(r.Operation, r.Fragments, r.Path)
	if err != nil {
		return nil, &cachererr.UnsupportedOperation{Reason: err.Error()}
	}
	if !ok {
		return nil, &cachererr.UnmatchedPath{OperationName: r.Operation.Name, Path: r.Path.String()}
	}

	reqs, err := w.buildSubrequests(ctx, left, right, r)
	if err != nil {
		return nil, err
	}

	return w.dispatchAndMerge(ctx, reqs, len(reqs) == 2)
}

func (w *Worker) buildSubrequests(ctx context.Context, left, right *ast.OperationDefinition, r Request) ([]*http.Request, error) {
	leftOp := &gqlrequest.Operation{Definition: left, Variables: r.Variables}
	leftReq, err := leftOp.PostRequest(ctx, r.Passthrough)
	if err != nil {
		return nil, oops.Wrapf(err, "building left subrequest")
	}

	reqs := []*http.Request{leftReq}

	if right != nil {
		rightOp := &gqlrequest.Operation{Definition: right, Fragments: r.Fragments, Variables: r.Variables}
		rightReq, err := rightOp.GetRequest(ctx, r.Passthrough, r.Subscriber)
		if err != nil {
			return nil, oops.Wrapf(err, "building right subrequest")
		}
		reqs = append(reqs, rightReq)
	}

	for _, req := range reqs {
		subID := uuid.NewV4()
		req.Header.Set("X-Graphql-Cacher-Request-Id", fmt.Sprintf("%s:%s", w.id, subID))
		if req.Header.Get(cacherheaders.BackendEnvHeader) == "" {
			req.Header.Set(cacherheaders.BackendEnvHeader, w.Backend.Env)
		}
		originclient.Rewrite(req, w.Backend)
	}

	return reqs, nil
}

func (w *Worker) dispatchAndMerge(ctx context.Context, reqs []*http.Request, partitioned bool) (*Result, error) {
	// A plain Group rather than errgroup.WithContext: the derived context
	// would be canceled as soon as Wait returns, which can be before the
	// response bodies are read in the loop below.
	var group errgroup.Group
	results := make(chan subresult, len(reqs))

	for _, req := range reqs {
		req := req
		group.Go(func() error {
			resp, err := w.Dispatcher.Do(ctx, req)
			results <- subresult{req: req, resp: resp, err: err}
			// The error is carried on the result, not returned here: a
			// failed subrequest must not cancel its sibling's in-flight
			// dispatch (no cancellation exposed, per the concurrency model).
			return nil
		})
	}
	go func() {
		group.Wait()
		close(results)
	}()

	accumulator := map[string]interface{}{}
	var graphqlErrors []cachererr.GraphQLError
	seenErrors := map[string]bool{}
	var template http.Header
	statusCode := http.StatusOK

	for i := 0; i < len(reqs); i++ {
		res := <-results

		if res.err != nil {
			return nil, &cachererr.UpstreamTransport{URL: res.req.URL.String(), Err: res.err}
		}
		defer res.resp.Body.Close()

		contentType := res.resp.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			return nil, &cachererr.UpstreamContentType{URL: res.req.URL.String(), ContentType: contentType}
		}

		var body map[string]interface{}
		if err := json.NewDecoder(res.resp.Body).Decode(&body); err != nil {
			return nil, oops.Wrapf(err, "parsing response from %s", res.req.URL)
		}

		if template == nil {
			template = res.resp.Header.Clone()
			statusCode = res.resp.StatusCode
		}

		if errs, ok := extractErrors(body); ok {
			for _, e := range errs {
				raw, _ := json.Marshal(e)
				key := string(raw)
				if !seenErrors[key] {
					seenErrors[key] = true
					graphqlErrors = append(graphqlErrors, e)
				}
			}
			if perr := originclient.PurgeCache(ctx, w.Dispatcher, w.Backend, res.req.URL.String()); perr != nil {
				w.Logger.Warn("cache purge failed after upstream graphql error", "url", res.req.URL.String(), "error", perr.Error())
			}
			continue
		}

		merged, err := jsonmerge.Merge(accumulator, body)
		if err != nil {
			return nil, &cachererr.MergeShapeMismatch{Err: err}
		}
		accumulator = merged.(map[string]interface{})
	}

	if len(graphqlErrors) > 0 {
		accumulator["errors"] = graphqlErrors
	}

	respBody, err := json.Marshal(accumulator)
	if err != nil {
		return nil, oops.Wrapf(err, "encoding merged response")
	}

	if template == nil {
		template = http.Header{}
	}

	return &Result{
		StatusCode:  statusCode,
		Header:      template,
		Body:        respBody,
		Partitioned: partitioned,
	}, nil
}

func extractErrors(body map[string]interface{}) ([]cachererr.GraphQLError, bool) {
	raw, ok := body["errors"]
	if !ok {
		return nil, false
	}
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, false
	}

	out := make([]cachererr.GraphQLError, 0, len(list))
	for _, item := range list {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var ge cachererr.GraphQLError
		if err := json.Unmarshal(b, &ge); err != nil {
			continue
		}
		out = append(out, ge)
	}
	return out, true
}
