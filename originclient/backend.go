// Package originclient resolves which origin a request's subrequests
// should target, dispatches them, and issues single-URL cache purges on
// upstream GraphQL errors.
package originclient

import (
	"net/url"
	"strings"

	"github.com/samsarahq/go/oops"
)

// DefaultEnv is used when a request carries no X-Backend-Env header.
const DefaultEnv = "qa"

// Backend names and resolves to an origin base URL for one environment.
type Backend struct {
	Name string
	URL  *url.URL
	Env  string
}

// Table resolves an environment name to a backend's base URL. It is
// supplied by cmd/graphql-cacher at startup (from environment variables),
// not hardcoded, since the concrete hostnames are deployment detail rather
// than core behavior.
type Table struct {
	MainURLs   map[string]string
	BypassURLs map[string]string
}

// Main resolves env (case-insensitively) to the main backend — the one
// partitioned and flat-cached requests are sent to. An empty env falls
// back to DefaultEnv; an env with no entry in the table is an error.
func (t Table) Main(env string) (*Backend, error) { return t.resolve(t.MainURLs, "main", env) }

// Bypass resolves env to the backend unprocessed (send-unmodified)
// requests are sent to.
func (t Table) Bypass(env string) (*Backend, error) { return t.resolve(t.BypassURLs, "bypass", env) }

func (t Table) resolve(urls map[string]string, name, env string) (*Backend, error) {
	key := strings.ToLower(env)
	if key == "" {
		key = DefaultEnv
	}
	raw, ok := urls[key]
	if !ok {
		return nil, oops.Errorf("unrecognized backend env %q for %s backend; expected one of dev, qa, prod", env, name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, oops.Wrapf(err, "invalid %s backend URL for env %q", name, env)
	}
	return &Backend{Name: name, URL: u, Env: key}, nil
}
