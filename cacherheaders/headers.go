// Package cacherheaders holds the small, static set of client-request
// headers the cacher replicates verbatim onto upstream subrequests.
package cacherheaders

// Passthrough is the immutable list of header names copied from the
// originating client request onto every upstream subrequest. It is built
// once as a package-level slice literal; nothing in this package ever
// mutates it, so callers may range over it directly without cloning.
var Passthrough = []string{
	"cookie",
	"cache-control",
	"x-test-identifier",
	"x-backend-env",
	"authorization",
	"access-control-request-method",
	"access-control-request-headers",
	"origin",
	"content-type",
	"accept",
}

// BackendEnvHeader is the header clients use to select which backend
// environment a request's subrequests should target.
const BackendEnvHeader = "X-Backend-Env"

// DefaultBackendEnv is used when BackendEnvHeader is absent or empty.
const DefaultBackendEnv = "qa"

// Copy copies every passthrough header present in src onto dst.
func Copy(dst, src interface {
	Get(string) string
	Set(string, string)
}) {
	for _, name := range Passthrough {
		if v := src.Get(name); v != "" {
			dst.Set(name, v)
		}
	}
}
