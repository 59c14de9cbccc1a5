package originclient

import "github.com/samsarahq/graphql-cacher/cacherheaders"

// SubscriberStatusQuery is the fixed GraphQL query used for the
// subscriber-status side lookup (spec'd as an external collaborator whose
// business meaning the cacher does not interpret, only calls).
const SubscriberStatusQuery = `{ currentUser { isSportslineSubscriber } }`

// EnvFromHeader returns the X-Backend-Env header's value, or DefaultEnv if
// absent or empty.
func EnvFromHeader(get func(string) string) string {
	if v := get(cacherheaders.BackendEnvHeader); v != "" {
		return v
	}
	return DefaultEnv
}
