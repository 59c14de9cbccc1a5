package originclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() Table {
	return Table{
		MainURLs: map[string]string{
			"dev":  "https://graphql-cacher.dev.backend.tld",
			"qa":   "https://graphql-cacher.qa.backend.tld",
			"prod": "https://graphql-cacher.prod.backend.tld",
		},
		BypassURLs: map[string]string{
			"dev":  "https://bypass.dev.backend.tld",
			"qa":   "https://bypass.qa.backend.tld",
			"prod": "https://bypass.prod.backend.tld",
		},
	}
}

func TestMainResolvesKnownEnv(t *testing.T) {
	b, err := testTable().Main("prod")
	require.NoError(t, err)
	assert.Equal(t, "prod", b.Env)
	assert.Equal(t, "graphql-cacher.prod.backend.tld", b.URL.Host)
}

func TestMainDefaultsToQAWhenEnvEmpty(t *testing.T) {
	b, err := testTable().Main("")
	require.NoError(t, err)
	assert.Equal(t, "qa", b.Env)
}

func TestMainIsCaseInsensitive(t *testing.T) {
	b, err := testTable().Main("PROD")
	require.NoError(t, err)
	assert.Equal(t, "prod", b.Env)
}

func TestMainRejectsUnknownEnv(t *testing.T) {
	_, err := testTable().Main("staging")
	require.Error(t, err)
}

func TestBypassResolvesKnownEnv(t *testing.T) {
	b, err := testTable().Bypass("dev")
	require.NoError(t, err)
	assert.Equal(t, "bypass.dev.backend.tld", b.URL.Host)
}
