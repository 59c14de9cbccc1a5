// Command graphql-cacher runs the edge caching proxy as a standalone HTTP
// server, wiring origin backends and logging from environment variables.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/samsarahq/graphql-cacher/cacherhttp"
	"github.com/samsarahq/graphql-cacher/logger"
	"github.com/samsarahq/graphql-cacher/originclient"
)

// maxHeaderValueBytes guards against oversized request headers reaching a
// backend, standing in for the teacher source's RequestLimits::
// set_max_header_value_bytes.
const maxHeaderValueBytes = 16384

// longQueryThreshold is the default warn-log threshold for /graphql POST
// handling time.
const longQueryThreshold = 500 * time.Millisecond

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func backendTable() originclient.Table {
	return originclient.Table{
		MainURLs: map[string]string{
			"dev":  envOr("GRAPHQL_CACHER_ORIGIN_MAIN_DEV", ""),
			"qa":   envOr("GRAPHQL_CACHER_ORIGIN_MAIN_QA", ""),
			"prod": envOr("GRAPHQL_CACHER_ORIGIN_MAIN_PROD", ""),
		},
		BypassURLs: map[string]string{
			"dev":  envOr("GRAPHQL_CACHER_ORIGIN_BYPASS_DEV", ""),
			"qa":   envOr("GRAPHQL_CACHER_ORIGIN_BYPASS_QA", ""),
			"prod": envOr("GRAPHQL_CACHER_ORIGIN_BYPASS_PROD", ""),
		},
	}
}

func main() {
	log := logger.New()

	handler := &cacherhttp.Handler{
		Backends:           backendTable(),
		Dispatcher:         originclient.NewHTTPDispatcher(),
		Logger:             log,
		Version:            envOr("GRAPHQL_CACHER_VERSION", ""),
		LongQueryThreshold: longQueryThreshold,
	}

	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        handler,
		MaxHeaderBytes: maxHeaderValueBytes,
	}

	log.Info("starting graphql-cacher", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
