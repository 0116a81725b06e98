package main

import (
	"net/http"
	"time"

	"hnreader/internal/components/telemetry"
	"hnreader/internal/graphql"
	"hnreader/internal/pagecache"
	"hnreader/internal/restyutil"
	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/serviceutil"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux serves the graphql api under /graphql and prometheus metrics under
// /metrics, everything else redirects to /graphql.
func NewMux(cfg Config, tel telemetry.API) (*http.ServeMux, error) {
	var dump restyutil.Output
	if cfg.DumpHttpDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(cfg.DumpHttpDir)
		if err != nil {
			return nil, err
		}
		dump = fsOutput
	}

	client, err := hackernews.NewClient(hackernews.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Cache: pagecache.NewMemory(
			cfg.CacheSize,
			time.Duration(cfg.CacheTtlSeconds)*time.Second,
		),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Dump:              dump,
	}, tel)
	if err != nil {
		return nil, err
	}

	handler, err := graphql.NewHandler(client, tel)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", serviceutil.VerifyAccessToken(cfg.AccessToken, handler))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/graphql", http.StatusFound)
	})
	return mux, nil
}
