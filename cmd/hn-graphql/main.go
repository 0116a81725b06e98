package main

import (
	"flag"
	"os"
	"strconv"

	"hnreader/internal/components/telemetry"
	"hnreader/internal/configutil"
	"hnreader/internal/serviceutil"
)

type Config struct {
	Port              int              `json:"port"`
	AccessToken       string           `json:"access_token"`
	BaseUrl           string           `json:"base_url"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	CacheSize         int              `json:"cache_size"`
	CacheTtlSeconds   int              `json:"cache_ttl_seconds"`
	DumpHttpDir       string           `json:"dump_http_dir"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

var defaultConfig = Config{
	Port:            4000,
	CacheSize:       512,
	CacheTtlSeconds: 300,
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	cfg, err := configutil.ReadWithDefaults(defaultConfig, "config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port, err = strconv.Atoi(port)
		if err != nil {
			serviceutil.Fatal("parse PORT", err)
		}
	}

	InitTelemetry(ctx, cfg.Telemetry, *verbose)

	mux, err := NewMux(cfg, telemetry.NewSlogAPI(nil))
	if err != nil {
		serviceutil.Fatal("init graphql", err)
	}

	err = serviceutil.StartHttpServer(ctx, cfg.Port, mux)
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}
