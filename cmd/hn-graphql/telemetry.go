package main

import (
	"context"
	"log/slog"
	"time"

	"hnreader/internal/components/telemetry"
	"hnreader/internal/serviceutil"
)

func InitTelemetry(ctx context.Context, cfg telemetry.Config, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tracing, err := telemetry.SetupTracing(ctx, "hn-graphql", cfg)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := tracing.Shutdown(context.Background())
		if err != nil {
			slog.Warn("shutdown tracing", "err", err.Error())
		}
	}()
	InstrumentPerfStats(ctx, time.Second*30)
}
