package main

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v4/cpu"
)

var (
	cpuGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hn_cpu_usage_percent",
		Help: "System wide cpu usage since the previous sample.",
	})
	memoryGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hn_allocated_mb",
		Help: "Heap memory currently allocated.",
	})
	liveObjectsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hn_live_objects",
		Help: "Heap objects allocated and not yet freed.",
	})
)

func recordPerfStats() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// an interval of 0 compares against the previous call
	cpuUsage, err := cpu.Percent(0, false)
	if err == nil && len(cpuUsage) > 0 {
		cpuGauge.Set(cpuUsage[0])
	} else if err != nil {
		slog.Warn("failed to read cpu usage", "err", err)
	}

	memoryGauge.Set(float64(memStats.Alloc) / 1_000_000)
	liveObjectsGauge.Set(float64(memStats.Mallocs - memStats.Frees))
}

// InstrumentPerfStats samples process stats into the /metrics gauges until ctx
// is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		recordPerfStats()
		for {
			select {
			case <-ticker.C:
				recordPerfStats()
			case <-ctx.Done():
				return
			}
		}
	}()
}
