package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	cpuGauge       metric.Float64Gauge
	rssGauge       metric.Int64Gauge
	allocatedGauge metric.Int64Gauge
	goroutineGauge metric.Int64Gauge
)

func init() {
	meter := otel.Meter("bgg.perf_stats")
	var errs [4]error
	cpuGauge, errs[0] = meter.Float64Gauge("cpu_usage")
	rssGauge, errs[1] = meter.Int64Gauge("rss_mb")
	allocatedGauge, errs[2] = meter.Int64Gauge("allocated_mb")
	goroutineGauge, errs[3] = meter.Int64Gauge("goroutine_count")
	if err := errors.Join(errs[:]...); err != nil {
		panic(err)
	}
}

// InstrumentPerfStats records process gauges every interval until ctx is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		slog.Warn("perf stats: could not inspect own process", "err", err)
		proc = nil
	}

	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				usage, err := cpu.PercentWithContext(ctx, 0, false)
				if err == nil && len(usage) > 0 {
					cpuGauge.Record(ctx, usage[0])
				} else if err != nil {
					slog.Debug("perf stats: read cpu usage", "err", err)
				}
				if proc != nil {
					mem, err := proc.MemoryInfoWithContext(ctx)
					if err == nil {
						rssGauge.Record(ctx, int64(mem.RSS/1_000_000))
					}
				}

				allocatedGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
