// Package profiler tracks per-cycle timings and counters of the frame loop
// and reports them periodically.
package profiler

import (
	"context"
	"runtime"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MetricTracker keeps a rolling window of values for one custom metric.
type MetricTracker struct {
	values []float64
	sum    float64
	count  int64
}

// TimeTracker keeps a rolling window of durations for one operation.
type TimeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	count     int64
}

// MetricStats is a snapshot of a MetricTracker. Avg, Min and Max cover the
// rolling window; Count is the all-time number of samples.
type MetricStats struct {
	Avg, Min, Max float64
	Samples       int
	Count         int64
}

// OperationStats is a snapshot of a TimeTracker, windowed like MetricStats.
type OperationStats struct {
	Avg, Min, Max time.Duration
	Samples       int
	Count         int64
}

// ProfilingOptions configures the runtime profiler.
type ProfilingOptions struct {
	// ReportInterval specifies how often to emit status reports (default: 2s)
	ReportInterval time.Duration `json:"reportInterval" yaml:"reportInterval"`
	// MaxSamples specifies the rolling window size per metric (default: 600)
	MaxSamples int `json:"maxSamples" yaml:"maxSamples"`
}

// RuntimeProfiler records operation timings and custom metrics.
//
// All methods are safe for concurrent use, and a nil *RuntimeProfiler is a
// valid no-op profiler.
type RuntimeProfiler struct {
	reportInterval time.Duration
	maxSamples     int
	logger         zerolog.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	startTime time.Time
	running   bool

	customMetrics  map[string]*MetricTracker
	operationTimes map[string]*TimeTracker
}

// NewRuntimeProfiler creates a new runtime profiler with the specified options.
//
// Arguments:
// - opts: Configuration options for the profiler
// - logger: Destination of the periodic reports
//
// Returns:
// - A configured RuntimeProfiler instance
func NewRuntimeProfiler(opts ProfilingOptions, logger zerolog.Logger) *RuntimeProfiler {
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 2 * time.Second
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}

	return &RuntimeProfiler{
		reportInterval: opts.ReportInterval,
		maxSamples:     opts.MaxSamples,
		logger:         logger.With().Str("component", "profiler").Logger(),
		startTime:      time.Now(),
		customMetrics:  make(map[string]*MetricTracker),
		operationTimes: make(map[string]*TimeTracker),
	}
}

// Start begins emitting periodic reports. Calling it twice is a no-op, and a
// stopped profiler can be started again.
func (rp *RuntimeProfiler) Start() {
	if rp == nil {
		return
	}
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.running {
		return
	}

	rp.running = true
	rp.startTime = time.Now()
	ctx, cancel := context.WithCancel(context.Background())
	rp.cancel = cancel

	rp.wg.Add(1)
	go func() {
		defer rp.wg.Done()

		ticker := time.NewTicker(rp.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rp.Report()
			}
		}
	}()
}

// Stop stops reporting and waits for the reporter goroutine to exit.
func (rp *RuntimeProfiler) Stop() {
	if rp == nil {
		return
	}
	rp.mu.Lock()
	if !rp.running {
		rp.mu.Unlock()
		return
	}
	rp.running = false
	cancel := rp.cancel
	rp.mu.Unlock()

	cancel()
	rp.wg.Wait()
}

// RecordMetric records a custom metric value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (rp *RuntimeProfiler) RecordMetric(name string, value float64) {
	if rp == nil {
		return
	}
	rp.mu.Lock()
	defer rp.mu.Unlock()

	tracker, exists := rp.customMetrics[name]
	if !exists {
		tracker = &MetricTracker{values: make([]float64, 0, rp.maxSamples)}
		rp.customMetrics[name] = tracker
	}

	tracker.values = append(tracker.values, value)
	if len(tracker.values) > rp.maxSamples {
		tracker.sum -= tracker.values[0]
		tracker.values = tracker.values[1:]
	}

	tracker.sum += value
	tracker.count++
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (rp *RuntimeProfiler) StartOperation(name string) func() {
	if rp == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		rp.recordOperationTime(name, time.Since(start))
	}
}

func (rp *RuntimeProfiler) recordOperationTime(name string, duration time.Duration) {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	tracker, exists := rp.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{}
		rp.operationTimes[name] = tracker
	}

	tracker.durations = append(tracker.durations, duration)
	if len(tracker.durations) > rp.maxSamples {
		tracker.totalTime -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}

	tracker.totalTime += duration
	tracker.count++
}

// Metric returns a snapshot of a custom metric.
func (rp *RuntimeProfiler) Metric(name string) (MetricStats, bool) {
	if rp == nil {
		return MetricStats{}, false
	}
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	tracker, ok := rp.customMetrics[name]
	if !ok || len(tracker.values) == 0 {
		return MetricStats{}, false
	}
	return MetricStats{
		Avg:     tracker.sum / float64(len(tracker.values)),
		Min:     slices.Min(tracker.values),
		Max:     slices.Max(tracker.values),
		Samples: len(tracker.values),
		Count:   tracker.count,
	}, true
}

// Operation returns a snapshot of an operation's timings.
func (rp *RuntimeProfiler) Operation(name string) (OperationStats, bool) {
	if rp == nil {
		return OperationStats{}, false
	}
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	tracker, ok := rp.operationTimes[name]
	if !ok || len(tracker.durations) == 0 {
		return OperationStats{}, false
	}
	return OperationStats{
		Avg:     tracker.totalTime / time.Duration(len(tracker.durations)),
		Min:     slices.Min(tracker.durations),
		Max:     slices.Max(tracker.durations),
		Samples: len(tracker.durations),
		Count:   tracker.count,
	}, true
}

// Report logs one status report with memory use, metrics and timings.
func (rp *RuntimeProfiler) Report() {
	if rp == nil {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	rp.mu.RLock()
	metricNames := sortedKeys(rp.customMetrics)
	operationNames := sortedKeys(rp.operationTimes)
	uptime := time.Since(rp.startTime)
	rp.mu.RUnlock()

	rp.logger.Info().
		Dur("uptime", uptime.Truncate(time.Millisecond)).
		Int("goroutines", runtime.NumGoroutine()).
		Uint64("heap_alloc", mem.HeapAlloc).
		Uint32("gc_cycles", mem.NumGC).
		Msg("status report")

	for _, name := range metricNames {
		if s, ok := rp.Metric(name); ok {
			rp.logger.Info().Str("metric", name).
				Float64("avg", s.Avg).Float64("min", s.Min).Float64("max", s.Max).
				Int("samples", s.Samples).Msg("metric")
		}
	}
	for _, name := range operationNames {
		if s, ok := rp.Operation(name); ok {
			rp.logger.Info().Str("operation", name).
				Dur("avg", s.Avg.Truncate(time.Microsecond)).
				Dur("min", s.Min.Truncate(time.Microsecond)).
				Dur("max", s.Max.Truncate(time.Microsecond)).
				Int64("count", s.Count).Msg("timing")
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
