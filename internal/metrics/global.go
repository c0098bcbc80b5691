package metrics

import "sync"

var (
	globalCollector *Collector
	once            sync.Once
)

// Global returns the process-wide collector.
func Global() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// IncCounter increments a global counter by 1.
func IncCounter(name string) {
	Global().Counter(name).Inc()
}

// AddCounter adds n to a global counter.
func AddCounter(name string, n int64) {
	Global().Counter(name).Add(n)
}

// SetGauge sets a global gauge value.
func SetGauge(name string, v float64) {
	Global().Gauge(name).Set(v)
}

// StartTimer starts a measurement on a global timer.
func StartTimer(name string) *TimerContext {
	return Global().Timer(name).Start()
}

// Metric names for the memory index.
const (
	MetricAddsTotal          = "engram_adds_total"
	MetricSearchesTotal      = "engram_searches_total"
	MetricCacheHitsTotal     = "engram_cache_hits_total"
	MetricNodesPrunedTotal   = "engram_nodes_pruned_total"
	MetricIndexRebuildsTotal = "engram_index_rebuilds_total"
	MetricSearchDuration     = "engram_search_duration"
	MetricStoreSize          = "engram_store_size"
)
