package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExportsTotal counts finished spreadsheet exports by kind ("roster",
// "discussion").
var ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "canvasplus_exports_total",
	Help: "Number of completed spreadsheet exports.",
}, []string{"kind"})

// AvatarFetchFailures counts avatar images skipped during export
// because the fetch or decode failed.
var AvatarFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "canvasplus_avatar_fetch_failures_total",
	Help: "Number of avatar images skipped due to fetch or decode failures.",
})

// CacheHits and CacheMisses track roster cache effectiveness.
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasplus_cache_hits_total",
		Help: "Number of roster cache hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasplus_cache_misses_total",
		Help: "Number of roster cache misses.",
	})
)
