package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smalldoc_parse_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smalldoc_build_seconds",
		Help:    "Time spent building a complete documentation tree.",
		Buckets: prometheus.DefBuckets,
	})

	UnitsBuiltTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalldoc_units_built_total",
		Help: "Total number of units (root and sub-units) turned into documentation nodes.",
	})

	SymbolsDocumentedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smalldoc_symbols_documented_total",
		Help: "Total number of documented symbols by kind.",
	}, []string{"kind"})

	LoadFaultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalldoc_load_faults_total",
		Help: "Total number of builds aborted by a unit load fault.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalldoc_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smalldoc_rebuilds_total",
		Help: "Total number of watch-mode rebuilds by outcome.",
	}, []string{"outcome"})
)
