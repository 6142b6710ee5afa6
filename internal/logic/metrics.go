package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_result_cache_hits_total",
		Help: "Results served from the Redis cache",
	}, []string{"kind"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_result_cache_misses_total",
		Help: "Results computed because the cache had no entry",
	}, []string{"kind"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chess_cluster_pipeline_duration_seconds",
		Help:    "Duration of one clustering pipeline run",
		Buckets: prometheus.DefBuckets,
	})

	datasetReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chess_dataset_reloads_total",
		Help: "Times the match log was reloaded from ClickHouse",
	})

	datasetPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chess_dataset_players",
		Help: "Distinct players in the loaded match log",
	})
)
