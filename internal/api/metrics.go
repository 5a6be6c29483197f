package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/talgya/hexworld/internal/world"
)

var (
	// pathQueries counts path queries by outcome.
	// Labels: "found", "unreachable", "blocked"
	pathQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexworld_path_queries_total",
		Help: "Path queries by outcome",
	}, []string{"result"})

	pathQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexworld_path_query_duration_seconds",
		Help:    "Path query duration",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	pathLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexworld_path_length_hexes",
		Help:    "Hexes per found path",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hexworld_rate_limited_total",
		Help: "Requests rejected by the per-IP limiter",
	})

	wsMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexworld_ws_messages_total",
		Help: "Websocket messages received by type",
	}, []string{"type"})

	generations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hexworld_generations_total",
		Help: "Maps generated",
	})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexworld_generation_duration_seconds",
		Help:    "Map generation duration",
		Buckets: []float64{0.001, 0.01, 0.1, 1, 10},
	})

	obstaclesCleared = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexworld_obstacles_cleared_total",
		Help: "Obstacles cleared during generation by step",
	}, []string{"step"})
)

// ObserveGeneration records the stats of one generated map.
func ObserveGeneration(stats world.GenStats) {
	generations.Inc()
	generationDuration.Observe(stats.Elapsed.Seconds())
	obstaclesCleared.WithLabelValues("link").Add(float64(stats.LinkCleared))
	obstaclesCleared.WithLabelValues("repair").Add(float64(stats.RepairCleared))
}

// observePath records one path query. The caller holds no locks.
func observePath(start time.Time, path []int, blocked bool) {
	pathQueryDuration.Observe(time.Since(start).Seconds())
	switch {
	case blocked:
		pathQueries.WithLabelValues("blocked").Inc()
	case len(path) == 0:
		pathQueries.WithLabelValues("unreachable").Inc()
	default:
		pathQueries.WithLabelValues("found").Inc()
		pathLength.Observe(float64(len(path)))
	}
}
