package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoreboard",
		Name:      "fetch_requests_total",
		Help:      "Requests made to the tournament API by endpoint kind and status.",
	}, []string{"kind", "status"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scoreboard",
		Name:      "fetch_duration_seconds",
		Help:      "Time until response headers from the tournament API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoreboard",
		Name:      "runs_total",
		Help:      "Scoreboard runs by result.",
	}, []string{"result"})

	lastRunPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "scoreboard",
		Name:      "last_run_players",
		Help:      "Number of players on the most recent scoreboard.",
	})
)
