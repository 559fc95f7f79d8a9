// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for ballots, uploads and HTTP
// traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors, registered on a private registry so several
// instances (one per test) can coexist.
type Metrics struct {
	registry        *prometheus.Registry
	ballotsTotal    *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	uploadsTotal    *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ballotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voting_ballots_total",
				Help: "Ballots accepted, by decision",
			},
			[]string{"decision"},
		),
		rejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voting_ballot_rejections_total",
				Help: "Cast attempts that did not record a ballot, by reason",
			},
			[]string{"reason"},
		),
		uploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voting_uploads_total",
				Help: "Household and topic uploads, by kind and result",
			},
			[]string{"kind", "result"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voting_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voting_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}
}

// RecordBallot counts an accepted ballot
func (m *Metrics) RecordBallot(decision string) {
	m.ballotsTotal.WithLabelValues(decision).Inc()
}

// RecordRejection counts a cast that was refused or already voted
func (m *Metrics) RecordRejection(reason string) {
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordUpload counts an upload; kind is "households" or "topics"
func (m *Metrics) RecordUpload(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.uploadsTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
