// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics registers the store's Prometheus instruments on a
// registry the caller owns, the same way the teacher's cmd/dbmigrate and
// test-readonly-db construct a *prometheus.Registry and hand it to the
// database factory as the metrics gatherer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics is the full set of instruments the store updates.
type Metrics struct {
	PoolsWritten      prometheus.Counter
	PoolsSkipped      prometheus.Counter
	BalanceUpdateFail prometheus.Counter
	ChainLength       prometheus.Gauge
	QueryPages        prometheus.Counter
	QueryMatches      prometheus.Counter

	reg *prometheus.Registry
}

// New registers a fresh Metrics set on reg. reg may be nil, in which case
// a private registry is used — the instruments still work, they're
// simply not exposed anywhere.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		PoolsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csdb",
			Name:      "pools_written_total",
			Help:      "Pools successfully written via SetTransActions.",
		}),
		PoolsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csdb",
			Name:      "pools_skipped_total",
			Help:      "Pools skipped during startup scan due to corruption.",
		}),
		BalanceUpdateFail: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csdb",
			Name:      "balance_update_failures_total",
			Help:      "update_balances calls that failed (pool write still succeeded).",
		}),
		ChainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csdb",
			Name:      "chain_length",
			Help:      "Number of pools in the current terminal chain.",
		}),
		QueryPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csdb",
			Name:      "query_pages_total",
			Help:      "GetTransactions calls served.",
		}),
		QueryMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csdb",
			Name:      "query_matches_total",
			Help:      "Transactions matched and returned across all GetTransactions calls.",
		}),
	}

	reg.MustRegister(
		m.PoolsWritten,
		m.PoolsSkipped,
		m.BalanceUpdateFail,
		m.ChainLength,
		m.QueryPages,
		m.QueryMatches,
	)
	return m
}

// NewUnregistered builds a Metrics set registered only on a fresh private
// registry, for tests that only want to assert on counter values.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// CounterValue reads c's current value via its own Write method rather
// than testutil.ToFloat64, so tests can assert on a counter without
// pulling in the testutil subpackage for a single field read.
func CounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// GaugeValue reads g's current value the same way CounterValue does.
func GaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
