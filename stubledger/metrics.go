// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stubledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - counters exposed on /metrics
type Metrics struct {
	Committed      *prometheus.CounterVec
	Rejected       *prometheus.CounterVec
	PersonalData   *prometheus.CounterVec
	CommitDuration prometheus.Histogram
}

func newMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		Committed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stub_ledger_transactions_committed_total",
			Help: "Transactions stored, by asset operation",
		}, []string{"operation"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stub_ledger_transactions_rejected_total",
			Help: "Transactions refused, by reason",
		}, []string{"reason"}),
		PersonalData: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stub_ledger_personal_data_total",
			Help: "Personal data updates, reads and erasures, by operation and result",
		}, []string{"operation", "result"}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stub_ledger_commit_duration_seconds",
			Help:    "Time to verify and store a transaction, including any configured delay",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) observeCommit(start time.Time) {
	m.CommitDuration.Observe(time.Since(start).Seconds())
}
