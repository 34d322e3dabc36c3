// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bitmark-inc/consentsim/operation"
)

// Statistics - latency figures for one operation
type Statistics struct {
	Count    int
	Failures int
	Minimum  time.Duration
	Mean     time.Duration
	Maximum  time.Duration
	P95      time.Duration

	latencies []time.Duration
}

// Summary - totals for a run
type Summary struct {
	Iterations int
	Completed  int
	Failures   int
	Elapsed    time.Duration
	Operations map[operation.Type]*Statistics
}

func newSummary(iterations int) *Summary {
	s := &Summary{
		Iterations: iterations,
		Operations: make(map[operation.Type]*Statistics),
	}
	for _, op := range operation.All {
		s.Operations[op] = &Statistics{}
	}
	return s
}

func (s *Summary) add(sample Sample) {
	s.Completed += 1
	stats := s.Operations[sample.Operation]
	stats.Count += 1
	if !sample.Success() {
		s.Failures += 1
		stats.Failures += 1
	}
	stats.latencies = append(stats.latencies, sample.Latency)
}

// compute the latency figures once all samples are in
func (s *Summary) finish() {
	for _, stats := range s.Operations {
		n := len(stats.latencies)
		if 0 == n {
			continue
		}
		sort.Slice(stats.latencies, func(i, j int) bool {
			return stats.latencies[i] < stats.latencies[j]
		})

		total := time.Duration(0)
		for _, l := range stats.latencies {
			total += l
		}
		stats.Minimum = stats.latencies[0]
		stats.Maximum = stats.latencies[n-1]
		stats.Mean = total / time.Duration(n)

		// nearest rank
		rank := (95*n + 99) / 100
		stats.P95 = stats.latencies[rank-1]
		stats.latencies = nil
	}
}

// Rate - completed iterations per second
func (s *Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Completed) / s.Elapsed.Seconds()
}

// Print - tabulate the summary
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "total: %8d   requests in: %7.1f seconds   failures: %d\n", s.Completed, s.Elapsed.Seconds(), s.Failures)
	fmt.Fprintf(w, "rate:  %10.1f requests/second\n", s.Rate())
	fmt.Fprintf(w, "%-8s %8s %8s %10s %10s %10s %10s\n", "op", "count", "failed", "min ms", "mean ms", "max ms", "p95 ms")
	for _, op := range operation.All {
		stats := s.Operations[op]
		fmt.Fprintf(w, "%-8s %8d %8d %10d %10d %10d %10d\n",
			op,
			stats.Count,
			stats.Failures,
			stats.Minimum.Milliseconds(),
			stats.Mean.Milliseconds(),
			stats.Maximum.Milliseconds(),
			stats.P95.Milliseconds(),
		)
	}
}
