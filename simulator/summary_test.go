// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consentsim/operation"
)

func TestSummaryStatistics(t *testing.T) {
	s := newSummary(100)
	for i := 1; i <= 100; i++ {
		sample := Sample{
			Operation: operation.Access,
			UserID:    "u1",
			Latency:   time.Duration(i) * time.Millisecond,
		}
		if 0 == i%10 {
			sample.Err = errors.New("refused")
		}
		s.add(sample)
	}
	s.finish()

	stats := s.Operations[operation.Access]
	assert.Equal(t, 100, stats.Count, "count")
	assert.Equal(t, 10, stats.Failures, "failures")
	assert.Equal(t, 1*time.Millisecond, stats.Minimum, "minimum")
	assert.Equal(t, 100*time.Millisecond, stats.Maximum, "maximum")
	assert.Equal(t, 50500*time.Microsecond, stats.Mean, "mean")
	assert.Equal(t, 95*time.Millisecond, stats.P95, "p95")

	assert.Equal(t, 0, s.Operations[operation.Consent].Count, "unused operation")
	assert.Equal(t, time.Duration(0), s.Operations[operation.Consent].P95, "unused p95")
}

func TestSummaryPrint(t *testing.T) {
	s := newSummary(1)
	s.add(Sample{Operation: operation.RTBF, Latency: 7 * time.Millisecond})
	s.Elapsed = 2 * time.Second
	s.finish()

	buffer := &bytes.Buffer{}
	s.Print(buffer)
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	assert.Equal(t, 2+1+len(operation.All), len(lines), "lines")
	assert.True(t, strings.HasPrefix(lines[0], "total:        1"), "total: %q", lines[0])
	assert.Equal(t, "rate:         0.5 requests/second", lines[1], "rate")
	assert.True(t, strings.HasPrefix(lines[5], "RTBF "), "last row: %q", lines[5])
}

func TestSampleLine(t *testing.T) {
	s := Sample{
		Operation: operation.Consent,
		UserID:    "u9",
		Latency:   1500 * time.Microsecond,
	}
	assert.Equal(t, "CONSENT | user=u9 | latency=1ms", s.String(), "success")

	s.Err = errors.New("502 bad\ngateway")
	assert.Equal(t, "CONSENT | user=u9 | latency=1ms | error=502 bad gateway", s.String(), "failure")

	s.Latency = -time.Second
	assert.Equal(t, int64(0), s.LatencyMilliseconds(), "negative latency")

	s = Sample{
		Operation: operation.RTBF,
		UserID:    "a\r\nb\tc",
		Err:       errors.New("bad\x00byte"),
	}
	assert.Equal(t, `RTBF | user=a\r\nb\tc | latency=0ms | error=bad\x00byte`, s.String(), "control characters")
	assert.NotContains(t, s.String(), "\n", "single line")
}

func TestCSVRecorder(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := NewCSVRecorder(buffer, false)

	assert.Nil(t, r.Record(Sample{Operation: operation.Consent, Requests: 100, Latency: 12 * time.Millisecond}), "first")
	assert.Nil(t, r.Record(Sample{Operation: operation.RTBF, Requests: 100, Latency: 3 * time.Millisecond, Err: errors.New("x")}), "second")
	assert.Nil(t, r.Flush(), "flush")

	expected := "operation,requests,latency_ms,success\n" +
		"CONSENT,100,12,true\n" +
		"RTBF,100,3,false\n"
	assert.Equal(t, expected, buffer.String(), "csv")

	buffer.Reset()
	r = NewCSVRecorder(buffer, true)
	assert.Nil(t, r.Record(Sample{Operation: operation.Access, Requests: 5}), "append")
	assert.Nil(t, r.Flush(), "flush")
	assert.Equal(t, "ACCESS,5,0,true\n", buffer.String(), "no header when appending")
}
