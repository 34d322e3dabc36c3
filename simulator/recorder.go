// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"
)

// Recorder - destination for samples
type Recorder interface {
	Record(Sample) error
	Flush() error
}

// CSVRecorder - writes samples as CSV rows with a header
type CSVRecorder struct {
	sync.Mutex
	writer        *csv.Writer
	headerWritten bool
}

// CSV column names
var csvHeader = []string{"operation", "requests", "latency_ms", "success"}

// NewCSVRecorder - record to the writer
//
// setting appending suppresses the header so several runs can share one
// file
func NewCSVRecorder(w io.Writer, appending bool) *CSVRecorder {
	return &CSVRecorder{
		writer:        csv.NewWriter(w),
		headerWritten: appending,
	}
}

// Record - add one row
func (r *CSVRecorder) Record(sample Sample) error {
	r.Lock()
	defer r.Unlock()

	if !r.headerWritten {
		err := r.writer.Write(csvHeader)
		if nil != err {
			return err
		}
		r.headerWritten = true
	}

	return r.writer.Write([]string{
		sample.Operation.String(),
		strconv.Itoa(sample.Requests),
		strconv.FormatInt(sample.LatencyMilliseconds(), 10),
		strconv.FormatBool(sample.Success()),
	})
}

// Flush - push buffered rows to the writer
func (r *CSVRecorder) Flush() error {
	r.Lock()
	defer r.Unlock()

	r.writer.Flush()
	return r.writer.Error()
}
