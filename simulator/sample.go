// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bitmark-inc/consentsim/operation"
)

// Sample - outcome of one iteration
type Sample struct {
	Operation     operation.Type
	UserID        string
	Requests      int
	Latency       time.Duration
	TransactionID string
	Err           error
}

// Success - true if the ledger accepted the transaction
func (s Sample) Success() bool {
	return nil == s.Err
}

// LatencyMilliseconds - whole milliseconds, never negative
func (s Sample) LatencyMilliseconds() int64 {
	if s.Latency < 0 {
		return 0
	}
	return s.Latency.Milliseconds()
}

// String - the per iteration output line
func (s Sample) String() string {
	line := fmt.Sprintf("%s | user=%s | latency=%dms", s.Operation, printable(s.UserID), s.LatencyMilliseconds())
	if nil != s.Err {
		// keep the report on one line
		message := strings.Join(strings.Fields(s.Err.Error()), " ")
		line += " | error=" + printable(message)
	}
	return line
}

// control characters are shown as Go escapes
func printable(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}
