// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/fixtures"
	"github.com/bitmark-inc/consentsim/ledger"
	"github.com/bitmark-inc/consentsim/operation"
	"github.com/bitmark-inc/consentsim/simulator"
	"github.com/bitmark-inc/consentsim/simulator/mocks"
	"github.com/bitmark-inc/consentsim/users"
)

var (
	successLine = regexp.MustCompile(`^(CONSENT|ACCESS|RTBF) \| user=(\S+) \| latency=(\d+)ms$`)
	failureLine = regexp.MustCompile(`^(CONSENT|ACCESS|RTBF) \| user=(\S+) \| latency=(\d+)ms \| error=.+$`)
)

func loadUsers(t *testing.T, data string) []users.Record {
	records, err := users.Parse([]byte(data))
	if nil != err {
		t.Fatalf("users error: %s", err)
	}
	return records
}

func outputLines(buffer *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buffer.String(), "\n"), "\n")
}

func TestRunAllAccepted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&ledger.CommitResult{TransactionID: "tx", StatusCode: 202}, nil,
	).Times(simulator.DefaultIterations)

	buffer := &bytes.Buffer{}
	sim, err := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(1)), buffer)
	assert.Nil(t, err, "new")

	summary, err := sim.Run(context.Background(), simulator.DefaultIterations)
	assert.Nil(t, err, "run")
	assert.Equal(t, simulator.DefaultIterations, summary.Completed, "completed")
	assert.Equal(t, 0, summary.Failures, "failures")

	lines := outputLines(buffer)
	assert.Equal(t, simulator.DefaultIterations, len(lines), "one line per iteration")
	for i, line := range lines {
		assert.True(t, successLine.MatchString(line), "line: %d  %q", i, line)
	}

	total := 0
	for _, op := range operation.All {
		total += summary.Operations[op].Count
	}
	assert.Equal(t, simulator.DefaultIterations, total, "per operation counts")
}

func TestRunAllRejected(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		nil, fault.CommitRejected,
	).Times(simulator.DefaultIterations)

	buffer := &bytes.Buffer{}
	sim, err := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(2)), buffer)
	assert.Nil(t, err, "new")

	summary, err := sim.Run(context.Background(), simulator.DefaultIterations)
	assert.Nil(t, err, "run")
	assert.Equal(t, simulator.DefaultIterations, summary.Failures, "failures")

	lines := outputLines(buffer)
	assert.Equal(t, simulator.DefaultIterations, len(lines), "one line per iteration")
	for i, line := range lines {
		assert.True(t, failureLine.MatchString(line), "line: %d  %q", i, line)
		assert.True(t, strings.HasSuffix(line, "error="+fault.CommitRejected.Error()), "line: %d  %q", i, line)
	}
}

func TestRunSingleUser(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), "u1", gomock.Any(), json.RawMessage(`true`)).Return(
		&ledger.CommitResult{TransactionID: "tx", StatusCode: 202}, nil,
	).Times(20)

	buffer := &bytes.Buffer{}
	sim, err := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.SingleUser), s, rand.New(rand.NewSource(3)), buffer)
	assert.Nil(t, err, "new")

	_, err = sim.Run(context.Background(), 20)
	assert.Nil(t, err, "run")

	for i, line := range outputLines(buffer) {
		assert.Equal(t, "u1", successLine.FindStringSubmatch(line)[2], "line: %d", i)
	}
}

func TestRunControlCharactersInUserId(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), "a\nb", gomock.Any(), gomock.Any()).Return(
		nil, errors.New("line one\nline two\x1b"),
	).Times(3)

	buffer := &bytes.Buffer{}
	records := loadUsers(t, `[{"user_id":"a\nb","consent":true}]`)
	sim, err := simulator.New(logger.New(fixtures.LogCategory), records, s, rand.New(rand.NewSource(8)), buffer)
	assert.Nil(t, err, "new")

	_, err = sim.Run(context.Background(), 3)
	assert.Nil(t, err, "run")

	lines := outputLines(buffer)
	assert.Equal(t, 3, len(lines), "one line per iteration")
	for i, line := range lines {
		assert.True(t, failureLine.MatchString(line), "line: %d  %q", i, line)
		assert.Contains(t, line, `user=a\nb |`, "line: %d  escaped user", i)
		assert.True(t, strings.HasSuffix(line, `error=line one line two\x1b`), "line: %d  %q", i, line)
	}
}

func TestRunSeededSequenceRepeats(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	type call struct {
		user string
		op   operation.Type
	}
	record := func(calls *[]call) func(context.Context, string, operation.Type, json.RawMessage) (*ledger.CommitResult, error) {
		return func(_ context.Context, user string, op operation.Type, _ json.RawMessage) (*ledger.CommitResult, error) {
			*calls = append(*calls, call{user, op})
			return &ledger.CommitResult{TransactionID: "tx", StatusCode: 202}, nil
		}
	}

	var first, second []call
	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(record(&first)).Times(30)
	sim, _ := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(99)), &bytes.Buffer{})
	_, err := sim.Run(context.Background(), 30)
	assert.Nil(t, err, "first run")

	s = mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(record(&second)).Times(30)
	sim, _ = simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(99)), &bytes.Buffer{})
	_, err = sim.Run(context.Background(), 30)
	assert.Nil(t, err, "second run")

	assert.Equal(t, first, second, "same seed same sequence")
}

func TestRunCancelled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	count := 0
	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, operation.Type, json.RawMessage) (*ledger.CommitResult, error) {
			count += 1
			if 5 == count {
				cancel()
			}
			return &ledger.CommitResult{TransactionID: "tx", StatusCode: 202}, nil
		},
	).Times(5)

	buffer := &bytes.Buffer{}
	sim, _ := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(4)), buffer)
	summary, err := sim.Run(ctx, 100)
	assert.Equal(t, context.Canceled, err, "cancelled")
	assert.Equal(t, 5, summary.Completed, "completed before cancel")
	assert.Equal(t, 5, len(outputLines(buffer)), "lines")
}

func TestRunRecorder(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&ledger.CommitResult{TransactionID: "tx", StatusCode: 202}, nil,
	).Times(10)

	r := mocks.NewMockRecorder(ctl)
	r.EXPECT().Record(gomock.Any()).Return(nil).Times(10)
	r.EXPECT().Flush().Return(nil).Times(1)

	sim, _ := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(5)), &bytes.Buffer{}, simulator.WithRecorder(r))
	_, err := sim.Run(context.Background(), 10)
	assert.Nil(t, err, "run")
}

func TestRunRateLimited(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)
	s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&ledger.CommitResult{TransactionID: "tx", StatusCode: 202}, nil,
	).Times(4)

	sim, _ := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, rand.New(rand.NewSource(6)), &bytes.Buffer{}, simulator.WithRate(20))
	start := time.Now()
	_, err := sim.Run(context.Background(), 4)
	assert.Nil(t, err, "run")
	assert.True(t, time.Since(start) >= 140*time.Millisecond, "paced")
}

func TestInvalidArguments(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockSubmitter(ctl)

	_, err := simulator.New(logger.New(fixtures.LogCategory), nil, s, nil, &bytes.Buffer{})
	assert.Equal(t, fault.EmptyUserList, err, "no users")

	_, err = simulator.New(nil, loadUsers(t, fixtures.Users), s, nil, &bytes.Buffer{})
	assert.Equal(t, fault.MissingParameter, err, "no logger")

	_, err = simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), nil, nil, &bytes.Buffer{})
	assert.Equal(t, fault.MissingParameter, err, "no submitter")

	_, err = simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, nil, nil)
	assert.Equal(t, fault.MissingParameter, err, "no output")

	sim, _ := simulator.New(logger.New(fixtures.LogCategory), loadUsers(t, fixtures.Users), s, nil, &bytes.Buffer{})
	_, err = sim.Run(context.Background(), 0)
	assert.Equal(t, fault.InvalidIterations, err, "zero iterations")
}
