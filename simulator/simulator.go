// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package simulator - the event loop
//
// each iteration picks a user and an operation, submits a transaction
// and writes exactly one latency line; iterations run one at a time and
// failures never stop the loop
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/ledger"
	"github.com/bitmark-inc/consentsim/operation"
	"github.com/bitmark-inc/consentsim/users"
)

// DefaultIterations - length of a run with no configuration
const DefaultIterations = 100

// Submitter - commits one user event
type Submitter interface {
	Submit(ctx context.Context, userID string, op operation.Type, payload json.RawMessage) (*ledger.CommitResult, error)
}

// Simulator - drives a sequence of submissions
type Simulator struct {
	log       *logger.L
	users     []users.Record
	submitter Submitter
	rng       *rand.Rand
	output    io.Writer
	limiter   *rate.Limiter
	recorder  Recorder
	now       func() time.Time
}

// Option - optional simulator setting
type Option func(*Simulator)

// WithRate - limit submissions per second, zero means unlimited
func WithRate(perSecond float64) Option {
	return func(sim *Simulator) {
		if perSecond > 0 {
			sim.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithRecorder - also send every sample to the recorder
func WithRecorder(recorder Recorder) Option {
	return func(sim *Simulator) {
		sim.recorder = recorder
	}
}

// WithClock - time source for latency measurement
func WithClock(now func() time.Time) Option {
	return func(sim *Simulator) {
		sim.now = now
	}
}

// New - create a simulator over a loaded user list
//
// log, submitter and output are required; rng may be nil
func New(log *logger.L, records []users.Record, submitter Submitter, rng *rand.Rand, output io.Writer, options ...Option) (*Simulator, error) {
	if nil == log || nil == submitter || nil == output {
		return nil, fault.MissingParameter
	}
	if 0 == len(records) {
		return nil, fault.EmptyUserList
	}
	if nil == rng {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sim := &Simulator{
		log:       log,
		users:     records,
		submitter: submitter,
		rng:       rng,
		output:    output,
		now:       time.Now,
	}
	for _, option := range options {
		option(sim)
	}
	return sim, nil
}

// Run - perform the iterations in order, stopping early only when the
// context is cancelled
func (sim *Simulator) Run(ctx context.Context, iterations int) (*Summary, error) {
	if iterations <= 0 {
		return nil, fault.InvalidIterations
	}

	sim.log.Infof("run: %d iterations over %d users", iterations, len(sim.users))

	summary := newSummary(iterations)
	start := sim.now()

loop:
	for i := 0; i < iterations; i++ {
		if nil != ctx.Err() {
			break loop
		}
		if nil != sim.limiter {
			err := sim.limiter.Wait(ctx)
			if nil != err {
				break loop
			}
		}

		sample := sim.iterate(ctx, iterations)
		summary.add(sample)

		_, err := fmt.Fprintln(sim.output, sample.String())
		if nil != err {
			sim.log.Errorf("output error: %s", err)
		}
		if nil != sim.recorder {
			err := sim.recorder.Record(sample)
			if nil != err {
				sim.log.Errorf("record error: %s", err)
			}
		}
	}

	summary.Elapsed = sim.now().Sub(start)
	summary.finish()

	if nil != sim.recorder {
		err := sim.recorder.Flush()
		if nil != err {
			sim.log.Errorf("record flush error: %s", err)
		}
	}

	sim.log.Infof("run: completed %d of %d in %s", summary.Completed, iterations, summary.Elapsed)

	if summary.Completed < iterations {
		return summary, ctx.Err()
	}
	return summary, nil
}

// one submission
func (sim *Simulator) iterate(ctx context.Context, requests int) Sample {
	user := sim.users[sim.rng.Intn(len(sim.users))]
	op := operation.All[sim.rng.Intn(len(operation.All))]

	start := sim.now()
	result, err := sim.submitter.Submit(ctx, user.UserID, op, user.Consent)
	latency := sim.now().Sub(start)
	if latency < 0 {
		latency = 0
	}

	sample := Sample{
		Operation: op,
		UserID:    user.UserID,
		Requests:  requests,
		Latency:   latency,
		Err:       err,
	}
	if nil == err {
		sample.TransactionID = result.TransactionID
		sim.log.Debugf("%s  user: %s  tx: %s  latency: %s", op, user.UserID, result.TransactionID, latency)
	} else {
		sim.log.Warnf("%s  user: %s  latency: %s  error: %s", op, user.UserID, latency, err)
	}
	return sample
}
