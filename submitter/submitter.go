// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package submitter - build, sign and commit one event transaction
package submitter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/keypair"
	"github.com/bitmark-inc/consentsim/ledger"
	"github.com/bitmark-inc/consentsim/operation"
	"github.com/bitmark-inc/consentsim/transactionrecord"
)

// Committer - the part of the ledger connection used to submit
type Committer interface {
	Commit(context.Context, *transactionrecord.Transaction) (*ledger.CommitResult, error)
}

// Submitter - turns user events into committed transactions
type Submitter struct {
	log       *logger.L
	committer Committer
	keys      keypair.Generator
	now       func() time.Time
	payloadID func() (string, error)
}

// Option - override one of the submitter's sources
type Option func(*Submitter)

// WithKeyGenerator - source of the per transaction key pairs
func WithKeyGenerator(generator keypair.Generator) Option {
	return func(s *Submitter) {
		s.keys = generator
	}
}

// WithClock - source of asset timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		s.now = now
	}
}

// WithPayloadID - source of metadata payload ids
func WithPayloadID(payloadID func() (string, error)) Option {
	return func(s *Submitter) {
		s.payloadID = payloadID
	}
}

// New - create a submitter committing through the shared connection
//
// log may be nil for one-shot command line use
func New(log *logger.L, committer Committer, options ...Option) *Submitter {
	s := &Submitter{
		log:       log,
		committer: committer,
		keys:      keypair.NewGenerator(nil),
		now:       time.Now,
		payloadID: newPayloadID,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func newPayloadID() (string, error) {
	id, err := uuid.NewRandom()
	if nil != err {
		return "", err
	}
	return id.String(), nil
}

// Submit - notarise one user event
//
// a fresh key pair signs the transaction and is erased afterwards; the
// call blocks until the ledger answers and nothing is retried
func (s *Submitter) Submit(ctx context.Context, userID string, op operation.Type, payload json.RawMessage) (*ledger.CommitResult, error) {
	if !op.Valid() {
		return nil, fault.InvalidOperation
	}

	keyPair, err := s.keys()
	if nil != err {
		return nil, fmt.Errorf("%s: %w", err, fault.InvalidPrivateKey)
	}
	defer keyPair.Erase()

	payloadID, err := s.payloadID()
	if nil != err {
		return nil, fmt.Errorf("%s: %w", err, fault.PayloadIdFailed)
	}

	asset := transactionrecord.NewAsset(userID, op, s.now())
	metadata := transactionrecord.NewMetadata(payloadID, payload)
	tx := transactionrecord.NewCreate(asset, metadata, keyPair.Account())

	err = tx.Sign(keyPair)
	if nil != err {
		if nil != s.log {
			s.log.Warnf("sign: user: %s  operation: %s  error: %s", userID, op, err)
		}
		return nil, err
	}

	if nil != s.log {
		s.log.Debugf("commit: %s  user: %s  operation: %s  payload: %s", tx.ID, userID, op, payloadID)
	}

	result, err := s.committer.Commit(ctx, tx)
	if nil != err {
		if nil != s.log {
			s.log.Infof("commit: %s  error: %s", tx.ID, err)
		}
		return nil, err
	}
	return result, nil
}
