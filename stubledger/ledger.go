// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package stubledger - a minimal ledger service
//
// accepts CREATE transactions over HTTP, verifies their signatures and
// ids, refuses duplicates and stores them; there is no consensus and a
// commit is final as soon as it is written.
//
// Beside the immutable log the service keeps each user's mutable
// personal data in a gdpr.Vault: a committed CONSENT event updates it,
// ACCESS reads it and RTBF shreds it.
package stubledger

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/gdpr"
	"github.com/bitmark-inc/consentsim/operation"
	"github.com/bitmark-inc/consentsim/storage"
	"github.com/bitmark-inc/consentsim/transactionrecord"
)

// Options - behaviour switches
type Options struct {
	// added before every commit is answered
	CommitDelay time.Duration

	// refuse every commit, for exercising failure paths
	RejectAll bool

	// reported by the root document
	Version string
}

// Ledger - verified transaction store
type Ledger struct {
	sync.Mutex
	log      *logger.L
	store    *storage.Store
	vault    *gdpr.Vault
	options  Options
	registry *prometheus.Registry
	metrics  *Metrics
	started  time.Time
}

// separates user id from transaction id in index keys
const indexSeparator = 0x00

// New - create a ledger over an open store
func New(log *logger.L, store *storage.Store, options Options) *Ledger {
	registry := prometheus.NewRegistry()
	return &Ledger{
		log:      log,
		store:    store,
		vault:    gdpr.New(log, store, nil),
		options:  options,
		registry: registry,
		metrics:  newMetrics(registry),
		started:  time.Now(),
	}
}

// Commit - verify and store a packed transaction
func (l *Ledger) Commit(packed transactionrecord.Packed) (*transactionrecord.Transaction, error) {
	if l.options.RejectAll {
		l.metrics.Rejected.WithLabelValues("reject_all").Inc()
		return nil, fault.CommitRejected
	}

	tx, err := packed.Unpack()
	if nil != err {
		l.metrics.Rejected.WithLabelValues("malformed").Inc()
		return nil, err
	}

	err = tx.Verify()
	if nil != err {
		l.metrics.Rejected.WithLabelValues("invalid").Inc()
		l.log.Infof("reject: %s  error: %s", tx.ID, err)
		return nil, err
	}

	asset := tx.AssetData()
	if 0 == len(asset.UserID) || containsSeparator(asset.UserID) {
		l.metrics.Rejected.WithLabelValues("invalid").Inc()
		return nil, fault.InvalidUserId
	}

	// store the canonical form, not whatever was sent
	canonical, err := tx.Pack()
	if nil != err {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()

	found, err := l.store.Pool.Transactions.Has([]byte(tx.ID))
	if nil != err {
		return nil, err
	}
	if found {
		l.metrics.Rejected.WithLabelValues("duplicate").Inc()
		return nil, fault.DuplicateTransaction
	}

	batch := l.store.NewBatch()
	batch.Put(l.store.Pool.Transactions, []byte(tx.ID), canonical)
	batch.Put(l.store.Pool.UserIndex, indexKey(asset.UserID, tx.ID), []byte(asset.Operation.String()))
	err = batch.Commit()
	if nil != err {
		l.log.Errorf("store: %s  error: %s", tx.ID, err)
		return nil, err
	}

	l.metrics.Committed.WithLabelValues(asset.Operation.String()).Inc()
	l.log.Debugf("committed: %s  user: %s  operation: %s", tx.ID, asset.UserID, asset.Operation)

	l.applyPersonalData(tx)
	return tx, nil
}

// Vault - the personal data held beside the ledger
func (l *Ledger) Vault() *gdpr.Vault {
	return l.vault
}

// carry a committed event through to the mutable personal data
//
// the ledger entry is already final so failures are only logged
func (l *Ledger) applyPersonalData(tx *transactionrecord.Transaction) {
	asset := tx.AssetData()

	var err error
	switch asset.Operation {
	case operation.Consent:
		var details []byte
		if nil != tx.Metadata {
			details = tx.Metadata.Details
		}
		err = l.vault.SetConsent(asset.UserID, details)
	case operation.Access:
		_, err = l.vault.Access(asset.UserID)
	case operation.RTBF:
		err = l.vault.Forget(asset.UserID)
	}

	result := "ok"
	if fault.IsErrNotFound(err) {
		result = "not_found"
	} else if errors.Is(err, fault.UserDataCorrupt) {
		result = "error"
		fault.Criticalf("personal data: %s  user: %s  operation: %s  corrupt record", tx.ID, asset.UserID, asset.Operation)
	} else if nil != err {
		result = "error"
		l.log.Warnf("personal data: %s  user: %s  operation: %s  error: %s", tx.ID, asset.UserID, asset.Operation, err)
	}
	l.metrics.PersonalData.WithLabelValues(asset.Operation.String(), result).Inc()
}

// Transaction - fetch a stored transaction in packed form
func (l *Ledger) Transaction(id string) (transactionrecord.Packed, error) {
	value, err := l.store.Pool.Transactions.Get([]byte(id))
	if nil != err {
		return nil, err
	}
	if nil == value {
		return nil, fault.TransactionNotFound
	}
	return value, nil
}

// UserTransactions - ids of all transactions recorded for a user
func (l *Ledger) UserTransactions(userID string) ([]string, error) {
	ids := []string{}
	if containsSeparator(userID) {
		return ids, nil
	}
	prefix := append([]byte(userID), indexSeparator)
	err := l.store.Pool.UserIndex.NewPrefixCursor(prefix).Map(func(key []byte, value []byte) error {
		ids = append(ids, string(key[len(prefix):]))
		return nil
	})
	return ids, err
}

func indexKey(userID string, txID string) []byte {
	key := make([]byte, 0, len(userID)+1+len(txID))
	key = append(key, userID...)
	key = append(key, indexSeparator)
	return append(key, txID...)
}

func containsSeparator(s string) bool {
	return strings.IndexByte(s, indexSeparator) >= 0
}
