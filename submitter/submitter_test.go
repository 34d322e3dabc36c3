// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submitter_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/fixtures"
	"github.com/bitmark-inc/consentsim/keypair"
	"github.com/bitmark-inc/consentsim/ledger"
	"github.com/bitmark-inc/consentsim/operation"
	"github.com/bitmark-inc/consentsim/submitter"
	"github.com/bitmark-inc/consentsim/submitter/mocks"
	"github.com/bitmark-inc/consentsim/transactionrecord"
)

func TestSubmitBuildsSignedTransaction(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	now := time.Date(2025, 1, 2, 3, 4, 5, 6000000, time.UTC)
	payload := json.RawMessage(`{"sharing":true}`)

	var committed *transactionrecord.Transaction
	c := mocks.NewMockCommitter(ctl)
	c.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *transactionrecord.Transaction) (*ledger.CommitResult, error) {
			committed = tx
			return &ledger.CommitResult{TransactionID: tx.ID, StatusCode: 202}, nil
		},
	).Times(1)

	s := submitter.New(
		logger.New(fixtures.LogCategory),
		c,
		submitter.WithClock(func() time.Time { return now }),
		submitter.WithPayloadID(func() (string, error) { return "payload-1", nil }),
	)

	result, err := s.Submit(context.Background(), "u7", operation.Consent, payload)
	assert.Nil(t, err, "submit")
	assert.Equal(t, committed.ID, result.TransactionID, "result id")

	asset := committed.AssetData()
	assert.Equal(t, "u7", asset.UserID, "user id")
	assert.Equal(t, operation.Consent, asset.Operation, "operation")
	assert.Equal(t, "2025-01-02T03:04:05.006Z", asset.Timestamp, "timestamp")
	assert.Equal(t, "payload-1", committed.Metadata.PayloadID, "payload id")
	assert.Equal(t, payload, committed.Metadata.Details, "payload")
	assert.Nil(t, committed.Verify(), "verify")
}

func TestSubmitUniqueKeysAndPayloads(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	const n = 50

	keys := make(map[string]struct{})
	payloads := make(map[string]struct{})
	c := mocks.NewMockCommitter(ctl)
	c.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *transactionrecord.Transaction) (*ledger.CommitResult, error) {
			keys[tx.Inputs[0].OwnersBefore[0].String()] = struct{}{}
			payloads[tx.Metadata.PayloadID] = struct{}{}
			return &ledger.CommitResult{TransactionID: tx.ID, StatusCode: 202}, nil
		},
	).Times(n)

	s := submitter.New(logger.New(fixtures.LogCategory), c)
	for i := 0; i < n; i++ {
		_, err := s.Submit(context.Background(), "u1", operation.All[i%len(operation.All)], json.RawMessage(`true`))
		assert.Nil(t, err, "submit: %d", i)
	}

	assert.Equal(t, n, len(keys), "distinct key pairs")
	assert.Equal(t, n, len(payloads), "distinct payload ids")
}

func TestSubmitPropagatesCommitError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	c := mocks.NewMockCommitter(ctl)
	c.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil, fault.CommitRejected).Times(1)

	s := submitter.New(logger.New(fixtures.LogCategory), c)
	_, err := s.Submit(context.Background(), "u1", operation.Access, json.RawMessage(`true`))
	assert.Equal(t, fault.CommitRejected, err, "rejected")
}

func TestSubmitSigningFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no commit may happen
	c := mocks.NewMockCommitter(ctl)

	broken := func() (*keypair.KeyPair, error) {
		kp, err := keypair.New(nil)
		if nil != err {
			return nil, err
		}
		kp.PrivateKey = kp.PrivateKey[:10]
		return kp, nil
	}
	s := submitter.New(logger.New(fixtures.LogCategory), c, submitter.WithKeyGenerator(broken))
	_, err := s.Submit(context.Background(), "u1", operation.RTBF, json.RawMessage(`true`))
	assert.True(t, fault.IsErrSigning(err), "signing error: %v", err)

	failing := func() (*keypair.KeyPair, error) {
		return nil, errors.New("entropy exhausted")
	}
	s = submitter.New(logger.New(fixtures.LogCategory), c, submitter.WithKeyGenerator(failing))
	_, err = s.Submit(context.Background(), "u1", operation.RTBF, json.RawMessage(`true`))
	assert.True(t, fault.IsErrSigning(err), "generator error: %v", err)
}

func TestSubmitPayloadIdFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no commit may happen
	c := mocks.NewMockCommitter(ctl)

	s := submitter.New(logger.New(fixtures.LogCategory), c,
		submitter.WithPayloadID(func() (string, error) { return "", errors.New("no randomness") }),
	)
	_, err := s.Submit(context.Background(), "u1", operation.Consent, json.RawMessage(`true`))
	assert.True(t, errors.Is(err, fault.PayloadIdFailed), "payload id error: %v", err)
	assert.True(t, fault.IsErrProcess(err), "process class: %v", err)
	assert.Contains(t, err.Error(), "no randomness", "cause kept")
}

func TestSubmitInvalidOperation(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := submitter.New(logger.New(fixtures.LogCategory), mocks.NewMockCommitter(ctl))
	_, err := s.Submit(context.Background(), "u1", operation.Invalid, json.RawMessage(`true`))
	assert.Equal(t, fault.InvalidOperation, err, "invalid operation")
}
