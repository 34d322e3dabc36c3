// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transactionrecord - ledger transaction records
//
// a record is a CREATE transaction notarising one user request: the
// asset identifies the user, the operation and when it happened; the
// metadata carries an opaque payload; the single output is locked to
// the public key of an ephemeral key pair which also signs the only
// input
package transactionrecord

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/consentsim/account"
	"github.com/bitmark-inc/consentsim/operation"
)

// fixed values for the transaction envelope
const (
	Version         = "2.0"
	CreateOperation = "CREATE"
	ConditionType   = "ed25519-sha-256"
	OutputAmount    = "1"

	// ISO-8601 with milliseconds, always UTC
	TimestampFormat = "2006-01-02T15:04:05.000Z"
)

// Asset - the immutable record being notarised
type Asset struct {
	UserID    string         `json:"user_id"`
	Operation operation.Type `json:"operation"`
	Timestamp string         `json:"timestamp"`
}

// AssetEnvelope - the ledger nests asset content under "data"
type AssetEnvelope struct {
	Data *Asset `json:"data"`
}

// Metadata - auxiliary payload, not part of the asset's identity
type Metadata struct {
	PayloadID string          `json:"payload_id"`
	Details   json.RawMessage `json:"details"`
}

// ConditionDetails - the key that can satisfy a condition
type ConditionDetails struct {
	Type      string           `json:"type"`
	PublicKey *account.Account `json:"public_key"`
}

// Condition - lock on an output
type Condition struct {
	Details ConditionDetails `json:"details"`
	URI     string           `json:"uri"`
}

// Output - a spendable result of the transaction
type Output struct {
	PublicKeys []*account.Account `json:"public_keys"`
	Amount     string             `json:"amount"`
	Condition  Condition          `json:"condition"`
}

// Link - reference to a previous output, always nil for CREATE
type Link struct {
	TransactionID string `json:"transaction_id"`
	OutputIndex   int    `json:"output_index"`
}

// Input - authorisation of the transaction by its owners
type Input struct {
	OwnersBefore []*account.Account `json:"owners_before"`
	Fulfills     *Link              `json:"fulfills"`
	Fulfillment  *string            `json:"fulfillment"`
}

// Transaction - the complete ledger transaction
type Transaction struct {
	ID        string        `json:"id"`
	Version   string        `json:"version"`
	Operation string        `json:"operation"`
	Asset     AssetEnvelope `json:"asset"`
	Metadata  *Metadata     `json:"metadata"`
	Inputs    []*Input      `json:"inputs"`
	Outputs   []*Output     `json:"outputs"`
}

// NewAsset - asset for a user request made at the given time
func NewAsset(userID string, op operation.Type, timestamp time.Time) *Asset {
	return &Asset{
		UserID:    userID,
		Operation: op,
		Timestamp: timestamp.UTC().Format(TimestampFormat),
	}
}

// NewMetadata - metadata holding the payload verbatim
func NewMetadata(payloadID string, details json.RawMessage) *Metadata {
	return &Metadata{
		PayloadID: payloadID,
		Details:   details,
	}
}

// NewCreate - an unsigned CREATE transaction whose sole output can only
// be spent by the owner
func NewCreate(asset *Asset, metadata *Metadata, owner *account.Account) *Transaction {
	return &Transaction{
		Version:   Version,
		Operation: CreateOperation,
		Asset: AssetEnvelope{
			Data: asset,
		},
		Metadata: metadata,
		Inputs: []*Input{
			{
				OwnersBefore: []*account.Account{owner},
				Fulfills:     nil,
				Fulfillment:  nil,
			},
		},
		Outputs: []*Output{
			{
				PublicKeys: []*account.Account{owner},
				Amount:     OutputAmount,
				Condition:  NewCondition(owner),
			},
		},
	}
}

// AssetData - convenience accessor, nil if the envelope is empty
func (tx *Transaction) AssetData() *Asset {
	return tx.Asset.Data
}

// IsSigned - true when every input carries a fulfillment
func (tx *Transaction) IsSigned() bool {
	if len(tx.Inputs) == 0 {
		return false
	}
	for _, input := range tx.Inputs {
		if input.Fulfillment == nil {
			return false
		}
	}
	return true
}
