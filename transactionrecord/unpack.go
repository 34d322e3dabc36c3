// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"bytes"
	"encoding/json"

	"github.com/bitmark-inc/consentsim/fault"
)

// Unpack - decode a packed transaction, does not verify it
func (record Packed) Unpack() (*Transaction, error) {
	decoder := json.NewDecoder(bytes.NewReader(record))
	decoder.DisallowUnknownFields()

	tx := &Transaction{}
	err := decoder.Decode(tx)
	if err != nil {
		return nil, fault.MalformedTransaction
	}
	if tx.Asset.Data == nil {
		return nil, fault.MalformedTransaction
	}
	return tx, nil
}

// Verify - check structure, id and the input signature
//
// a CREATE has a single input and every output must be locked to the
// key that signed it
func (tx *Transaction) Verify() error {
	if tx.Operation != CreateOperation {
		return fault.UnsupportedOperation
	}
	if tx.Version != Version {
		return fault.MalformedTransaction
	}
	asset := tx.Asset.Data
	if asset == nil || asset.UserID == "" || !asset.Operation.Valid() || asset.Timestamp == "" {
		return fault.MalformedTransaction
	}
	if len(tx.Inputs) == 0 {
		return fault.MissingInputs
	}
	if 1 != len(tx.Inputs) {
		return fault.MalformedTransaction
	}
	if len(tx.Outputs) == 0 {
		return fault.MissingOutputs
	}
	for _, output := range tx.Outputs {
		err := output.verify()
		if err != nil {
			return err
		}
	}

	id, err := tx.computeID()
	if err != nil {
		return err
	}
	if id != tx.ID {
		return fault.InvalidTransactionId
	}

	message, err := tx.signingDigest()
	if err != nil {
		return err
	}
	for _, input := range tx.Inputs {
		if input.Fulfills != nil || len(input.OwnersBefore) != 1 || input.OwnersBefore[0] == nil {
			return fault.MalformedTransaction
		}
		if input.Fulfillment == nil {
			return fault.InvalidFulfillment
		}
		signature, err := decodeFulfillment(*input.Fulfillment)
		if err != nil {
			return err
		}
		err = input.OwnersBefore[0].CheckSignature(message, signature)
		if err != nil {
			return err
		}
	}

	signer := tx.Inputs[0].OwnersBefore[0]
	for _, output := range tx.Outputs {
		if !output.PublicKeys[0].Equal(signer) {
			return fault.SignerMismatch
		}
	}
	return nil
}
