// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/keypair"
)

// Packed - the wire form of a transaction
type Packed []byte

// Pack - serialise a signed transaction for submission
//
// the result is canonical JSON: keys sorted, no insignificant
// whitespace, so identical transactions always produce identical bytes
func (tx *Transaction) Pack() (Packed, error) {
	if !tx.IsSigned() {
		return nil, fault.InvalidFulfillment
	}
	if tx.ID == "" {
		return nil, fault.InvalidTransactionId
	}
	return canonical(tx, false)
}

// Sign - fulfil the single input with the key pair and fix the id
//
// the signature covers the body with id and fulfillments nulled; the id
// is the SHA3-256 of the body with fulfillments present but id nulled
func (tx *Transaction) Sign(signer *keypair.KeyPair) error {
	if len(tx.Inputs) != 1 {
		return fault.MissingInputs
	}
	if len(tx.Outputs) == 0 {
		return fault.MissingOutputs
	}
	input := tx.Inputs[0]
	if len(input.OwnersBefore) != 1 || !input.OwnersBefore[0].Equal(signer.Account()) {
		return fault.SignerMismatch
	}

	message, err := tx.signingDigest()
	if err != nil {
		return err
	}
	signature, err := signer.Sign(message)
	if err != nil {
		return err
	}

	fulfillment := encodeFulfillment(signature)
	input.Fulfillment = &fulfillment

	id, err := tx.computeID()
	if err != nil {
		input.Fulfillment = nil
		return err
	}
	tx.ID = id
	return nil
}

// digest signed by the input owners
func (tx *Transaction) signingDigest() ([]byte, error) {
	body, err := tx.serialise(false)
	if err != nil {
		return nil, err
	}
	digest := sha3.Sum256(body)
	return digest[:], nil
}

// the id the transaction should carry given its current content
func (tx *Transaction) computeID() (string, error) {
	body, err := tx.serialise(true)
	if err != nil {
		return "", err
	}
	digest := sha3.Sum256(body)
	return hex.EncodeToString(digest[:]), nil
}

// canonical body with the id removed, optionally stripping fulfillments
func (tx *Transaction) serialise(keepFulfillments bool) ([]byte, error) {
	stripped := *tx

	stripped.Inputs = make([]*Input, len(tx.Inputs))
	for i, input := range tx.Inputs {
		in := *input
		if !keepFulfillments {
			in.Fulfillment = nil
		}
		stripped.Inputs[i] = &in
	}

	return canonical(&stripped, true)
}

// encode to JSON with sorted keys and no HTML escaping, optionally
// replacing the top level id by null
func canonical(v interface{}, nullID bool) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	// round trip through generic values: maps are encoded in key order
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.UseNumber()
	var generic interface{}
	err = decoder.Decode(&generic)
	if err != nil {
		return nil, err
	}

	if nullID {
		if m, ok := generic.(map[string]interface{}); ok {
			m["id"] = nil
		}
	}

	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err = encoder.Encode(generic)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}
