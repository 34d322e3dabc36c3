// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"

	"github.com/bitmark-inc/consentsim/account"
	"github.com/bitmark-inc/consentsim/fault"
)

// fixed cost of an ed25519 condition
const conditionCost = 131072

// NewCondition - ed25519 condition satisfied only by the owner's key
func NewCondition(owner *account.Account) Condition {
	return Condition{
		Details: ConditionDetails{
			Type:      ConditionType,
			PublicKey: owner,
		},
		URI: conditionURI(owner),
	}
}

// named-information URI fingerprinting the public key
func conditionURI(owner *account.Account) string {
	fingerprint := sha256.Sum256(owner.PublicKeyBytes())
	return "ni:///sha-256;" +
		base64.RawURLEncoding.EncodeToString(fingerprint[:]) +
		"?fpt=" + ConditionType +
		"&cost=" + strconv.Itoa(conditionCost)
}

// check that an output is locked to exactly one ed25519 key
func (output *Output) verify() error {
	if len(output.PublicKeys) != 1 || output.PublicKeys[0] == nil {
		return fault.InvalidCondition
	}
	owner := output.PublicKeys[0]

	details := output.Condition.Details
	if details.Type != ConditionType || !owner.Equal(details.PublicKey) {
		return fault.InvalidCondition
	}
	if output.Condition.URI != conditionURI(owner) {
		return fault.InvalidCondition
	}

	amount, err := strconv.ParseUint(output.Amount, 10, 64)
	if err != nil || amount == 0 {
		return fault.InvalidCondition
	}
	return nil
}

// encode a signature for an input
func encodeFulfillment(signature account.Signature) string {
	return base64.RawURLEncoding.EncodeToString(signature)
}

// decode the signature from an input
func decodeFulfillment(fulfillment string) (account.Signature, error) {
	b, err := base64.RawURLEncoding.DecodeString(fulfillment)
	if err != nil {
		return nil, fault.InvalidFulfillment
	}
	return b, nil
}
