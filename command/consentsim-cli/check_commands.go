// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/operation"
)

var (
	ErrRequiredFileName  = fault.InvalidError("file name is required")
	ErrRequiredOperation = fault.InvalidError("operation is required")
	ErrRequiredTxId      = fault.InvalidError("transaction id is required")
	ErrRequiredUser      = fault.InvalidError("user id is required")
	ErrInvalidPayload    = fault.InvalidError("payload is not valid JSON")
)

// check for non-blank file name
func checkFileName(fileName string) (string, error) {
	if "" == fileName {
		return "", ErrRequiredFileName
	}

	return os.ExpandEnv(fileName), nil
}

// user id is required
func checkUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if "" == userID {
		return "", ErrRequiredUser
	}

	return userID, nil
}

// operation name is required and must be one of the known set
func checkOperation(name string) (operation.Type, error) {
	if "" == strings.TrimSpace(name) {
		return operation.Invalid, ErrRequiredOperation
	}

	return operation.FromString(name)
}

// transaction id is required
func checkTxId(txId string) (string, error) {
	txId = strings.TrimSpace(txId)
	if "" == txId {
		return "", ErrRequiredTxId
	}

	return txId, nil
}

// payload is opaque but must be valid JSON
func checkPayload(payload string) (json.RawMessage, error) {
	if !json.Valid([]byte(payload)) {
		return nil, ErrInvalidPayload
	}

	return json.RawMessage(payload), nil
}
