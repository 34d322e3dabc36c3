// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package users - the static list of simulated users
package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/consentsim/fault"
)

// Record - one user as read from the users file
//
// only user_id and consent are used, other keys are ignored
type Record struct {
	UserID  string          `json:"user_id"`
	Consent json.RawMessage `json:"consent"`
}

// Load - read and validate the users file
func Load(fileName string) ([]Record, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", fileName, fault.UsersFileNotFound)
	}
	return Parse(data)
}

// Parse - validate an in-memory users list
func Parse(data []byte) ([]Record, error) {
	var records []*Record
	err := json.Unmarshal(data, &records)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", err, fault.InvalidUsersFile)
	}
	if 0 == len(records) {
		return nil, fault.EmptyUserList
	}

	result := make([]Record, len(records))
	for i, r := range records {
		if nil == r {
			return nil, fmt.Errorf("user[%d]: %w", i, fault.InvalidUsersFile)
		}
		if "" == strings.TrimSpace(r.UserID) {
			return nil, fmt.Errorf("user[%d]: %w", i, fault.InvalidUserId)
		}
		if 0 == len(r.Consent) || bytes.Equal(r.Consent, []byte("null")) {
			return nil, fmt.Errorf("user[%d]: %s: %w", i, r.UserID, fault.InvalidConsent)
		}
		result[i] = *r
	}
	return result, nil
}
