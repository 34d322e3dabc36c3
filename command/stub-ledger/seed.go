// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/consentsim/gdpr"
	"github.com/bitmark-inc/consentsim/users"
)

// store each user's initial consent so access and erasure requests
// have personal data to act on
func seedPersonalData(vault *gdpr.Vault, fileName string) (int, error) {
	records, err := users.Load(fileName)
	if nil != err {
		return 0, err
	}
	for _, record := range records {
		err := vault.SetConsent(record.UserID, record.Consent)
		if nil != err {
			return 0, err
		}
	}
	return len(records), nil
}
