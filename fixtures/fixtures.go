// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// Users - a small valid users file
const Users = `[
  {"user_id": "u1", "name": "User1001", "consent": {"data_processing": true, "profiling": false, "sharing": true}},
  {"user_id": "u2", "name": "User1002", "consent": {"data_processing": true, "profiling": true, "sharing": false}},
  {"user_id": "u3", "name": "User1003", "consent": true}
]`

// SingleUser - every event must belong to u1
const SingleUser = `[{"user_id":"u1","consent":true}]`

// SetupTestLogger - log critical messages to a scratch directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
