// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consentsim/configuration"
)

type testConfiguration struct {
	Endpoint   string            `gluamapper:"endpoint"`
	Iterations []int             `gluamapper:"iterations"`
	Rate       float64           `gluamapper:"rate"`
	Insecure   bool              `gluamapper:"insecure"`
	Levels     map[string]string `gluamapper:"levels"`
	Untouched  string            `gluamapper:"untouched"`
}

func writeFile(t *testing.T, content string) string {
	fileName := filepath.Join(t.TempDir(), "test.conf")
	err := os.WriteFile(fileName, []byte(content), 0o600)
	if nil != err {
		t.Fatalf("write error: %s", err)
	}
	return fileName
}

func TestParseConfigurationFile(t *testing.T) {
	fileName := writeFile(t, `
local M = {}
M.endpoint = "http://127.0.0.1:9984/api/v1/"
M.iterations = { 100, 1000 }
M.rate = 2.5
M.insecure = true
M.levels = { main = "info", DEFAULT = "critical" }
return M
`)

	config := &testConfiguration{
		Untouched: "default",
	}
	err := configuration.ParseConfigurationFile(fileName, config)
	assert.Nil(t, err, "parse")
	assert.Equal(t, "http://127.0.0.1:9984/api/v1/", config.Endpoint, "endpoint")
	assert.Equal(t, []int{100, 1000}, config.Iterations, "iterations")
	assert.Equal(t, 2.5, config.Rate, "rate")
	assert.True(t, config.Insecure, "insecure")
	assert.Equal(t, "info", config.Levels["main"], "levels")
	assert.Equal(t, "default", config.Untouched, "default kept")
}

func TestParseConfigurationFileArg(t *testing.T) {
	fileName := writeFile(t, `return { endpoint = arg[0] }`)

	config := &testConfiguration{}
	err := configuration.ParseConfigurationFile(fileName, config)
	assert.Nil(t, err, "parse")
	assert.Equal(t, fileName, config.Endpoint, "arg[0] is the file name")
}

func TestParseConfigurationFileErrors(t *testing.T) {
	config := &testConfiguration{}

	err := configuration.ParseConfigurationFile(filepath.Join(t.TempDir(), "absent.conf"), config)
	assert.NotNil(t, err, "missing file")

	err = configuration.ParseConfigurationFile(writeFile(t, `return {`), config)
	assert.NotNil(t, err, "syntax error")

	err = configuration.ParseConfigurationFile(writeFile(t, `return 42`), config)
	assert.NotNil(t, err, "not a table")
}
