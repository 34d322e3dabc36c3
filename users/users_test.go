// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package users_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/users"
)

func TestParseValid(t *testing.T) {
	records, err := users.Parse([]byte(`[
  {"user_id": "u1", "consent": true},
  {"user_id": "u2", "name": "User1234", "consent": {"sharing": false}}
]`))
	assert.Nil(t, err, "parse")
	assert.Equal(t, 2, len(records), "count")
	assert.Equal(t, "u1", records[0].UserID, "first id")
	assert.Equal(t, `true`, string(records[0].Consent), "first consent")
	assert.Equal(t, `{"sharing": false}`, string(records[1].Consent), "consent verbatim")
}

func TestParseInvalid(t *testing.T) {
	items := []struct {
		data      string
		predicate func(error) bool
		index     string
	}{
		{`{"user_id": "u1"}`, fault.IsErrFormat, ""},
		{`not json`, fault.IsErrFormat, ""},
		{`[]`, fault.IsErrFormat, ""},
		{`[null]`, fault.IsErrFormat, "user[0]"},
		{`["u1"]`, fault.IsErrFormat, ""},
		{`[{"user_id": "u1", "consent": 1}, {"user_id": "", "consent": 1}]`, fault.IsErrFormat, "user[1]"},
		{`[{"user_id": "u1"}]`, fault.IsErrFormat, "user[0]"},
		{`[{"user_id": "u1", "consent": null}]`, fault.IsErrFormat, "user[0]"},
	}

	for i, item := range items {
		_, err := users.Parse([]byte(item.data))
		assert.NotNil(t, err, "item: %d", i)
		assert.True(t, item.predicate(err), "item: %d  error: %s", i, err)
		assert.True(t, strings.Contains(err.Error(), item.index), "item: %d  error: %s", i, err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := users.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, fault.IsErrNotFound(err), "missing file: %s", err)
}

func TestLoadSingleUser(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "users.json")
	err := os.WriteFile(fileName, []byte(`[{"user_id":"u1","consent":true}]`), 0o600)
	assert.Nil(t, err, "write")

	records, err := users.Load(fileName)
	assert.Nil(t, err, "load")
	assert.Equal(t, []users.Record{{UserID: "u1", Consent: []byte("true")}}, records, "records")
}

func TestGenerateSaveLoad(t *testing.T) {
	profiles, err := users.Generate(25, rand.New(rand.NewSource(42)))
	assert.Nil(t, err, "generate")
	assert.Equal(t, 25, len(profiles), "count")

	ids := make(map[string]struct{})
	for i, p := range profiles {
		ids[p.UserID] = struct{}{}
		assert.True(t, strings.HasPrefix(p.Name, "User"), "name: %d", i)
		assert.Equal(t, "user"+strings.TrimPrefix(p.Name, "User")+"@sesn.org", p.Email, "email: %d", i)
		assert.True(t, p.Consent.DataProcessing, "data processing: %d", i)
	}
	assert.Equal(t, 25, len(ids), "unique ids")

	again, err := users.Generate(25, rand.New(rand.NewSource(42)))
	assert.Nil(t, err, "generate again")
	assert.Equal(t, profiles, again, "seeded generation repeats")

	fileName := filepath.Join(t.TempDir(), "users.json")
	err = users.Save(fileName, profiles)
	assert.Nil(t, err, "save")

	records, err := users.Load(fileName)
	assert.Nil(t, err, "load")
	assert.Equal(t, len(profiles), len(records), "loaded count")
	assert.Equal(t, profiles[0].UserID, records[0].UserID, "first id")
}

func TestGenerateInvalidCount(t *testing.T) {
	_, err := users.Generate(0, rand.New(rand.NewSource(1)))
	assert.Equal(t, fault.InvalidCount, err, "zero count")
}
