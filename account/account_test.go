// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consentsim/account"
	"github.com/bitmark-inc/consentsim/fault"
)

func TestFromBase58Invalid(t *testing.T) {
	items := []string{
		"",
		"0OIl",
		base58.Encode([]byte{1, 2, 3}),
		base58.Encode(bytes.Repeat([]byte{7}, 33)),
	}
	for i, item := range items {
		_, err := account.FromBase58(item)
		assert.Equal(t, fault.InvalidPublicKey, err, "item[%d]: %q", i, item)
	}
}

func TestFromBytesCopies(t *testing.T) {
	key := bytes.Repeat([]byte{0x55}, 32)
	a, err := account.FromBytes(key)
	assert.Nil(t, err, "from bytes")

	key[0] = 0
	assert.Equal(t, byte(0x55), a.PublicKeyBytes()[0], "account shares caller buffer")
}

func TestTextMarshalling(t *testing.T) {
	a, err := account.FromBytes(bytes.Repeat([]byte{0x21}, 32))
	assert.Nil(t, err, "from bytes")

	b, err := json.Marshal([]*account.Account{a})
	assert.Nil(t, err, "marshal")
	assert.Equal(t, `["`+a.String()+`"]`, string(b), "base58 text")

	var decoded []*account.Account
	assert.Nil(t, json.Unmarshal(b, &decoded), "unmarshal")
	assert.True(t, a.Equal(decoded[0]), "round trip")

	assert.NotNil(t, json.Unmarshal([]byte(`["not-base58!"]`), &decoded), "bad text")
}

func TestEqualNil(t *testing.T) {
	a, _ := account.FromBytes(bytes.Repeat([]byte{0x21}, 32))
	var none *account.Account
	assert.False(t, a.Equal(nil), "account equals nil")
	assert.True(t, none.Equal(nil), "nil equals nil")
}
