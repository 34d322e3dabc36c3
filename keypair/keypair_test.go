// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair_test

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/consentsim/account"
	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/keypair"
)

func TestNewIsUnique(t *testing.T) {
	const count = 50
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		kp, err := keypair.New(nil)
		require.Nil(t, err, "%d: generate error", i)
		k := string(kp.PublicKey)
		_, duplicate := seen[k]
		assert.False(t, duplicate, "%d: duplicate public key", i)
		seen[k] = struct{}{}
	}
}

func TestDeterministicSource(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 64)

	kp1, err := keypair.New(bytes.NewReader(seed))
	require.Nil(t, err, "generate error")
	kp2, err := keypair.New(bytes.NewReader(seed))
	require.Nil(t, err, "generate error")

	assert.Equal(t, kp1.PublicKey, kp2.PublicKey, "same seed gave different keys")
}

func TestSignAndVerify(t *testing.T) {
	kp, err := keypair.New(nil)
	require.Nil(t, err, "generate error")

	message := []byte("CONSENT for user u1")
	signature, err := kp.Sign(message)
	require.Nil(t, err, "sign error")

	acc := kp.Account()
	assert.Nil(t, acc.CheckSignature(message, signature), "signature did not verify")
	assert.Equal(t, fault.InvalidSignature, acc.CheckSignature([]byte("tampered"), signature), "tampered message verified")

	decoded, err := account.FromBase58(acc.String())
	require.Nil(t, err, "base58 decode error")
	assert.True(t, acc.Equal(decoded), "round trip changed account")
}

func TestSignInvalidKeyMaterial(t *testing.T) {
	kp, err := keypair.New(nil)
	require.Nil(t, err, "generate error")

	truncated := &keypair.KeyPair{
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey[:10],
	}
	_, err = truncated.Sign([]byte("message"))
	assert.True(t, fault.IsErrSigning(err), "expected signing error, got: %v", err)

	other, err := keypair.New(nil)
	require.Nil(t, err, "generate error")
	mismatched := &keypair.KeyPair{
		PublicKey:  kp.PublicKey,
		PrivateKey: other.PrivateKey,
	}
	_, err = mismatched.Sign([]byte("message"))
	assert.True(t, fault.IsErrSigning(err), "expected signing error for mismatched keys, got: %v", err)
}

func TestErase(t *testing.T) {
	kp, err := keypair.New(nil)
	require.Nil(t, err, "generate error")

	kp.Erase()
	assert.Nil(t, kp.PrivateKey, "private key not cleared")

	_, err = kp.Sign([]byte("after erase"))
	assert.True(t, fault.IsErrSigning(err), "signing after erase should fail")
}

func TestRaw(t *testing.T) {
	kp, err := keypair.New(nil)
	require.Nil(t, err, "generate error")

	raw := kp.Raw()
	pub, err := base58.Decode(raw.PublicKey)
	require.Nil(t, err, "public key decode")
	assert.Equal(t, []byte(kp.PublicKey), pub, "wrong public key text")

	seed, err := base58.Decode(raw.PrivateKey)
	require.Nil(t, err, "private key decode")
	assert.Equal(t, 32, len(seed), "wrong seed length")
}
