// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keypair - ephemeral ed25519 signing keys
//
// a key pair is created for a single transaction and erased once
// the transaction is signed; nothing here persists key material
package keypair

import (
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/consentsim/account"
	"github.com/bitmark-inc/consentsim/fault"
)

// KeyPair - structure to hold public and private keys
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// RawKeyPair - text version of the keys
type RawKeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// Generator - source of fresh key pairs
type Generator func() (*KeyPair, error)

// New - create a new key pair from the random source, a nil source
// selects crypto/rand
func New(random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(random)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}, nil
}

// NewGenerator - a Generator reading from the given random source
func NewGenerator(random io.Reader) Generator {
	return func() (*KeyPair, error) {
		return New(random)
	}
}

// Account - the public identity of the key pair
func (keyPair *KeyPair) Account() *account.Account {
	return &account.Account{
		PublicKey: keyPair.PublicKey,
	}
}

// Sign - sign a message with the private key
//
// key material is checked first: ed25519.Sign panics on a bad key
func (keyPair *KeyPair) Sign(message []byte) (account.Signature, error) {
	if len(keyPair.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fault.InvalidPrivateKey
	}
	if len(keyPair.PublicKey) != ed25519.PublicKeySize {
		return nil, fault.InvalidPrivateKey
	}
	signature := ed25519.Sign(keyPair.PrivateKey, message)

	// the private key must correspond to the public key or the
	// ledger will reject the fulfillment
	if !ed25519.Verify(keyPair.PublicKey, message, signature) {
		return nil, fault.InvalidPrivateKey
	}
	return signature, nil
}

// Erase - overwrite the private key
func (keyPair *KeyPair) Erase() {
	for i := range keyPair.PrivateKey {
		keyPair.PrivateKey[i] = 0
	}
	keyPair.PrivateKey = nil
}

// Raw - Base58 text form of the keys
func (keyPair *KeyPair) Raw() *RawKeyPair {
	return &RawKeyPair{
		PublicKey:  base58.Encode(keyPair.PublicKey),
		PrivateKey: base58.Encode(keyPair.PrivateKey.Seed()),
	}
}
