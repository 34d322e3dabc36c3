// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/consentsim/fault"
)

// Account - holds an ed25519 public key
type Account struct {
	PublicKey ed25519.PublicKey
}

// FromBase58 - convert a Base58 encoded public key to an account
func FromBase58(accountBase58Encoded string) (*Account, error) {
	if accountBase58Encoded == "" {
		return nil, fault.InvalidPublicKey
	}
	decoded, err := base58.Decode(accountBase58Encoded)
	if err != nil {
		return nil, fault.InvalidPublicKey
	}
	return FromBytes(decoded)
}

// FromBytes - create an account from a raw public key
func FromBytes(publicKey []byte) (*Account, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, fault.InvalidPublicKey
	}
	k := make([]byte, ed25519.PublicKeySize)
	copy(k, publicKey)
	return &Account{
		PublicKey: k,
	}, nil
}

// PublicKeyBytes - fetch the public key as byte slice
func (account *Account) PublicKeyBytes() []byte {
	return account.PublicKey[:]
}

// CheckSignature - check the signature of a message
func (account *Account) CheckSignature(message []byte, signature Signature) error {
	if len(signature) != ed25519.SignatureSize {
		return fault.InvalidSignature
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.InvalidSignature
	}
	return nil
}

// Equal - true if both accounts hold the same key
func (account *Account) Equal(other *Account) bool {
	if account == nil || other == nil {
		return account == other
	}
	return bytes.Equal(account.PublicKey, other.PublicKey)
}

// String - base58 encoding of the key
func (account *Account) String() string {
	return base58.Encode(account.PublicKey)
}

// MarshalText - convert an account to its Base58 JSON form
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - convert a Base58 JSON string to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := FromBase58(string(s))
	if err != nil {
		return err
	}
	account.PublicKey = a.PublicKey
	return nil
}
