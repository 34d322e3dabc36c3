// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package gdpr - mutable personal data kept beside the ledger
//
// every user record is sealed with a data key belonging to that user
// alone. Erasure deletes the key first and the sealed record second, so
// once the key is gone any copy of the record left behind is unreadable.
// The ledger keeps only the immutable event log.
package gdpr

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/storage"
)

// size of a per user data key
const keySize = chacha20poly1305.KeySize

// Record - the mutable state held for one user
type Record struct {
	UserID  string          `json:"user_id"`
	Consent json.RawMessage `json:"consent"`
}

// Vault - sealed user records over the store's K and D pools
type Vault struct {
	sync.Mutex
	log    *logger.L
	keys   *storage.PoolHandle
	data   *storage.PoolHandle
	random io.Reader
}

// New - open a vault on a store, random defaults to crypto/rand
func New(log *logger.L, store *storage.Store, random io.Reader) *Vault {
	if nil == random {
		random = rand.Reader
	}
	return &Vault{
		log:    log,
		keys:   store.Pool.UserKeys,
		data:   store.Pool.UserData,
		random: random,
	}
}

// SetConsent - create or update a user's consent state
//
// a user without a key, new or previously erased, gets a fresh one
func (v *Vault) SetConsent(userID string, consent json.RawMessage) error {
	if err := checkUserID(userID); nil != err {
		return err
	}
	if 0 == len(consent) || !json.Valid(consent) || "null" == strings.TrimSpace(string(consent)) {
		return fault.InvalidConsent
	}

	v.Lock()
	defer v.Unlock()

	key, err := v.keys.Get([]byte(userID))
	if nil != err {
		return err
	}
	if nil == key {
		key = v.randomBytes(keySize)
		if err := v.keys.Put([]byte(userID), key); nil != err {
			return err
		}
		v.debugf("new data key for user: %s", userID)
	}

	plaintext, err := json.Marshal(Record{
		UserID:  userID,
		Consent: consent,
	})
	if nil != err {
		return err
	}

	sealed, err := v.seal(key, userID, plaintext)
	if nil != err {
		return err
	}
	return v.data.Put([]byte(userID), sealed)
}

// Access - the current record for a user
func (v *Vault) Access(userID string) (*Record, error) {
	if err := checkUserID(userID); nil != err {
		return nil, err
	}

	v.Lock()
	defer v.Unlock()

	key, err := v.keys.Get([]byte(userID))
	if nil != err {
		return nil, err
	}
	sealed, err := v.data.Get([]byte(userID))
	if nil != err {
		return nil, err
	}
	if nil == key || nil == sealed {
		return nil, fault.UserNotFound
	}

	plaintext, err := v.open(key, userID, sealed)
	if nil != err {
		return nil, err
	}

	record := &Record{}
	if err := json.Unmarshal(plaintext, record); nil != err {
		return nil, fault.UserDataCorrupt
	}
	return record, nil
}

// Forget - shred the user's key then delete the sealed record
//
// erasing an unknown user is not an error
func (v *Vault) Forget(userID string) error {
	if err := checkUserID(userID); nil != err {
		return err
	}

	v.Lock()
	defer v.Unlock()

	if err := v.keys.Delete([]byte(userID)); nil != err {
		return err
	}
	if err := v.data.Delete([]byte(userID)); nil != err {
		return fmt.Errorf("key shredded, record remains: %w", err)
	}
	v.debugf("shredded user: %s", userID)
	return nil
}

// nonce ++ ciphertext, the user id is bound as additional data
func (v *Vault) seal(key []byte, userID string, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if nil != err {
		return nil, fault.UserDataCorrupt
	}
	nonce := v.randomBytes(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, []byte(userID)), nil
}

// a failing random source cannot produce safe keys or nonces
func (v *Vault) randomBytes(size int) []byte {
	b := make([]byte, size)
	_, err := io.ReadFull(v.random, b)
	fault.PanicIfError("gdpr: random read", err)
	return b
}

func (v *Vault) open(key []byte, userID string, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if nil != err {
		return nil, fault.UserDataCorrupt
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, fault.UserDataCorrupt
	}
	nonce := sealed[:aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, sealed[aead.NonceSize():], []byte(userID))
	if nil != err {
		return nil, fault.UserDataCorrupt
	}
	return plaintext, nil
}

func (v *Vault) debugf(format string, arguments ...interface{}) {
	if nil != v.log {
		v.log.Debugf(format, arguments...)
	}
}

// same rule as the ledger's user index keys
func checkUserID(userID string) error {
	if "" == userID || strings.IndexByte(userID, 0x00) >= 0 {
		return fault.InvalidUserId
	}
	return nil
}
