// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// PoolHandle - one prefixed table
type PoolHandle struct {
	prefix byte
	limit  []byte
	store  *Store
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()

	db, err := p.store.database()
	if nil != err {
		return err
	}
	k := p.prefixKey(key)
	err = db.Put(k, value, nil)
	if nil != err {
		return err
	}
	p.store.cache.Set(dbPut, string(k), value)
	return nil
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()

	db, err := p.store.database()
	if nil != err {
		return err
	}
	k := p.prefixKey(key)
	err = db.Delete(k, nil)
	if nil != err {
		return err
	}
	p.store.cache.Set(dbDelete, string(k), nil)
	return nil
}

// Get - read a value for a given key, nil if not found
//
// the result may be shared with the cache, copy it if it must be modified
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.store.RLock()
	defer p.store.RUnlock()

	k := p.prefixKey(key)
	value, found, deleted := p.store.cache.Get(string(k))
	if deleted {
		return nil, nil
	}
	if found {
		return value, nil
	}

	db, err := p.store.database()
	if nil != err {
		return nil, err
	}
	value, err = db.Get(k, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	p.store.cache.Set(dbPut, string(k), value)
	return value, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	p.store.RLock()
	defer p.store.RUnlock()

	k := p.prefixKey(key)
	_, found, deleted := p.store.cache.Get(string(k))
	if found {
		return !deleted, nil
	}

	db, err := p.store.database()
	if nil != err {
		return false, err
	}
	return db.Has(k, nil)
}
