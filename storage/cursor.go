// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/consentsim/fault"
)

// FetchCursor - iterate over a range of a pool
type FetchCursor struct {
	pool     *PoolHandle
	maxRange util.Range
}

// NewFetchCursor - initialise a cursor over the whole pool
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool: p,
		maxRange: util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		},
	}
}

// NewPrefixCursor - initialise a cursor over keys starting with prefix
func (p *PoolHandle) NewPrefixCursor(prefix []byte) *FetchCursor {
	return &FetchCursor{
		pool:     p,
		maxRange: *util.BytesPrefix(p.prefixKey(prefix)),
	}
}

// Fetch - return up to count elements, advancing the cursor
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.iterate(func(key []byte, value []byte) (bool, error) {
		results = append(results, Element{
			Key:   key,
			Value: value,
		})
		return len(results) < count, nil
	})
	if nil != err {
		return nil, err
	}

	if n := len(results); n > 0 {
		// next start is just after the last key returned
		next := cursor.pool.prefixKey(results[n-1].Key)
		cursor.maxRange.Start = append(next, 0x00)
	}
	return results, nil
}

// Map - run a function on all elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	return cursor.iterate(func(key []byte, value []byte) (bool, error) {
		err := f(key, value)
		return nil == err, err
	})
}

// call f with copies of each key (prefix stripped) and value until it
// returns false or an error
func (cursor *FetchCursor) iterate(f func(key []byte, value []byte) (bool, error)) error {
	store := cursor.pool.store
	store.RLock()
	defer store.RUnlock()

	db, err := store.database()
	if nil != err {
		return err
	}

	iter := db.NewIterator(&cursor.maxRange, nil)
	defer iter.Release()

iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		more, err := f(dataKey, dataValue)
		if nil != err {
			return err
		}
		if !more {
			break iterating
		}
	}
	return iter.Error()
}
