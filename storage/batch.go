// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// Batch - a set of writes applied atomically on Commit
type Batch struct {
	store   *Store
	batch   *leveldb.Batch
	pending []cacheEntry
}

type cacheEntry struct {
	op    dbOperation
	key   string
	value []byte
}

// NewBatch - start an empty batch
func (store *Store) NewBatch() *Batch {
	return &Batch{
		store: store,
		batch: new(leveldb.Batch),
	}
}

// Put - queue a write
func (b *Batch) Put(pool *PoolHandle, key []byte, value []byte) {
	k := pool.prefixKey(key)
	b.batch.Put(k, value)
	b.pending = append(b.pending, cacheEntry{op: dbPut, key: string(k), value: value})
}

// Delete - queue a delete
func (b *Batch) Delete(pool *PoolHandle, key []byte) {
	k := pool.prefixKey(key)
	b.batch.Delete(k)
	b.pending = append(b.pending, cacheEntry{op: dbDelete, key: string(k)})
}

// Len - number of queued operations
func (b *Batch) Len() int {
	return b.batch.Len()
}

// Commit - write all queued operations, the batch is empty afterwards
func (b *Batch) Commit() error {
	b.store.RLock()
	defer b.store.RUnlock()

	db, err := b.store.database()
	if nil != err {
		return err
	}
	err = db.Write(b.batch, nil)
	if nil != err {
		return err
	}
	for _, e := range b.pending {
		b.store.cache.Set(e.op, e.key, e.value)
	}
	b.Abort()
	return nil
}

// Abort - discard all queued operations
func (b *Batch) Abort() {
	b.batch.Reset()
	b.pending = nil
}
