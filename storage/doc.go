// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the stub ledger's data store
//
// maintain separate pools of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.  Reads go
// through a short lived cache that also remembers recent writes.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++      = concatenation of byte data
// 3. txId    = transaction id as 64 lower case hex characters
// 4. userId  = user id as UTF-8 bytes, must not contain 0x00
//
// Transactions:
//
//   T ++ txId                  - committed transactions
//                                data: packed transaction JSON
//
// User index:
//
//   U ++ userId ++ 0x00 ++ txId - transactions recorded for a user
//                                data: asset operation name
//
// Personal data:
//
//   K ++ userId                - per user data key, deleted to shred
//                                data: 32 byte key
//   D ++ userId                - encrypted user record
//                                data: nonce ++ sealed JSON
package storage
