// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - public identity of a transaction signer
//
// an account is an ed25519 public key; its text form is the Base58
// encoding of the raw 32 byte key, which is the form the ledger uses
// in owner lists and output conditions
package account
