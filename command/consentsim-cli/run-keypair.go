// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/consentsim/keypair"
)

type keyPairDisplay struct {
	Account string              `json:"account"`
	KeyPair *keypair.RawKeyPair `json:"keypair"`
}

func runKeyPair(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	keyPair, err := keypair.New(rand.Reader)
	if nil != err {
		return err
	}
	defer keyPair.Erase()

	printJson(m.w, keyPairDisplay{
		Account: keyPair.Account().String(),
		KeyPair: keyPair.Raw(),
	})
	return nil
}
