// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/consentsim/transactionrecord"
)

type verifyDisplay struct {
	Valid         bool                     `json:"valid"`
	TransactionID string                   `json:"transaction_id"`
	Asset         *transactionrecord.Asset `json:"asset"`
	Owner         string                   `json:"owner"`
}

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	data, err := os.ReadFile(fileName)
	if nil != err {
		return err
	}

	tx, err := transactionrecord.Packed(data).Unpack()
	if nil != err {
		return err
	}

	err = tx.Verify()
	if nil != err {
		return err
	}

	printJson(m.w, verifyDisplay{
		Valid:         true,
		TransactionID: tx.ID,
		Asset:         tx.AssetData(),
		Owner:         tx.Inputs[0].OwnersBefore[0].String(),
	})
	return nil
}
