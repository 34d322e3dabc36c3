// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/consentsim/ledger"
)

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	txId, err := checkTxId(c.String("txid"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "txid: %s\n", txId)
	}

	conn, err := ledger.Connect(nil, m.endpoint, m.options)
	if nil != err {
		return err
	}

	tx, err := conn.Transaction(context.Background(), txId)
	if nil != err {
		return err
	}

	printJson(m.w, tx)
	return nil
}

func runHistory(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	userID, err := checkUser(c.String("user"))
	if nil != err {
		return err
	}

	conn, err := ledger.Connect(nil, m.endpoint, m.options)
	if nil != err {
		return err
	}

	ids, err := conn.AssetTransactions(context.Background(), userID)
	if nil != err {
		return err
	}

	printJson(m.w, map[string]interface{}{
		"user_id":      userID,
		"transactions": ids,
	})
	return nil
}

func runAccess(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	userID, err := checkUser(c.String("user"))
	if nil != err {
		return err
	}

	conn, err := ledger.Connect(nil, m.endpoint, m.options)
	if nil != err {
		return err
	}

	record, err := conn.UserData(context.Background(), userID)
	if nil != err {
		return err
	}

	printJson(m.w, record)
	return nil
}

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	conn, err := ledger.Connect(nil, m.endpoint, m.options)
	if nil != err {
		return err
	}

	info, err := conn.Info(context.Background())
	if nil != err {
		return err
	}

	printJson(m.w, info)
	return nil
}
