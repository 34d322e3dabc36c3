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
	"github.com/bitmark-inc/consentsim/submitter"
)

func runSubmit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	userID, err := checkUser(c.String("user"))
	if nil != err {
		return err
	}

	op, err := checkOperation(c.String("operation"))
	if nil != err {
		return err
	}

	payload, err := checkPayload(c.String("payload"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "endpoint: %s\n", m.endpoint)
		fmt.Fprintf(m.e, "user: %s  operation: %s\n", userID, op)
	}

	conn, err := ledger.Connect(nil, m.endpoint, m.options)
	if nil != err {
		return err
	}

	result, err := submitter.New(nil, conn).Submit(context.Background(), userID, op, payload)
	if nil != err {
		return err
	}

	printJson(m.w, result)
	return nil
}
