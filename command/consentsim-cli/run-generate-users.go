// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/consentsim/users"
)

func runGenerateUsers(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("output"))
	if nil != err {
		return err
	}

	seed := c.Int64("seed")
	if 0 == seed {
		seed = time.Now().UnixNano()
	}

	profiles, err := users.Generate(c.Int("count"), rand.New(rand.NewSource(seed)))
	if nil != err {
		return err
	}

	err = users.Save(fileName, profiles)
	if nil != err {
		return err
	}

	if m.verbose {
		printJson(m.e, profiles)
	}

	printJson(m.w, map[string]interface{}{
		"file":  fileName,
		"count": len(profiles),
		"seed":  seed,
	})
	return nil
}
