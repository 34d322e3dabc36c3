// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/consentsim/ledger"
)

type metadata struct {
	endpoint string
	options  ledger.Options
	verbose  bool
	e        io.Writer
	w        io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "consentsim-cli"
	app.Usage = "single consent ledger operations"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "endpoint, e",
			Value:  "",
			Usage:  " ledger API base `URL`",
			EnvVar: ledger.EndpointEnvironment,
		},
		cli.IntFlag{
			Name:  "timeout, t",
			Value: int(ledger.DefaultTimeout / time.Second),
			Usage: " request timeout in `SECONDS`",
		},
		cli.BoolFlag{
			Name:  "insecure, k",
			Usage: " skip TLS certificate verification",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate-users",
			Usage:     "write a file of random user profiles",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, n",
					Value: 10,
					Usage: " number of users `COUNT`",
				},
				cli.Int64Flag{
					Name:  "seed, s",
					Value: 0,
					Usage: " random `SEED` (0 = time based)",
				},
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: "*output `FILE`",
				},
			},
			Action: runGenerateUsers,
		},
		{
			Name:      "submit",
			Usage:     "sign and commit one event",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "user, u",
					Value: "",
					Usage: "*user `ID`",
				},
				cli.StringFlag{
					Name:  "operation, o",
					Value: "",
					Usage: "*`OPERATION` [CONSENT|ACCESS|RTBF]",
				},
				cli.StringFlag{
					Name:  "payload, p",
					Value: "{}",
					Usage: " event details `JSON`",
				},
			},
			Action: runSubmit,
		},
		{
			Name:      "status",
			Usage:     "fetch a committed transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "txid, t",
					Value: "",
					Usage: "*transaction `ID`",
				},
			},
			Action: runStatus,
		},
		{
			Name:      "history",
			Usage:     "list transaction ids recorded for a user",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "user, u",
					Value: "",
					Usage: "*user `ID`",
				},
			},
			Action: runHistory,
		},
		{
			Name:      "access",
			Usage:     "data access request: personal data held for a user",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "user, u",
					Value: "",
					Usage: "*user `ID`",
				},
			},
			Action: runAccess,
		},
		{
			Name:      "info",
			Usage:     "display ledger root document",
			ArgsUsage: " ",
			Flags:     []cli.Flag{},
			Action:    runInfo,
		},
		{
			Name:      "keypair",
			Usage:     "generate a one-time signing key pair",
			ArgsUsage: " ",
			Flags:     []cli.Flag{},
			Action:    runKeyPair,
		},
		{
			Name:      "verify",
			Usage:     "check signature and id of a transaction file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*transaction JSON `FILE`",
				},
			},
			Action: runVerify,
		},
		{
			Name:      "version",
			Usage:     "display consentsim-cli version",
			ArgsUsage: " ",
			Action:    runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {

		timeout := c.GlobalInt("timeout")
		if timeout <= 0 {
			return fmt.Errorf("timeout: %d must be positive", timeout)
		}

		c.App.Metadata["config"] = &metadata{
			endpoint: ledger.Endpoint(c.GlobalString("endpoint")),
			options: ledger.Options{
				Timeout:     time.Duration(timeout) * time.Second,
				InsecureTLS: c.GlobalBool("insecure"),
			},
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	return app
}
