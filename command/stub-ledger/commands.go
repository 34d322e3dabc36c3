// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/consentsim/util"
)

// setup command handler
//
// commands that create files needed before the server can start;
// returns false if the server should run
func processSetupCommand(program string, arguments []string, theConfiguration *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-cert", "cert":
		certificateFileName := theConfiguration.TLS.Certificate
		privateKeyFileName := theConfiguration.TLS.PrivateKey

		addresses := []string{}
		for _, a := range arguments {
			if "" != a {
				addresses = append(addresses, a)
			}
		}

		err := makeSelfSignedCertificate("api", certificateFileName, privateKeyFileName, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate key: %q and certificate: %q error: %s\n", privateKeyFileName, certificateFileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated key: %q and certificate: %q\n", privateKeyFileName, certificateFileName)
		if fingerprint, err := util.CertificateFingerprint(certificateFileName); nil == err {
			fmt.Printf("SHA256 fingerprint: %s\n", fingerprint)
		}

	case "start", "run":
		return false // continue processing

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  gen-cert [IPs...]          (cert)   - create a self-signed TLS certificate\n")
		fmt.Printf("                                        listing extra IPs or host names to include\n\n")
		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n\n")
		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}
