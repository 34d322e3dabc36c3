// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/util"
)

// lifetime of generated certificates
const certificateValidity = 10 * 365 * 24 * time.Hour

// create a self-signed certificate
func makeSelfSignedCertificate(name string, certificateFileName string, privateKeyFileName string, override bool, extraHosts []string) error {

	if util.EnsureFileExists(certificateFileName) {
		return fault.CertificateFileAlreadyExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	org := "stub-ledger self signed cert for: " + name
	validUntil := time.Now().Add(certificateValidity)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if err != nil {
		return err
	}

	if err = os.WriteFile(certificateFileName, cert, 0o666); err != nil {
		return err
	}

	if err = os.WriteFile(privateKeyFileName, key, 0o600); err != nil {
		os.Remove(certificateFileName)
		return err
	}

	return nil
}

// load the certificate pair for the HTTPS listener
func loadTLSConfiguration(certificateFileName string, privateKeyFileName string) (*tls.Config, error) {
	if !util.EnsureFileExists(certificateFileName) {
		return nil, fault.NotInitialised
	}
	keyPair, err := tls.LoadX509KeyPair(certificateFileName, privateKeyFileName)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		Certificates: []tls.Certificate{
			keyPair,
		},
	}, nil
}
