// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"crypto/sha256"
	"encoding/pem"
	"fmt"
	"os"
)

// FingerprintBytes - SHA256 of a DER certificate
type FingerprintBytes [sha256.Size]byte

// Fingerprint - fingerprint a DER certificate
//
// matches: openssl x509 -noout -in stub-ledger.crt -fingerprint -sha256
func Fingerprint(certificate []byte) FingerprintBytes {
	return sha256.Sum256(certificate)
}

// CertificateFingerprint - fingerprint the first certificate in a PEM file
func CertificateFingerprint(fileName string) (FingerprintBytes, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return FingerprintBytes{}, err
	}
	block, _ := pem.Decode(data)
	if nil == block || "CERTIFICATE" != block.Type {
		return FingerprintBytes{}, fmt.Errorf("certificate: %q has no PEM certificate block", fileName)
	}
	return Fingerprint(block.Bytes), nil
}

// String - colon separated upper case hex, openssl style
func (f FingerprintBytes) String() string {
	s := make([]byte, 0, 3*len(f))
	for i, b := range f {
		if i > 0 {
			s = append(s, ':')
		}
		s = append(s, fmt.Sprintf("%02X", b)...)
	}
	return string(s)
}
