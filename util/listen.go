// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/consentsim/fault"
)

// CanonicalListenAddress - make a listener IP:Port canonical
//
// examples:
//   IPv4:  127.0.0.1:9984
//   IPv6:  [::1]:9984
func CanonicalListenAddress(hostPort string) (string, error) {

	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", fault.InvalidIPAddress
	}

	IP := net.ParseIP(strings.TrimSpace(host))
	if nil == IP {
		return "", fault.InvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err || numericPort < 1 || numericPort > 65535 {
		return "", fault.InvalidPortNumber
	}

	return net.JoinHostPort(IP.String(), strconv.Itoa(numericPort)), nil
}
