// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package operation - the closed set of user request types recorded
// on the ledger
package operation

import (
	"strings"

	"github.com/bitmark-inc/consentsim/fault"
)

// Type - the kind of user request
type Type int

// all possible operations
const (
	Invalid Type = iota

	// add, update or revoke consent
	Consent

	// data access request
	Access

	// right to be forgotten
	RTBF

	// this item must be last
	maximum
)

// text names
const (
	ConsentName = "CONSENT"
	AccessName  = "ACCESS"
	RTBFName    = "RTBF"
)

// All - every valid operation, in a fixed order for random selection
var All = []Type{Consent, Access, RTBF}

// Valid - check the operation is one of the defined set
func (t Type) Valid() bool {
	return t > Invalid && t < maximum
}

// String - text name of the operation
func (t Type) String() string {
	switch t {
	case Consent:
		return ConsentName
	case Access:
		return AccessName
	case RTBF:
		return RTBFName
	default:
		return "*INVALID*"
	}
}

// FromString - parse a name, case is ignored
func FromString(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case ConsentName:
		return Consent, nil
	case AccessName:
		return Access, nil
	case RTBFName:
		return RTBF, nil
	default:
		return Invalid, fault.InvalidOperation
	}
}

// MarshalText - convert an operation to its JSON form
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fault.InvalidOperation
	}
	return []byte(t.String()), nil
}

// UnmarshalText - convert JSON text back to an operation
func (t *Type) UnmarshalText(s []byte) error {
	op, err := FromString(string(s))
	if err != nil {
		return err
	}
	*t = op
	return nil
}
