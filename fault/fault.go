// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type FormatError GenericError
type InvalidError GenericError
type NetworkError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RejectedError GenericError
type SigningError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised           = ExistsError("already initialised")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	CommitRejected               = RejectedError("ledger rejected the transaction")
	CommitUnavailable            = NetworkError("ledger is unavailable")
	DuplicateTransaction         = ExistsError("transaction already committed")
	EmptyUserList                = FormatError("user list is empty")
	InvalidCondition             = InvalidError("invalid output condition")
	InvalidConsent               = FormatError("consent is missing")
	InvalidCount                 = InvalidError("invalid count")
	InvalidEndpoint              = InvalidError("invalid ledger endpoint")
	InvalidFulfillment           = InvalidError("invalid fulfillment")
	InvalidIPAddress             = InvalidError("invalid IP address")
	InvalidIterations            = InvalidError("iterations must be positive")
	InvalidLoggerChannel         = InvalidError("invalid logger channel")
	InvalidOperation             = InvalidError("invalid operation")
	InvalidPortNumber            = InvalidError("invalid port number")
	InvalidPrivateKey            = SigningError("invalid private key")
	InvalidPublicKey             = InvalidError("invalid public key")
	InvalidRate                  = InvalidError("rate must not be negative")
	InvalidSignature             = InvalidError("invalid signature")
	InvalidTransactionId         = InvalidError("transaction id does not match content")
	InvalidUserId                = FormatError("user id is empty")
	InvalidUsersFile             = FormatError("users file is not a JSON array of user records")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	LedgerUnreachable            = NetworkError("ledger endpoint unreachable")
	MalformedTransaction         = InvalidError("malformed transaction")
	MissingInputs                = InvalidError("transaction has no inputs")
	MissingOutputs               = InvalidError("transaction has no outputs")
	MissingParameter             = InvalidError("required parameter is nil")
	NotInitialised               = NotFoundError("not initialised")
	PayloadIdFailed              = ProcessError("payload id could not be generated")
	SignerMismatch               = SigningError("signer is not the input owner")
	TransactionNotFound          = NotFoundError("transaction not found")
	UnsupportedOperation         = InvalidError("unsupported transaction operation")
	UserDataCorrupt              = ProcessError("user data cannot be opened")
	UserNotFound                 = NotFoundError("user data not found")
	UsersFileNotFound            = NotFoundError("users file not found")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e FormatError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NetworkError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RejectedError) Error() string { return string(e) }
func (e SigningError) Error() string  { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool {
	var t ExistsError
	return errors.As(e, &t)
}

func IsErrFormat(e error) bool {
	var t FormatError
	return errors.As(e, &t)
}

func IsErrInvalid(e error) bool {
	var t InvalidError
	return errors.As(e, &t)
}

func IsErrNetwork(e error) bool {
	var t NetworkError
	return errors.As(e, &t)
}

func IsErrNotFound(e error) bool {
	var t NotFoundError
	return errors.As(e, &t)
}

func IsErrProcess(e error) bool {
	var t ProcessError
	return errors.As(e, &t)
}

func IsErrRejected(e error) bool {
	var t RejectedError
	return errors.As(e, &t)
}

func IsErrSigning(e error) bool {
	var t SigningError
	return errors.As(e, &t)
}
