// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  Detail is
// added by wrapping with fmt.Errorf("%w") and the class of a wrapped
// error is still recognised by the IsErrXXX functions.
package fault
