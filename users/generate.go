// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package users

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"

	"github.com/bitmark-inc/consentsim/fault"
)

// Consent - the consent flags of a generated user
type Consent struct {
	DataProcessing bool `json:"data_processing"`
	Profiling      bool `json:"profiling"`
	Sharing        bool `json:"sharing"`
}

// Profile - a synthetic user as written to a users file
type Profile struct {
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Consent Consent `json:"consent"`
}

// range of the numeric suffix in names and emails
const (
	minimumSuffix = 1000
	maximumSuffix = 9999
)

// Generate - create count synthetic users from the random source
func Generate(count int, rng *rand.Rand) ([]Profile, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	profiles := make([]Profile, count)
	for i := range profiles {
		id, err := uuid.NewRandomFromReader(rng)
		if nil != err {
			return nil, err
		}
		n := minimumSuffix + rng.Intn(maximumSuffix-minimumSuffix+1)
		profiles[i] = Profile{
			UserID: id.String(),
			Name:   fmt.Sprintf("User%d", n),
			Email:  fmt.Sprintf("user%d@sesn.org", n),
			Consent: Consent{
				DataProcessing: true,
				Profiling:      rng.Intn(2) == 1,
				Sharing:        rng.Intn(2) == 1,
			},
		}
	}
	return profiles, nil
}

// Save - write profiles as an indented JSON array
func Save(fileName string, profiles []Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if nil != err {
		return err
	}
	return os.WriteFile(fileName, append(data, '\n'), 0o644)
}
