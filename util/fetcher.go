// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError - a non-success HTTP reply
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status: %d %q", e.StatusCode, http.StatusText(e.StatusCode))
}

// FetchJSON - fetch a JSON response from an HTTP request and decode
// it, any status other than 200 gives a *StatusError
func FetchJSON(ctx context.Context, client *http.Client, url string, reply interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if nil != err {
		return err
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if nil != err {
		return err
	}

	if http.StatusOK != response.StatusCode {
		return &StatusError{
			StatusCode: response.StatusCode,
			Body:       body,
		}
	}
	return json.Unmarshal(body, reply)
}
