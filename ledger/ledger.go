// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - HTTP client for the ledger API
//
// a Connection is created once and shared; it performs no network I/O
// until the first request
package ledger

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/transactionrecord"
	"github.com/bitmark-inc/consentsim/util"
)

// defaults for the ledger endpoint
const (
	EndpointEnvironment = "LEDGER_API"
	DefaultEndpoint     = "http://bigchaindb1:9984/api/v1/"
	DefaultTimeout      = 30 * time.Second

	// request mode that waits for the transaction to be committed
	ModeCommit = "commit"
)

// Options - connection settings
type Options struct {
	Timeout     time.Duration
	InsecureTLS bool
}

// Connection - handle to one ledger endpoint
type Connection struct {
	log    *logger.L
	base   *url.URL
	client *http.Client
}

// CommitResult - acknowledgement of a committed transaction
type CommitResult struct {
	TransactionID string `json:"transaction_id"`
	StatusCode    int    `json:"status_code"`
}

// Info - the ledger root document
type Info map[string]interface{}

// error reply from the ledger
type errorReply struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Endpoint - the configured endpoint, else the environment, else the
// built in default
func Endpoint(configured string) string {
	if "" != configured {
		return configured
	}
	if s := os.Getenv(EndpointEnvironment); "" != s {
		return s
	}
	return DefaultEndpoint
}

// Connect - validate the endpoint and set up the HTTP client
func Connect(log *logger.L, endpoint string, options Options) (*Connection, error) {
	base, err := url.Parse(strings.TrimSpace(endpoint))
	if nil != err {
		return nil, fmt.Errorf("%s: %w", endpoint, fault.InvalidEndpoint)
	}
	if ("http" != base.Scheme && "https" != base.Scheme) || "" == base.Host {
		return nil, fmt.Errorf("%s: %w", endpoint, fault.InvalidEndpoint)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	base.RawQuery = ""
	base.Fragment = ""

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if options.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if nil != log {
		log.Infof("endpoint: %s  timeout: %s  insecure: %t", base, timeout, options.InsecureTLS)
	}

	return &Connection{
		log:  log,
		base: base,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// Endpoint - the normalised base URL
func (conn *Connection) Endpoint() string {
	return conn.base.String()
}

// Commit - submit a signed transaction and wait for the commit
func (conn *Connection) Commit(ctx context.Context, tx *transactionrecord.Transaction) (*CommitResult, error) {
	packed, err := tx.Pack()
	if nil != err {
		return nil, err
	}

	u := conn.resolve("transactions")
	u.RawQuery = url.Values{"mode": {ModeCommit}}.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(packed))
	if nil != err {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := conn.client.Do(request)
	if nil != err {
		conn.debugf("commit: %s  error: %s", tx.ID, err)
		return nil, fmt.Errorf("%s: %w", err, fault.LedgerUnreachable)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", err, fault.LedgerUnreachable)
	}

	conn.debugf("commit: %s  status: %d", tx.ID, response.StatusCode)

	err = classify(response.StatusCode, body, fault.CommitRejected)
	if nil != err {
		return nil, err
	}

	return &CommitResult{
		TransactionID: tx.ID,
		StatusCode:    response.StatusCode,
	}, nil
}

// Transaction - fetch a committed transaction by id
func (conn *Connection) Transaction(ctx context.Context, id string) (*transactionrecord.Transaction, error) {
	if "" == id || strings.ContainsAny(id, "/?#") {
		return nil, fault.InvalidTransactionId
	}

	var raw json.RawMessage
	err := util.FetchJSON(ctx, conn.client, conn.resolve("transactions/"+id).String(), &raw)
	if nil != err {
		return nil, fetchError(err, fault.TransactionNotFound)
	}
	return transactionrecord.Packed(raw).Unpack()
}

// Info - fetch the ledger root document
func (conn *Connection) Info(ctx context.Context) (Info, error) {
	info := Info{}
	err := util.FetchJSON(ctx, conn.client, conn.base.String(), &info)
	if nil != err {
		return nil, fetchError(err, fault.TransactionNotFound)
	}
	return info, nil
}

// AssetTransactions - ids of the transactions recorded for a user
func (conn *Connection) AssetTransactions(ctx context.Context, userID string) ([]string, error) {
	u := conn.resolve("assets")
	u.RawQuery = url.Values{"user_id": {userID}}.Encode()

	var ids []string
	err := util.FetchJSON(ctx, conn.client, u.String(), &ids)
	if nil != err {
		return nil, fetchError(err, fault.TransactionNotFound)
	}
	return ids, nil
}

// UserData - the mutable personal data the ledger service holds for a
// user, a data access request; an erased user is NotFound
func (conn *Connection) UserData(ctx context.Context, userID string) (json.RawMessage, error) {
	if "" == userID {
		return nil, fault.InvalidUserId
	}
	u := conn.resolve("users")
	u.RawQuery = url.Values{"user_id": {userID}}.Encode()

	var record json.RawMessage
	err := util.FetchJSON(ctx, conn.client, u.String(), &record)
	if nil != err {
		return nil, fetchError(err, fault.UserNotFound)
	}
	return record, nil
}

func (conn *Connection) resolve(path string) *url.URL {
	return conn.base.ResolveReference(&url.URL{Path: path})
}

func (conn *Connection) debugf(format string, arguments ...interface{}) {
	if nil != conn.log {
		conn.log.Debugf(format, arguments...)
	}
}

// map a reply status to an error class, notFound is the error used
// for a 404
func classify(statusCode int, body []byte, notFound error) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	message := http.StatusText(statusCode)
	reply := errorReply{}
	if nil == json.Unmarshal(body, &reply) && "" != reply.Message {
		message = reply.Message
	}

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%d %s: %w", statusCode, message, notFound)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%d %s: %w", statusCode, message, fault.CommitUnavailable)
	default:
		return fmt.Errorf("%d %s: %w", statusCode, message, fault.CommitRejected)
	}
}

func fetchError(err error, notFound error) error {
	var statusError *util.StatusError
	if errors.As(err, &statusError) {
		return classify(statusError.StatusCode, statusError.Body, notFound)
	}
	var urlError *url.Error
	if errors.As(err, &urlError) {
		return fmt.Errorf("%s: %w", err, fault.LedgerUnreachable)
	}
	return fmt.Errorf("%s: %w", err, fault.MalformedTransaction)
}
