// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stubledger

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/transactionrecord"
)

// APIPrefix - where the ledger API is mounted
const APIPrefix = "/api/v1"

// largest accepted request body
const maximumBodySize = 1 << 20

// accepted values of the mode query parameter
var commitModes = map[string]struct{}{
	"async":  {},
	"sync":   {},
	"commit": {},
}

// error reply body
type errorReply struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handler - the HTTP interface
func (l *Ledger) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route(APIPrefix, func(api chi.Router) {
		api.Get("/", l.handleInfo)
		api.Post("/transactions", l.handleCommit)
		api.Get("/transactions/{id}", l.handleTransaction)
		api.Get("/assets", l.handleAssets)
		api.Get("/users", l.handleUser)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(l.registry, promhttp.HandlerOpts{}))
	return r
}

func (l *Ledger) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": l.options.Version,
		"uptime":  time.Since(l.started).Round(time.Second).String(),
		"docs":    "stub ledger: transactions, assets",
	})
}

func (l *Ledger) handleCommit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer l.metrics.observeCommit(start)

	mode := r.URL.Query().Get("mode")
	if "" == mode {
		mode = "async"
	}
	if _, ok := commitModes[mode]; !ok {
		writeError(w, http.StatusBadRequest, "invalid mode: "+mode)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maximumBodySize+1))
	if nil != err {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body) > maximumBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "transaction too large")
		return
	}

	if l.options.CommitDelay > 0 {
		select {
		case <-time.After(l.options.CommitDelay):
		case <-r.Context().Done():
			return
		}
	}

	tx, err := l.Commit(transactionrecord.Packed(body))
	if nil != err {
		status := http.StatusBadRequest
		if fault.IsErrRejected(err) {
			status = http.StatusForbidden
		} else if !fault.IsErrInvalid(err) && !fault.IsErrExists(err) && !fault.IsErrFormat(err) && !fault.IsErrSigning(err) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, tx)
}

func (l *Ledger) handleTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	packed, err := l.Transaction(id)
	if fault.IsErrNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if nil != err {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(packed)
}

func (l *Ledger) handleAssets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if "" == userID {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ids, err := l.UserTransactions(userID)
	if nil != err {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// data access request: the user's current personal data
func (l *Ledger) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if "" == userID {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	record, err := l.vault.Access(userID)
	if fault.IsErrNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if fault.IsErrInvalid(err) || fault.IsErrFormat(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if nil != err {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorReply{
		Status:  status,
		Message: message,
	})
}
