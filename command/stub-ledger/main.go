// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/storage"
	"github.com/bitmark-inc/consentsim/stubledger"
	"github.com/bitmark-inc/consentsim/util"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// limits for the HTTP listener
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands are allowed to access the internal data
	// they do not need the logger running
	if len(arguments) > 0 && processSetupCommand(program, arguments, theConfiguration) {
		return
	}

	if len(options["verbose"]) > 0 {
		b, _ := json.MarshalIndent(theConfiguration, "", "  ")
		fmt.Printf("configuration: %s\n", b)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0o600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.Database)
	store, err := storage.Open(theConfiguration.Database, false)
	if nil != err {
		log.Criticalf("storage open error: %s", err)
		exitwithstatus.Message("%s: storage open error: %s", program, err)
	}
	defer store.Close()

	theLedger := stubledger.New(logger.New("ledger"), store, stubledger.Options{
		CommitDelay: theConfiguration.CommitDelayDuration(),
		RejectAll:   theConfiguration.RejectAll,
		Version:     version,
	})
	if theConfiguration.RejectAll {
		log.Warn("all commits will be rejected")
	}

	if "" != theConfiguration.UsersFile {
		count, err := seedPersonalData(theLedger.Vault(), theConfiguration.UsersFile)
		if nil != err {
			log.Criticalf("users file: %q  error: %s", theConfiguration.UsersFile, err)
			exitwithstatus.Message("%s: users file: %q  error: %s", program, theConfiguration.UsersFile, err)
		}
		log.Infof("personal data for: %d users from: %q", count, theConfiguration.UsersFile)
	}

	server := &http.Server{
		Addr:              theConfiguration.Listen,
		Handler:           theLedger.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	if theConfiguration.TLS.Enabled {
		tlsConfiguration, err := loadTLSConfiguration(theConfiguration.TLS.Certificate, theConfiguration.TLS.PrivateKey)
		if nil != err {
			log.Criticalf("certificate: %q  error: %s", theConfiguration.TLS.Certificate, err)
			exitwithstatus.Message("%s: certificate: %q  error: %s  (try: %s --config-file=%q gen-cert)", program, theConfiguration.TLS.Certificate, err, program, configurationFile)
		}
		server.TLSConfig = tlsConfiguration

		fingerprint, err := util.CertificateFingerprint(theConfiguration.TLS.Certificate)
		if nil == err {
			log.Infof("certificate SHA256 fingerprint: %s", fingerprint)
		}
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Infof("listening on: %s  tls: %t", server.Addr, nil != server.TLSConfig)
		var err error
		if nil != server.TLSConfig {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverDone <- err
	}()

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		if 0 == len(options["quiet"]) {
			fmt.Printf("\nreceived signal: %v\n", sig)
			fmt.Printf("\nshutting down…\n")
		}
	case err := <-serverDone:
		if nil != err {
			log.Criticalf("listener error: %s", err)
			exitwithstatus.Message("%s: listener error: %s", program, err)
		}
		return
	}

	log.Info("shutting down…")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); nil != err {
		log.Errorf("shutdown error: %s", err)
	}
	<-serverDone
}
