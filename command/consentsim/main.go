// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/ledger"
	"github.com/bitmark-inc/consentsim/simulator"
	"github.com/bitmark-inc/consentsim/submitter"
	"github.com/bitmark-inc/consentsim/users"
	"github.com/bitmark-inc/consentsim/util"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

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

	if len(options["help"]) > 0 || len(arguments) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] [--config-file=FILE]", program)
	}

	if len(options["config-file"]) > 1 {
		exitwithstatus.Message("%s: only one config-file option is allowed, %d were detected", program, len(options["config-file"]))
	}

	verbose := len(options["verbose"]) > 0
	quiet := len(options["quiet"]) > 0

	// read options and parse the configuration file
	configurationFile := ""
	if 1 == len(options["config-file"]) {
		configurationFile = options["config-file"][0]
	}
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if verbose {
		b, _ := json.MarshalIndent(theConfiguration, "", "  ")
		fmt.Fprintf(os.Stderr, "configuration: %s\n", b)
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
	defer log.Info("shutting down…")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// the user list is read once; a bad file is fatal
	records, err := users.Load(theConfiguration.UsersFile)
	if nil != err {
		log.Criticalf("users file: %q  error: %s", theConfiguration.UsersFile, err)
		exitwithstatus.Message("%s: cannot load users: %s", program, err)
	}
	log.Infof("loaded: %d users from: %q", len(records), theConfiguration.UsersFile)

	// single shared connection
	endpoint := ledger.Endpoint(theConfiguration.Endpoint)
	conn, err := ledger.Connect(logger.New("ledger"), endpoint, ledger.Options{
		Timeout:     theConfiguration.TimeoutDuration(),
		InsecureTLS: theConfiguration.InsecureTLS,
	})
	if nil != err {
		log.Criticalf("ledger endpoint: %q  error: %s", endpoint, err)
		exitwithstatus.Message("%s: ledger endpoint: %q  error: %s", program, endpoint, err)
	}

	seed := theConfiguration.Seed
	if 0 == seed {
		seed = time.Now().UnixNano()
	}
	log.Infof("random seed: %d", seed)
	rng := rand.New(rand.NewSource(seed))

	simulatorOptions := []simulator.Option{
		simulator.WithRate(theConfiguration.Rate),
	}

	if "" != theConfiguration.ResultsFile {
		appending := util.EnsureFileExists(theConfiguration.ResultsFile)
		f, err := os.OpenFile(theConfiguration.ResultsFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if nil != err {
			exitwithstatus.Message("%s: results file: %q  error: %s", program, theConfiguration.ResultsFile, err)
		}
		defer f.Close()
		simulatorOptions = append(simulatorOptions, simulator.WithRecorder(simulator.NewCSVRecorder(f, appending)))
	}

	s := submitter.New(logger.New("submitter"), conn)
	sim, err := simulator.New(logger.New("simulator"), records, s, rng, os.Stdout, simulatorOptions...)
	if nil != err {
		exitwithstatus.Message("%s: simulator setup error: %s", program, err)
	}

	// a signal stops the run before the next iteration
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	go func() {
		select {
		case sig := <-ch:
			log.Infof("received signal: %v", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	for _, iterations := range theConfiguration.Iterations {
		log.Infof("level: %d iterations", iterations)

		summary, err := sim.Run(ctx, iterations)
		if !quiet && nil != summary {
			summary.Print(os.Stderr)
		}
		if nil != err {
			log.Warnf("run stopped: %s", err)
			break
		}
	}
}
