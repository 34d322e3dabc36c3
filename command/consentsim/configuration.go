// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consentsim/configuration"
	"github.com/bitmark-inc/consentsim/fault"
	"github.com/bitmark-inc/consentsim/simulator"
	"github.com/bitmark-inc/consentsim/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultUsersFile = "data/users.json"
	defaultTimeout   = 30 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "consentsim.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// Configuration - configuration file data
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Endpoint      string               `gluamapper:"endpoint" json:"endpoint"`
	InsecureTLS   bool                 `gluamapper:"insecure_tls" json:"insecure_tls"`
	Timeout       int                  `gluamapper:"timeout" json:"timeout"`
	UsersFile     string               `gluamapper:"users_file" json:"users_file"`
	Iterations    []int                `gluamapper:"iterations" json:"iterations"`
	Seed          int64                `gluamapper:"seed" json:"seed"`
	Rate          float64              `gluamapper:"rate" json:"rate"`
	ResultsFile   string               `gluamapper:"results_file" json:"results_file"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// TimeoutDuration - the commit timeout
func (c *Configuration) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// will read decode and verify the configuration, a blank file name
// selects the built in defaults relative to the current directory
func getConfiguration(configurationFileName string) (*Configuration, error) {

	options := &Configuration{
		DataDirectory: ".",
		Endpoint:      "", // ledger.Endpoint supplies environment or default
		Timeout:       defaultTimeout,
		UsersFile:     defaultUsersFile,
		Iterations:    []int{simulator.DefaultIterations},
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	// absolute path to the main directory
	baseDirectory, err := os.Getwd()
	if nil != err {
		return nil, err
	}

	if "" != configurationFileName {
		configurationFileName, err = filepath.Abs(filepath.Clean(configurationFileName))
		if nil != err {
			return nil, err
		}
		baseDirectory, _ = filepath.Split(configurationFileName)

		if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
			return nil, err
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = baseDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	if 0 == len(options.Iterations) {
		options.Iterations = []int{simulator.DefaultIterations}
	}
	for _, n := range options.Iterations {
		if n <= 0 {
			return nil, fault.InvalidIterations
		}
	}
	if options.Rate < 0 {
		return nil, fault.InvalidRate
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.UsersFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.ResultsFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// log file must be a plain name inside the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// create directories if they do not already exist
	if err := os.MkdirAll(options.Logging.Directory, 0o700); err != nil {
		return nil, err
	}

	// done
	return options, nil
}
