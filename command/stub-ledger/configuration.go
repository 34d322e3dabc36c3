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
	"github.com/bitmark-inc/consentsim/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultListen          = "127.0.0.1:9984"
	defaultDatabase        = "stub-ledger.leveldb"
	defaultCertificateFile = "stub-ledger.crt"
	defaultKeyFile         = "stub-ledger.key"

	defaultLogDirectory = "log"
	defaultLogFile      = "stub-ledger.log"
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

// TLSType - optional HTTPS
type TLSType struct {
	Enabled     bool   `gluamapper:"enabled" json:"enabled"`
	Certificate string `gluamapper:"certificate" json:"certificate"`
	PrivateKey  string `gluamapper:"private_key" json:"private_key"`
}

// Configuration - configuration file data
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Listen        string               `gluamapper:"listen" json:"listen"`
	Database      string               `gluamapper:"database" json:"database"`
	UsersFile     string               `gluamapper:"users_file" json:"users_file"`
	TLS           TLSType              `gluamapper:"tls" json:"tls"`
	CommitDelay   int                  `gluamapper:"commit_delay" json:"commit_delay"`
	RejectAll     bool                 `gluamapper:"reject_all" json:"reject_all"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// CommitDelayDuration - delay in milliseconds as a duration
func (c *Configuration) CommitDelayDuration() time.Duration {
	return time.Duration(c.CommitDelay) * time.Millisecond
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if err != nil {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Listen:        defaultListen,
		Database:      defaultDatabase,
		TLS: TLSType{
			Enabled:     false,
			Certificate: defaultCertificateFile,
			PrivateKey:  defaultKeyFile,
		},
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); err != nil {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	listen, err := util.CanonicalListenAddress(options.Listen)
	if nil != err {
		return nil, fmt.Errorf("listen: %q  error: %w", options.Listen, err)
	}
	options.Listen = listen

	if options.CommitDelay < 0 {
		return nil, fmt.Errorf("commit_delay: %d must not be negative", options.CommitDelay)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database,
		&options.TLS.Certificate,
		&options.TLS.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.UsersFile,
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
