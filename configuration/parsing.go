// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/maidsafe/vault-manager/constants"
)

// basic defaults (directories and files are relative to the "DataDirectory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultPidFile       = "vault_manager.pid"

	defaultChunkDirectory = "chunks"
	defaultChunkDatabase  = "chunkstore.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "vault_manager.log"
	defaultLogCount     = 10          // number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultVaultBinaryName = "vault"
)

// LoglevelMap - the per-subsystem log verbosity table
type LoglevelMap map[string]string

var defaultLogLevels = LoglevelMap{
	"main":            "info",
	"vaultmanager":    "info",
	"transport":       "info",
	"caa":             "info",
	logger.DefaultTag: "critical",
}

// TransportType - listening port range and connection ceiling for the
// framed TCP transport
type TransportType struct {
	MinPort            int `gluamapper:"min_port"`
	MaxPort            int `gluamapper:"max_port"`
	MaximumConnections int `gluamapper:"maximum_connections"`
}

// UpdateType - the update host consulted for bootstrap contacts and
// versioned vault binaries
type UpdateType struct {
	Host            string `gluamapper:"host"`
	CheckInterval   int    `gluamapper:"check_interval_seconds"`
	VaultBinaryName string `gluamapper:"vault_binary_name"`
}

// LoggerType - log file rotation and per-tag verbosity
type LoggerType struct {
	Directory string            `gluamapper:"directory"`
	File      string            `gluamapper:"file"`
	Size      int               `gluamapper:"size"`
	Count     int               `gluamapper:"count"`
	Levels    map[string]string `gluamapper:"levels"`
}

// ChunkStoreType - location of the local leveldb-backed chunk store
type ChunkStoreType struct {
	Directory string `gluamapper:"directory"`
	Name      string `gluamapper:"name"`
}

// Configuration - top level daemon configuration
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory"`
	PidFile       string `gluamapper:"pidfile"`

	ChunkStore ChunkStoreType `gluamapper:"chunk_store"`
	Transport  TransportType  `gluamapper:"transport"`
	Update     UpdateType     `gluamapper:"update"`
	Logging    LoggerType     `gluamapper:"logging"`
}

// GetConfiguration - read, decode, and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       defaultPidFile,

		ChunkStore: ChunkStoreType{
			Directory: defaultChunkDirectory,
			Name:      defaultChunkDatabase,
		},

		Transport: TransportType{
			MinPort:            constants.MinPort,
			MaxPort:            constants.MaxPort,
			MaximumConnections: 100,
		},

		Update: UpdateType{
			CheckInterval:   3600,
			VaultBinaryName: defaultVaultBinaryName,
		},

		Logging: LoggerType{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	if options.Transport.MinPort <= 0 || options.Transport.MaxPort < options.Transport.MinPort {
		return nil, fmt.Errorf("transport: port range %d-%d is invalid", options.Transport.MinPort, options.Transport.MaxPort)
	}

	// force all relevant items to be absolute paths
	mustBeAbsolute := []*string{
		&options.PidFile,
		&options.ChunkStore.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(options.DataDirectory, *f)
	}

	// fail if any of these are not simple file names i.e. must not contain a path separator
	// then add the correct directory prefix, file item is first and corresponding directory is second
	mustNotBePaths := [][2]*string{
		{&options.ChunkStore.Name, &options.ChunkStore.Directory},
		{&options.Logging.File, &options.Logging.Directory},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			*f[0] = ensureAbsolute(*f[1], *f[0])
		default:
			return nil, fmt.Errorf("files: %q is not a plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{&options.ChunkStore.Directory, &options.Logging.Directory} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	return options, nil
}

// ensure the path is absolute
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
