// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/maidsafe/vault-manager/util"
)

// resolveConfigPath - prefer ./ConfigFilename if it exists, else
// systemDir/ConfigFilename, falling back to the platform's standard
// per-user application data directory when the caller didn't name one
// explicitly. testMode reports whether the local path was chosen, in
// which case a single-byte (empty-set) config is legal.
func resolveConfigPath(configFilename string, systemDir string) (path string, testMode bool) {
	if util.EnsureFileExists(configFilename) {
		return configFilename, true
	}
	if "" == systemDir {
		systemDir = util.AppDataDir("vault-manager", false)
	}
	return filepath.Join(systemDir, configFilename), false
}

// readConfigFile - load and parse the config record at path. A
// zero-length or single-byte file is treated as an empty
// configuration when testMode allows it.
func readConfigFile(path string, testMode bool) (*vaultManagerConfig, error) {
	data, err := ioutil.ReadFile(path)
	if nil != err {
		return nil, err
	}

	if len(data) <= 1 && testMode {
		return &vaultManagerConfig{}, nil
	}

	return unpackVaultManagerConfig(data)
}

// writeConfigFile - persist config to path, creating its directory if
// necessary. The write is not transactionally atomic: a crash midway
// leaves the previous file truncated, tolerated per the whole-file
// snapshot contract.
func writeConfigFile(path string, config *vaultManagerConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); nil != err {
		return err
	}
	return ioutil.WriteFile(path, config.pack(), 0600)
}
