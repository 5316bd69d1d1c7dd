// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/maidsafe/vault-manager/configuration"
	"github.com/maidsafe/vault-manager/vaultmanager"
	"github.com/maidsafe/vault-manager/version"
)

// set by the linker: go build -ldflags "-X main.buildVersion=M.N" ./...
var buildVersion = "zero"

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

	program, options, _, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		fmt.Printf("%s\n", version.Version)
		return
	}

	if len(options["help"]) > 0 {
		fmt.Printf("usage: %s --config-file=FILE [--verbose] [--quiet]\n", program)
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", buildVersion)
	log.Debugf("configuration: %#v", theConfiguration)

	// optional PID file, for use when not running under a supervisor
	// program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	vaultBinaryPath := filepath.Join(theConfiguration.DataDirectory, theConfiguration.Update.VaultBinaryName)
	manager := vaultmanager.New(vaultmanager.Options{
		ConfigDirectory:    theConfiguration.DataDirectory,
		ConfigFilename:     "vault_manager_config",
		UpdateHost:         theConfiguration.Update.Host,
		VaultBinaryPath:    vaultBinaryPath,
		ApplicationName:    "vault-manager",
		VaultName:          theConfiguration.Update.VaultBinaryName,
		ManagerName:        program,
		MinPort:            theConfiguration.Transport.MinPort,
		MaxPort:            theConfiguration.Transport.MaxPort,
		MaximumConnections: theConfiguration.Transport.MaximumConnections,
	})

	log.Info("bootstrap vault manager")
	if err := manager.Bootstrap(); nil != err {
		log.Criticalf("bootstrap error: %s", err)
		exitwithstatus.Message("bootstrap error: %s", err)
	}
	defer manager.Shutdown()

	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
