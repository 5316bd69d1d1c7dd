// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vaultmanager is the control-plane supervisor: it owns the
// persisted config file, spawns and tracks vault child processes
// through the process manager, answers control messages over the
// framed transport, and periodically checks for software updates.
package vaultmanager

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/maidsafe/vault-manager/background"
	"github.com/maidsafe/vault-manager/constants"
	"github.com/maidsafe/vault-manager/process"
	"github.com/maidsafe/vault-manager/transport"
	"github.com/maidsafe/vault-manager/util"
)

// Options - everything the manager needs to bootstrap that is not
// discovered from the config file itself
type Options struct {
	ConfigDirectory string // system app directory, e.g. util.AppDataDir result
	ConfigFilename  string
	UpdateHost      string
	VaultBinaryPath string
	ApplicationName string
	VaultName       string
	ManagerName     string

	MinPort            int
	MaxPort            int
	MaximumConnections int

	// LogLevels is the filter map findLatestLocalVersion restores with
	// logger.LoadLevels after quieting logging to critical-only while
	// it scans the config directory. Defaults to
	// {logger.DefaultTag: "info"} when nil.
	LogLevels map[string]string
}

// Manager - the running supervisor
type Manager struct {
	log *logger.L

	options    Options
	configPath string
	testMode   bool

	// lock order: vaultInfosMu before updateMu, never the reverse
	vaultInfosMu sync.Mutex
	byIdentity   map[string]*VaultInfo
	byProcess    map[int]*VaultInfo

	updateMu       sync.Mutex
	updateInterval time.Duration
	logLevels      map[string]string

	processes *process.Manager
	transport *transport.Transport
	client    *http.Client
	bg        *background.T

	watcher     *fsnotify.Watcher
	watcherDone chan struct{}
}

// New - construct a manager bound to options; does not touch disk or
// the network. Call Bootstrap to load config and start listening.
func New(options Options) *Manager {
	logLevels := options.LogLevels
	if nil == logLevels {
		logLevels = map[string]string{logger.DefaultTag: "info"}
	}
	m := &Manager{
		log:         logger.New("vaultmanager"),
		options:     options,
		logLevels:   logLevels,
		byIdentity:  make(map[string]*VaultInfo),
		byProcess:   make(map[int]*VaultInfo),
		processes:   process.New(),
		client:      &http.Client{Timeout: 30 * time.Second},
		watcherDone: make(chan struct{}),
	}
	m.transport = transport.New(m.dispatch, m.reportError)
	return m
}

// Bootstrap - resolve and load the config file, add every persisted
// VaultInfo to the process manager (starting it if requested), run
// one synchronous update check, and start listening for control
// messages.
func (m *Manager) Bootstrap() error {
	path, testMode := resolveConfigPath(m.options.ConfigFilename, m.options.ConfigDirectory)
	m.configPath = path
	m.testMode = testMode

	if !util.EnsureFileExists(path) {
		fresh := &vaultManagerConfig{UpdateIntervalSeconds: uint64(constants.MinUpdateInterval.Seconds())}
		if err := writeConfigFile(path, fresh); nil != err {
			return err
		}
	}

	config, err := readConfigFile(path, testMode)
	if nil != err {
		return err
	}

	m.updateMu.Lock()
	m.updateInterval = time.Duration(config.UpdateIntervalSeconds) * time.Second
	if 0 == m.updateInterval {
		m.updateInterval = constants.MinUpdateInterval
	}
	m.updateMu.Unlock()

	m.vaultInfosMu.Lock()
	for _, v := range config.VaultInfos {
		index := m.processes.Add(m.vaultProcessSpec(v), v.ClientPort)
		v.ProcessIndex = index
		m.byIdentity[string(v.Keys.Identity)] = v
		m.byProcess[index] = v
		if v.RequestedToRun {
			if err := m.processes.Start(index); nil != err {
				m.log.Warnf("failed to start vault %s: %s", v.AccountName, err)
			}
		}
	}
	m.vaultInfosMu.Unlock()

	m.checkForUpdates()

	if err := m.watchConfig(); nil != err {
		m.log.Warnf("config file watcher not started: %s", err)
	}

	m.transport.SetMaximumConnections(m.options.MaximumConnections)

	minPort, maxPort := m.options.MinPort, m.options.MaxPort
	if 0 == minPort {
		minPort = constants.MinPort
	}
	if 0 == maxPort {
		maxPort = constants.MaxPort
	}
	if _, err := m.transport.StartListeningOnRange("", minPort, maxPort); nil != err {
		return err
	}

	m.bg = background.Start(background.Processes{
		func(args interface{}, shutdown <-chan bool, done chan<- bool) {
			m.StartUpdateLoop(shutdown, done)
		},
	}, nil)
	return nil
}

// Shutdown - stop the update loop, stop listening, and let every
// supervised vault die
func (m *Manager) Shutdown() {
	if nil != m.watcher {
		close(m.watcherDone)
	}
	if nil != m.bg {
		background.Stop(m.bg)
	}
	m.transport.Close()
	m.processes.LetAllDie()
}

func (m *Manager) vaultProcessSpec(v *VaultInfo) process.Spec {
	arguments := []string{}
	if "" != v.BootstrapEndpoint {
		arguments = append(arguments, "--peer", v.BootstrapEndpoint)
	}
	arguments = append(arguments,
		"--chunk_path", v.ChunkstorePath,
		"--chunk_capacity", strconv.FormatInt(v.ChunkstoreCapacity, 10),
		"--start",
	)
	return process.Spec{
		Path:      m.options.VaultBinaryPath,
		Arguments: arguments,
	}
}

func (m *Manager) persistConfig() error {
	m.vaultInfosMu.Lock()
	infos := make([]*VaultInfo, 0, len(m.byProcess))
	for _, v := range m.byProcess {
		infos = append(infos, v)
	}
	m.vaultInfosMu.Unlock()

	m.updateMu.Lock()
	interval := uint64(m.updateInterval.Seconds())
	m.updateMu.Unlock()

	return writeConfigFile(m.configPath, &vaultManagerConfig{
		UpdateIntervalSeconds: interval,
		VaultInfos:            infos,
	})
}
