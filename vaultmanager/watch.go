// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchConfig watches the config file for changes made outside this
// process (an operator hand-editing update_interval, say) and reloads
// the in-memory update interval when it sees one. Modeled on
// command/recorderd/file_watcher.go's single-file fsnotify watcher; a
// removed config file is logged and otherwise ignored, since Bootstrap
// already wrote it once and persistConfig will recreate it.
func (m *Manager) watchConfig() error {
	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return err
	}

	directory := filepath.Dir(m.configPath)
	if err := watcher.Add(directory); nil != err {
		watcher.Close()
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(m.configPath) {
					continue
				}
				switch {
				case event.Op&fsnotify.Remove == fsnotify.Remove:
					m.log.Warnf("config file %s removed", m.configPath)
				case event.Op&fsnotify.Write == fsnotify.Write:
					m.reloadUpdateInterval()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.log.Errorf("config watcher error: %s", err)
			case <-m.watcherDone:
				watcher.Close()
				return
			}
		}
	}()

	m.watcher = watcher
	return nil
}

// reloadUpdateInterval re-reads only the update interval from disk,
// leaving the in-memory vault info table (the source of truth while
// the process is alive) untouched.
func (m *Manager) reloadUpdateInterval() {
	config, err := readConfigFile(m.configPath, m.testMode)
	if nil != err {
		m.log.Warnf("config reload failed: %s", err)
		return
	}
	interval := time.Duration(config.UpdateIntervalSeconds) * time.Second
	if 0 == interval {
		return
	}

	m.updateMu.Lock()
	m.updateInterval = interval
	m.updateMu.Unlock()
	m.log.Infof("update interval reloaded from disk: %s", interval)
}
