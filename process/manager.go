// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package process tracks child processes by an opaque index and
// starts, stops, and restarts them. It does not interpret process
// exit; callers observe liveness through their own channels (the
// vault manager watches for inbound control messages from its
// children).
package process

import (
	"os/exec"
	"sync"

	"github.com/maidsafe/vault-manager/fault"
)

// InvalidIndex is a reserved sentinel index; Add never returns it and
// it is never assigned to an entry.
const InvalidIndex = -1

// Spec - everything needed to launch one child
type Spec struct {
	Path             string
	Arguments        []string
	NotificationPort int
}

type entry struct {
	spec    Spec
	cmd     *exec.Cmd
	started bool
}

// Manager - the sole writer of its internal table; all public methods
// are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	entries []*entry
}

// New - an empty process manager
func New() *Manager {
	return &Manager{}
}

// Add - register a process spec and the port it should report back
// to once running, returning its opaque handle. The process is not
// started.
func (m *Manager) Add(spec Spec, notificationPort int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec.NotificationPort = notificationPort
	m.entries = append(m.entries, &entry{spec: spec})
	return len(m.entries) - 1
}

func (m *Manager) lookup(index int) (*entry, error) {
	if index < 0 || index >= len(m.entries) || nil == m.entries[index] {
		return nil, fault.ErrVaultNotFound
	}
	return m.entries[index], nil
}

// Start - launch the process previously registered at index. Starting
// an already-started index is an error.
func (m *Manager) Start(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(index)
	if nil != err {
		return err
	}
	if e.started {
		return fault.ErrProcessAlreadyRun
	}

	cmd := exec.Command(e.spec.Path, e.spec.Arguments...)
	if err := cmd.Start(); nil != err {
		return fault.ErrGeneralError
	}
	e.cmd = cmd
	e.started = true
	return nil
}

// Stop - signal the process at index to terminate. Stopping a
// not-started or already-stopped index is a no-op.
func (m *Manager) Stop(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(index)
	if nil != err {
		return err
	}
	if !e.started {
		return nil
	}

	e.cmd.Process.Kill()
	e.started = false
	e.cmd = nil
	return nil
}

// Restart - stop then start the process at index.
func (m *Manager) Restart(index int) error {
	if err := m.Stop(index); nil != err {
		return err
	}
	return m.Start(index)
}

// LetAllDie - stop every started process without waiting for it to
// exit. The entries stay in the table, marked not started. Used on
// supervisor shutdown.
func (m *Manager) LetAllDie() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if nil != e && e.started {
			e.cmd.Process.Kill()
			e.started = false
			e.cmd = nil
		}
	}
}

// Running - true if index refers to a live, started entry.
func (m *Manager) Running(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(index)
	return nil == err && e.started
}
