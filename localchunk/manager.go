// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package localchunk is a simulation-mode chunk front end that sits
// between application code and a local chunk store: every operation
// sleeps for a configured artificial delay to approximate network
// latency, then optionally takes a cross-process file lock keyed by
// chunk name before delegating the policy decision to the chunk
// action authority.
package localchunk

import (
	"encoding/base32"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maidsafe/vault-manager/caa"
	"github.com/maidsafe/vault-manager/fault"
)

// lockPollInterval - how long acquire sleeps between O_EXCL retries
// against a lock file already held by another process or goroutine.
const lockPollInterval = 5 * time.Millisecond

// Manager - exclusively owns its simulation chunk store and chunk
// action authority for the duration of its lifetime; lockDirectory is
// shared with peer simulators on the same host.
type Manager struct {
	authority     *caa.Authority
	store         caa.ChunkStore
	lockDirectory string
	getWait       time.Duration
	actionWait    time.Duration
}

// New - a local chunk manager delegating policy to authority against
// store, with lockDirectory used for cross-process serialization.
func New(store caa.ChunkStore, lockDirectory string, getWait time.Duration, actionWait time.Duration) *Manager {
	return &Manager{
		authority:     caa.New(store),
		store:         store,
		lockDirectory: lockDirectory,
		getWait:       getWait,
		actionWait:    actionWait,
	}
}

func lockFileName(name []byte) string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(name) + ".lock"
}

// acquire creates the per-chunk lock file exclusively, in the idiom of
// command/bitmarkd/main.go's PID-file guard
// (os.OpenFile(path, os.O_WRONLY|os.O_EXCL|os.O_CREATE, ...)), retrying
// on os.IsExist until the holder removes it or the process dies and
// the file is cleaned up out of band.
func (m *Manager) acquire(name []byte) (string, error) {
	if err := os.MkdirAll(m.lockDirectory, 0755); nil != err {
		return "", fault.ErrConfigDirPath
	}

	path := filepath.Join(m.lockDirectory, lockFileName(name))
	for {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil == err {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return path, nil
		}
		if !os.IsExist(err) {
			return "", fault.ErrConfigDirPath
		}
		time.Sleep(lockPollInterval)
	}
}

func (m *Manager) release(path string) {
	os.Remove(path)
}

// withLock runs f while holding the per-chunk lock when lock is true.
func (m *Manager) withLock(name []byte, lock bool, f func() error) error {
	if !lock {
		return f()
	}

	path, err := m.acquire(name)
	if nil != err {
		return err
	}
	defer m.release(path)
	return f()
}

// GetChunk - fetch a chunk body for publicKey, sleeping getWait
// first and taking the per-chunk lock when lock is requested.
func (m *Manager) GetChunk(name []byte, version []byte, publicKey []byte, lock bool) ([]byte, error) {
	time.Sleep(m.getWait)

	var body []byte
	var opErr error
	err := m.withLock(name, lock, func() error {
		body, opErr = m.authority.Get(name, version, publicKey)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return body, opErr
}

// StoreChunk - commit a new chunk, sleeping actionWait first
func (m *Manager) StoreChunk(name []byte, content []byte, publicKey []byte) error {
	time.Sleep(m.actionWait)

	return m.withLock(name, true, func() error {
		return m.authority.Store(name, content, publicKey)
	})
}

// DeleteChunk - remove a chunk, sleeping actionWait first
func (m *Manager) DeleteChunk(name []byte, version []byte, ownershipProof []byte, publicKey []byte) error {
	time.Sleep(m.actionWait)

	return m.withLock(name, true, func() error {
		return m.authority.Delete(name, version, ownershipProof, publicKey)
	})
}

// ModifyChunk - replace a chunk's body, sleeping actionWait first
func (m *Manager) ModifyChunk(name []byte, content []byte, version []byte, publicKey []byte) ([]byte, error) {
	time.Sleep(m.actionWait)

	var newBody []byte
	var opErr error
	err := m.withLock(name, true, func() error {
		newBody, opErr = m.authority.Modify(name, content, version, publicKey)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return newBody, opErr
}

// StorageSize - bytes currently committed to the simulation store
func (m *Manager) StorageSize() int64 {
	return m.store.Size()
}

// StorageCapacity - the simulation store's configured capacity
func (m *Manager) StorageCapacity() int64 {
	return m.store.Capacity()
}
