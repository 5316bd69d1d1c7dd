// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"sync"
	"time"

	"github.com/maidsafe/vault-manager/identity"
)

// VaultInfo - one supervised vault: its process handle, identity, and
// the once-only handshake state used to learn its claimed identity.
type VaultInfo struct {
	ProcessIndex       int
	AccountName        string
	Keys               *identity.KeyPair
	ChunkstorePath     string
	ChunkstoreCapacity int64
	ClientPort         int
	VaultPort          int
	RequestedToRun     bool
	BootstrapEndpoint  string

	mu             sync.Mutex
	cond           *sync.Cond
	vaultRequested bool
}

// NewVaultInfo - a VaultInfo with its condition variable wired to its
// own mutex
func NewVaultInfo() *VaultInfo {
	v := &VaultInfo{}
	v.cond = sync.NewCond(&v.mu)
	return v
}

// SignalVaultRequested - mark the handshake satisfied and wake any
// waiter; called when the spawned child's VAULT_IDENTITY_REQUEST
// arrives.
func (v *VaultInfo) SignalVaultRequested() {
	v.mu.Lock()
	v.vaultRequested = true
	v.cond.Broadcast()
	v.mu.Unlock()
}

// WaitForVaultRequest - block up to timeout for SignalVaultRequested,
// returning whether it fired in time. sync.Cond has no built-in
// timeout, so a timer goroutine broadcasts once the deadline passes
// to unblock a waiter that would otherwise wait forever.
func (v *VaultInfo) WaitForVaultRequest(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	v.mu.Lock()
	defer v.mu.Unlock()

	for !v.vaultRequested && time.Now().Before(deadline) {
		timer := time.AfterFunc(time.Until(deadline), func() {
			v.mu.Lock()
			v.cond.Broadcast()
			v.mu.Unlock()
		})
		v.cond.Wait()
		timer.Stop()
	}
	return v.vaultRequested
}
