// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"os"
	"path/filepath"
	"time"

	"github.com/maidsafe/vault-manager/constants"
	"github.com/maidsafe/vault-manager/identity"
)

// dispatch is the transport.MessageHandler bound to this manager's
// transport. Malformed envelopes and unknown message types are
// silently dropped, a defensive posture against adversarial clients.
// A recognised type whose body does not parse is answered with that
// type's negative or empty response.
func (m *Manager) dispatch(payload []byte, peer string) ([]byte, time.Duration) {
	request, err := unpackEnvelope(payload)
	if nil != err {
		return nil, constants.ImmediateTimeout
	}

	switch request.Type {
	case Ping:
		return m.replyEnvelope(Ping, request.Body), constants.ImmediateTimeout
	case StartVaultRequest:
		return m.handleStartVault(request.Body), constants.ImmediateTimeout
	case VaultIdentityRequest:
		return m.handleVaultIdentity(request.Body), constants.ImmediateTimeout
	case StopVaultRequest:
		return m.handleStopVault(request.Body), constants.ImmediateTimeout
	case UpdateIntervalRequest:
		return m.handleUpdateInterval(request.Body), constants.ImmediateTimeout
	default:
		m.log.Warnf("dropping control message with unknown type from %s", peer)
		return nil, constants.ImmediateTimeout
	}
}

func (m *Manager) reportError(err error, peer string) {
	m.log.Debugf("transport error from %s: %s", peer, err)
}

func (m *Manager) replyEnvelope(t MessageType, body []byte) []byte {
	e := &envelope{Type: t, Body: body}
	return e.pack()
}

type boolResult struct {
	Result bool
}

func (r *boolResult) pack() []byte {
	if r.Result {
		return []byte{1}
	}
	return []byte{0}
}

// handleStartVault runs the start-vault flow: derive the short vault
// id, prepare its bootstrap file, register and start the child, then
// wait up to StartVaultHandshakeTimeout for it to identify itself.
func (m *Manager) handleStartVault(body []byte) []byte {
	request, err := unpackStartVaultRequest(body)
	if nil != err {
		return m.replyEnvelope(StartVaultResponse, (&boolResult{}).pack())
	}

	shortID := identity.ShortVaultID(request.Keys.Identity)
	vaultDir := filepath.Join(m.options.ConfigDirectory, shortID)
	if err := os.MkdirAll(vaultDir, 0700); nil != err {
		return m.replyEnvelope(StartVaultResponse, (&boolResult{}).pack())
	}

	bootstrapCopy := filepath.Join(m.options.ConfigDirectory, "bootstrap-"+shortID+".dat")
	globalBootstrap := filepath.Join(m.options.ConfigDirectory, constants.BootstrapFilename)
	if !fileExists(bootstrapCopy) {
		if err := copyFile(globalBootstrap, bootstrapCopy); nil != err {
			return m.replyEnvelope(StartVaultResponse, (&boolResult{}).pack())
		}
	}

	v := NewVaultInfo()
	v.AccountName = request.AccountName
	v.Keys = request.Keys
	v.ChunkstorePath = vaultDir
	v.RequestedToRun = true
	v.BootstrapEndpoint = request.BootstrapEndpoint

	m.vaultInfosMu.Lock()
	index := m.processes.Add(m.vaultProcessSpec(v), v.ClientPort)
	v.ProcessIndex = index
	m.byIdentity[string(v.Keys.Identity)] = v
	m.byProcess[index] = v
	m.vaultInfosMu.Unlock()

	if err := m.processes.Start(index); nil != err {
		return m.replyEnvelope(StartVaultResponse, (&boolResult{}).pack())
	}

	if !v.WaitForVaultRequest(constants.StartVaultHandshakeTimeout) {
		return m.replyEnvelope(StartVaultResponse, (&boolResult{}).pack())
	}

	m.persistConfig()
	return m.replyEnvelope(StartVaultResponse, (&boolResult{Result: true}).pack())
}

// handleVaultIdentity answers a spawned vault's claim to its own
// identity and wakes any goroutine blocked in the start-vault flow.
func (m *Manager) handleVaultIdentity(body []byte) []byte {
	request, err := unpackVaultIdentityRequest(body)
	if nil != err {
		return m.replyEnvelope(VaultIdentityResponse, (&vaultIdentityResponse{}).pack())
	}

	m.vaultInfosMu.Lock()
	v, ok := m.byProcess[int(request.ProcessIndex)]
	m.vaultInfosMu.Unlock()
	if !ok {
		return m.replyEnvelope(VaultIdentityResponse, (&vaultIdentityResponse{}).pack())
	}

	response := &vaultIdentityResponse{AccountName: v.AccountName, Keys: v.Keys}
	v.SignalVaultRequested()
	return m.replyEnvelope(VaultIdentityResponse, response.pack())
}

// handleStopVault locates the vault by identity, validates the
// caller's proof, and if it checks out stops the child and clears
// requested_to_run.
func (m *Manager) handleStopVault(body []byte) []byte {
	request, err := unpackStopVaultRequest(body)
	if nil != err {
		return m.replyEnvelope(VaultShutdownResponse, (&boolResult{}).pack())
	}

	m.vaultInfosMu.Lock()
	v, ok := m.byIdentity[string(request.Identity)]
	m.vaultInfosMu.Unlock()
	if !ok {
		return m.replyEnvelope(VaultShutdownResponse, (&boolResult{}).pack())
	}

	if err := identity.CheckSignature(request.Data, identity.Signature(request.Signature), v.Keys.PublicKey); nil != err {
		return m.replyEnvelope(VaultShutdownResponse, (&boolResult{}).pack())
	}

	m.processes.Stop(v.ProcessIndex)

	m.vaultInfosMu.Lock()
	v.RequestedToRun = false
	m.vaultInfosMu.Unlock()

	m.persistConfig()
	return m.replyEnvelope(VaultShutdownResponse, (&boolResult{Result: true}).pack())
}

// handleUpdateInterval reads or changes the update cadence,
// respecting the fixed lock order of vaultInfosMu before updateMu (no
// vault info access is needed here, so only updateMu is taken).
func (m *Manager) handleUpdateInterval(body []byte) []byte {
	request, err := unpackUpdateIntervalRequest(body)
	if nil != err {
		return m.replyEnvelope(UpdateIntervalResponse, (&updateIntervalRequest{}).pack())
	}

	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	if 0 == request.NewUpdateIntervalSeconds {
		response := &updateIntervalRequest{NewUpdateIntervalSeconds: uint64(m.updateInterval.Seconds())}
		return m.replyEnvelope(UpdateIntervalResponse, response.pack())
	}

	requested := time.Duration(request.NewUpdateIntervalSeconds) * time.Second
	if requested < constants.MinUpdateInterval || requested > constants.MaxUpdateInterval {
		response := &updateIntervalRequest{NewUpdateIntervalSeconds: constants.UpdateIntervalRejected}
		return m.replyEnvelope(UpdateIntervalResponse, response.pack())
	}

	m.updateInterval = requested
	go m.persistConfig()
	response := &updateIntervalRequest{NewUpdateIntervalSeconds: request.NewUpdateIntervalSeconds}
	return m.replyEnvelope(UpdateIntervalResponse, response.pack())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return nil == err
}

func copyFile(src string, dst string) error {
	data, err := os.ReadFile(src)
	if nil != err {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
