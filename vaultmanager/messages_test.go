// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/maidsafe/vault-manager/constants"
)

func newTestManager(t *testing.T) (*Manager, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "vaultmanager-test")
	if nil != err {
		t.Fatalf("TempDir failed: %s", err)
	}

	m := New(Options{
		ConfigDirectory: dir,
		ConfigFilename:  "vault_manager_config",
	})
	return m, func() { os.RemoveAll(dir) }
}

func TestDispatchPingEchoes(t *testing.T) {
	m, cleanup := newTestManager(t)
	defer cleanup()

	request := (&envelope{Type: Ping, Body: []byte("hello")}).pack()
	response, timeout := m.dispatch(request, "peer")
	if constants.ImmediateTimeout != timeout {
		t.Errorf("timeout = %v, expected ImmediateTimeout", timeout)
	}
	decoded, err := unpackEnvelope(response)
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	if Ping != decoded.Type {
		t.Errorf("Type = %v, expected Ping", decoded.Type)
	}
	if "hello" != string(decoded.Body) {
		t.Errorf("Body = %q, expected %q", decoded.Body, "hello")
	}
}

func TestDispatchMalformedEnvelopeIsDropped(t *testing.T) {
	m, cleanup := newTestManager(t)
	defer cleanup()

	response, timeout := m.dispatch([]byte("not an envelope"), "peer")
	if nil != response {
		t.Errorf("response = %v, expected nil for malformed envelope", response)
	}
	if constants.ImmediateTimeout != timeout {
		t.Errorf("timeout = %v, expected ImmediateTimeout", timeout)
	}
}

func TestHandleUpdateIntervalReadOnly(t *testing.T) {
	m, cleanup := newTestManager(t)
	defer cleanup()
	m.updateInterval = 10 * time.Minute

	request := (&envelope{Type: UpdateIntervalRequest, Body: (&updateIntervalRequest{}).pack()}).pack()
	response, _ := m.dispatch(request, "peer")
	decoded, err := unpackEnvelope(response)
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	body, err := unpackUpdateIntervalRequest(decoded.Body)
	if nil != err {
		t.Fatalf("unpack body failed: %s", err)
	}
	if 600 != body.NewUpdateIntervalSeconds {
		t.Errorf("interval = %d, expected 600", body.NewUpdateIntervalSeconds)
	}
}

func TestHandleUpdateIntervalOutOfRangeIsRejected(t *testing.T) {
	m, cleanup := newTestManager(t)
	defer cleanup()
	m.updateInterval = 10 * time.Minute

	request := (&envelope{
		Type: UpdateIntervalRequest,
		Body: (&updateIntervalRequest{NewUpdateIntervalSeconds: 1}).pack(),
	}).pack()
	response, _ := m.dispatch(request, "peer")
	decoded, _ := unpackEnvelope(response)
	body, err := unpackUpdateIntervalRequest(decoded.Body)
	if nil != err {
		t.Fatalf("unpack body failed: %s", err)
	}
	if constants.UpdateIntervalRejected != body.NewUpdateIntervalSeconds {
		t.Errorf("interval = %d, expected rejection sentinel", body.NewUpdateIntervalSeconds)
	}
}

func TestHandleVaultIdentityUnknownProcessReturnsEmpty(t *testing.T) {
	m, cleanup := newTestManager(t)
	defer cleanup()

	request := (&envelope{
		Type: VaultIdentityRequest,
		Body: (&vaultIdentityRequest{ProcessIndex: 99}).pack(),
	}).pack()
	response, _ := m.dispatch(request, "peer")
	decoded, _ := unpackEnvelope(response)

	inner, err := unpackVaultIdentityResponse(decoded.Body)
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	if "" != inner.AccountName {
		t.Errorf("AccountName = %q, expected empty", inner.AccountName)
	}
}
