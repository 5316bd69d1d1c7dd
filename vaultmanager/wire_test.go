// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"testing"

	"github.com/maidsafe/vault-manager/identity"
)

func TestVaultManagerConfigRoundTrip(t *testing.T) {
	keys, _ := identity.GenerateKeyPair()
	v := NewVaultInfo()
	v.AccountName = "alice"
	v.Keys = keys
	v.ChunkstorePath = "/tmp/chunks/alice"
	v.ChunkstoreCapacity = 1 << 20
	v.RequestedToRun = true

	config := &vaultManagerConfig{
		UpdateIntervalSeconds: 3600,
		VaultInfos:            []*VaultInfo{v},
	}

	decoded, err := unpackVaultManagerConfig(config.pack())
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	if 3600 != decoded.UpdateIntervalSeconds {
		t.Errorf("UpdateIntervalSeconds = %d, expected 3600", decoded.UpdateIntervalSeconds)
	}
	if 1 != len(decoded.VaultInfos) {
		t.Fatalf("VaultInfos length = %d, expected 1", len(decoded.VaultInfos))
	}
	got := decoded.VaultInfos[0]
	if "alice" != got.AccountName {
		t.Errorf("AccountName = %q, expected %q", got.AccountName, "alice")
	}
	if "/tmp/chunks/alice" != got.ChunkstorePath {
		t.Errorf("ChunkstorePath = %q, expected %q", got.ChunkstorePath, "/tmp/chunks/alice")
	}
	if int64(1<<20) != got.ChunkstoreCapacity {
		t.Errorf("ChunkstoreCapacity = %d, expected %d", got.ChunkstoreCapacity, int64(1<<20))
	}
	if !got.RequestedToRun {
		t.Errorf("RequestedToRun = false, expected true")
	}
	if string(keys.Identity) != string(got.Keys.Identity) {
		t.Errorf("Keys.Identity mismatch after round trip")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	e := &envelope{Type: StartVaultRequest, Body: []byte("payload")}
	decoded, err := unpackEnvelope(e.pack())
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	if StartVaultRequest != decoded.Type {
		t.Errorf("Type = %v, expected StartVaultRequest", decoded.Type)
	}
	if "payload" != string(decoded.Body) {
		t.Errorf("Body = %q, expected %q", decoded.Body, "payload")
	}
}

func TestStopVaultRequestRoundTrip(t *testing.T) {
	r := &stopVaultRequest{Identity: []byte("id"), Data: []byte("data"), Signature: []byte("sig")}
	decoded, err := unpackStopVaultRequest(r.pack())
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	if "id" != string(decoded.Identity) || "data" != string(decoded.Data) || "sig" != string(decoded.Signature) {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestUpdateIntervalRequestRoundTrip(t *testing.T) {
	r := &updateIntervalRequest{NewUpdateIntervalSeconds: 600}
	decoded, err := unpackUpdateIntervalRequest(r.pack())
	if nil != err {
		t.Fatalf("unpack failed: %s", err)
	}
	if 600 != decoded.NewUpdateIntervalSeconds {
		t.Errorf("NewUpdateIntervalSeconds = %d, expected 600", decoded.NewUpdateIntervalSeconds)
	}
}
