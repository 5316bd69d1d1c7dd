// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"github.com/maidsafe/vault-manager/fault"
	"github.com/maidsafe/vault-manager/identity"
	"github.com/maidsafe/vault-manager/wire"
)

// record tags, Varint64 encoded ahead of every packed record
const (
	configTag      = 1
	vaultInfoTag   = 2
	keysTag        = 3
	envelopeTag    = 4
	pingTag        = 5
	startVaultTag  = 6
	vaultIDTag     = 7
	stopVaultTag   = 8
	updateIntvlTag = 9
	vaultIDRespTag = 10
)

func packKeys(keys *identity.KeyPair) wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, keysTag)
	buffer = wire.AppendBytes(buffer, keys.Identity)
	buffer = wire.AppendBytes(buffer, keys.PublicKey)
	buffer = wire.AppendBytes(buffer, keys.PrivateKey)
	return buffer
}

func unpackKeys(record []byte) (*identity.KeyPair, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != keysTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	id, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	pub, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	priv, _, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}

	return &identity.KeyPair{
		Identity:   id,
		PublicKey:  pub,
		PrivateKey: priv,
	}, nil
}

// packVaultInfo - encode the persisted subset of a VaultInfo:
// account_name, keys_blob, chunkstore_path, chunkstore_capacity,
// requested_to_run. process_index, client_port and vault_port are
// runtime-only and never written to disk.
func packVaultInfo(v *VaultInfo) wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, vaultInfoTag)
	buffer = wire.AppendString(buffer, v.AccountName)
	buffer = wire.AppendBytes(buffer, packKeys(v.Keys))
	buffer = wire.AppendString(buffer, v.ChunkstorePath)
	buffer = wire.AppendUint64(buffer, uint64(v.ChunkstoreCapacity))
	buffer = wire.AppendBool(buffer, v.RequestedToRun)
	return buffer
}

func unpackVaultInfo(record []byte) (*VaultInfo, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != vaultInfoTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	accountName, n, ok := wire.ReadString(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	keysBytes, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]
	keys, err := unpackKeys(keysBytes)
	if nil != err {
		return nil, err
	}

	path, n, ok := wire.ReadString(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	capacity, n, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	requested, _, ok := wire.ReadBool(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}

	v := NewVaultInfo()
	v.AccountName = accountName
	v.Keys = keys
	v.ChunkstorePath = path
	v.ChunkstoreCapacity = int64(capacity)
	v.RequestedToRun = requested
	return v, nil
}

// vaultManagerConfig - the on-disk config record:
// { update_interval_seconds, vault_info[] }
type vaultManagerConfig struct {
	UpdateIntervalSeconds uint64
	VaultInfos            []*VaultInfo
}

func (c *vaultManagerConfig) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, configTag)
	buffer = wire.AppendUint64(buffer, c.UpdateIntervalSeconds)
	buffer = wire.AppendUint64(buffer, uint64(len(c.VaultInfos)))
	for _, v := range c.VaultInfos {
		buffer = wire.AppendBytes(buffer, packVaultInfo(v))
	}
	return buffer
}

func unpackVaultManagerConfig(record []byte) (*vaultManagerConfig, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != configTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	interval, n, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	count, n, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	infos := make([]*VaultInfo, 0, count)
	for i := uint64(0); i < count; i += 1 {
		infoBytes, n, ok := wire.ReadBytes(record)
		if !ok {
			return nil, fault.ErrParseFailure
		}
		record = record[n:]
		info, err := unpackVaultInfo(infoBytes)
		if nil != err {
			return nil, err
		}
		infos = append(infos, info)
	}

	return &vaultManagerConfig{
		UpdateIntervalSeconds: interval,
		VaultInfos:            infos,
	}, nil
}

// MessageType - the control-message envelope's type tag
type MessageType uint64

// recognized control-message types
const (
	Ping MessageType = iota + 1
	StartVaultRequest
	StartVaultResponse
	VaultIdentityRequest
	VaultIdentityResponse
	StopVaultRequest
	VaultShutdownResponse
	UpdateIntervalRequest
	UpdateIntervalResponse
)

// envelope - { type, body }, the outermost frame of every control
// message
type envelope struct {
	Type MessageType
	Body []byte
}

func (e *envelope) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, envelopeTag)
	buffer = wire.AppendUint64(buffer, uint64(e.Type))
	buffer = wire.AppendBytes(buffer, e.Body)
	return buffer
}

func unpackEnvelope(record []byte) (*envelope, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != envelopeTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	typeValue, n, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	body, _, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}

	return &envelope{Type: MessageType(typeValue), Body: body}, nil
}

// startVaultRequest - { account_name, keys, bootstrap_endpoint }
type startVaultRequest struct {
	AccountName       string
	Keys              *identity.KeyPair
	BootstrapEndpoint string
}

func (r *startVaultRequest) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, startVaultTag)
	buffer = wire.AppendString(buffer, r.AccountName)
	buffer = wire.AppendBytes(buffer, packKeys(r.Keys))
	buffer = wire.AppendString(buffer, r.BootstrapEndpoint)
	return buffer
}

func unpackStartVaultRequest(record []byte) (*startVaultRequest, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != startVaultTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	accountName, n, ok := wire.ReadString(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	keysBytes, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]
	keys, err := unpackKeys(keysBytes)
	if nil != err {
		return nil, err
	}

	endpoint, _, ok := wire.ReadString(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}

	return &startVaultRequest{AccountName: accountName, Keys: keys, BootstrapEndpoint: endpoint}, nil
}

// vaultIdentityRequest - { process_index }
type vaultIdentityRequest struct {
	ProcessIndex uint64
}

func (r *vaultIdentityRequest) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, vaultIDTag)
	buffer = wire.AppendUint64(buffer, r.ProcessIndex)
	return buffer
}

func unpackVaultIdentityRequest(record []byte) (*vaultIdentityRequest, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != vaultIDTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	index, _, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	return &vaultIdentityRequest{ProcessIndex: index}, nil
}

// vaultIdentityResponse - { account_name, keys_blob }, empty on a
// lookup miss
type vaultIdentityResponse struct {
	AccountName string
	Keys        *identity.KeyPair
}

func (r *vaultIdentityResponse) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, vaultIDRespTag)
	buffer = wire.AppendString(buffer, r.AccountName)
	keys := r.Keys
	if nil == keys {
		keys = &identity.KeyPair{}
	}
	buffer = wire.AppendBytes(buffer, packKeys(keys))
	return buffer
}

func unpackVaultIdentityResponse(record []byte) (*vaultIdentityResponse, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != vaultIDRespTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	accountName, n, ok := wire.ReadString(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	keysBytes, _, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	keys, err := unpackKeys(keysBytes)
	if nil != err {
		return nil, err
	}

	return &vaultIdentityResponse{AccountName: accountName, Keys: keys}, nil
}

// stopVaultRequest - { identity, data, signature }
type stopVaultRequest struct {
	Identity  []byte
	Data      []byte
	Signature []byte
}

func (r *stopVaultRequest) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, stopVaultTag)
	buffer = wire.AppendBytes(buffer, r.Identity)
	buffer = wire.AppendBytes(buffer, r.Data)
	buffer = wire.AppendBytes(buffer, r.Signature)
	return buffer
}

func unpackStopVaultRequest(record []byte) (*stopVaultRequest, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != stopVaultTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	identity, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	data, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	signature, _, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}

	return &stopVaultRequest{Identity: identity, Data: data, Signature: signature}, nil
}

// updateIntervalRequest - optional new_update_interval; zero means
// "read only, do not change"
type updateIntervalRequest struct {
	NewUpdateIntervalSeconds uint64
}

func (r *updateIntervalRequest) pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, updateIntvlTag)
	buffer = wire.AppendUint64(buffer, r.NewUpdateIntervalSeconds)
	return buffer
}

func unpackUpdateIntervalRequest(record []byte) (*updateIntervalRequest, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != updateIntvlTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	interval, _, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	return &updateIntervalRequest{NewUpdateIntervalSeconds: interval}, nil
}
