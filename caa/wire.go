// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package caa

import (
	"github.com/maidsafe/vault-manager/fault"
	"github.com/maidsafe/vault-manager/wire"
)

// record tags, Varint64 encoded ahead of every packed record
const (
	signedDataTag            = 1
	appendableByAllTag       = 2
	modifyAppendableByAllTag = 3
)

// SignedData - { data, signature }; a signature is valid against a
// public key K iff CheckSignature(data, signature, K) succeeds
type SignedData struct {
	Data      []byte
	Signature []byte
}

// Pack - encode as Varint64(tag), data, signature
func (s *SignedData) Pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, signedDataTag)
	buffer = wire.AppendBytes(buffer, s.Data)
	buffer = wire.AppendBytes(buffer, s.Signature)
	return buffer
}

// UnpackSignedData - decode a SignedData record
func UnpackSignedData(record []byte) (*SignedData, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != signedDataTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	data, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	signature, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}

	return &SignedData{Data: data, Signature: signature}, nil
}

// AppendableByAllRecord - the on-store body for the APPENDABLE_BY_ALL
// chunk type
type AppendableByAllRecord struct {
	IdentityKey         SignedData
	AllowOthersToAppend SignedData
	Appendices          []SignedData
}

// Pack - encode as Varint64(tag), identity_key, allow_others_to_append, appendix count, appendices...
func (r *AppendableByAllRecord) Pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, appendableByAllTag)
	buffer = wire.AppendBytes(buffer, r.IdentityKey.Pack())
	buffer = wire.AppendBytes(buffer, r.AllowOthersToAppend.Pack())
	buffer = wire.AppendUint64(buffer, uint64(len(r.Appendices)))
	for i := range r.Appendices {
		buffer = wire.AppendBytes(buffer, r.Appendices[i].Pack())
	}
	return buffer
}

// UnpackAppendableByAllRecord - decode an AppendableByAllRecord
func UnpackAppendableByAllRecord(record []byte) (*AppendableByAllRecord, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != appendableByAllTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	identityBytes, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]
	identityKey, err := UnpackSignedData(identityBytes)
	if nil != err {
		return nil, err
	}

	allowBytes, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]
	allowOthers, err := UnpackSignedData(allowBytes)
	if nil != err {
		return nil, err
	}

	count, n, ok := wire.ReadUint64(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	appendices := make([]SignedData, 0, count)
	for i := uint64(0); i < count; i += 1 {
		appendixBytes, n, ok := wire.ReadBytes(record)
		if !ok {
			return nil, fault.ErrParseFailure
		}
		record = record[n:]
		appendix, err := UnpackSignedData(appendixBytes)
		if nil != err {
			return nil, err
		}
		appendices = append(appendices, *appendix)
	}

	return &AppendableByAllRecord{
		IdentityKey:         *identityKey,
		AllowOthersToAppend: *allowOthers,
		Appendices:          appendices,
	}, nil
}

// ModifyAppendableByAllRecord - the owner's mutation request: exactly
// one of the two fields carries non-empty data
type ModifyAppendableByAllRecord struct {
	AllowOthersToAppend SignedData
	IdentityKey         SignedData
}

// Pack - encode as Varint64(tag), allow_others_to_append, identity_key
func (r *ModifyAppendableByAllRecord) Pack() wire.Packed {
	buffer := wire.AppendUint64(wire.Packed{}, modifyAppendableByAllTag)
	buffer = wire.AppendBytes(buffer, r.AllowOthersToAppend.Pack())
	buffer = wire.AppendBytes(buffer, r.IdentityKey.Pack())
	return buffer
}

// UnpackModifyAppendableByAllRecord - decode a ModifyAppendableByAllRecord
func UnpackModifyAppendableByAllRecord(record []byte) (*ModifyAppendableByAllRecord, error) {
	tag, n, ok := wire.ReadTag(record)
	if !ok || tag != modifyAppendableByAllTag {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]

	allowBytes, n, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	record = record[n:]
	allowOthers, err := UnpackSignedData(allowBytes)
	if nil != err {
		return nil, err
	}

	identityBytes, _, ok := wire.ReadBytes(record)
	if !ok {
		return nil, fault.ErrParseFailure
	}
	identityKey, err := UnpackSignedData(identityBytes)
	if nil != err {
		return nil, err
	}

	return &ModifyAppendableByAllRecord{
		AllowOthersToAppend: *allowOthers,
		IdentityKey:         *identityKey,
	}, nil
}
