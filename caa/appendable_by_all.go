// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package caa

import (
	"github.com/maidsafe/vault-manager/fault"
	"github.com/maidsafe/vault-manager/identity"
)

func init() {
	register(AppendableByAll, &appendableByAllHandler{})
}

// appendableByAllHandler - a small append-log under owner control.
// The owner may replace its identity or appendability control fields
// (the appendix log is kept), or re-assert a field's current value,
// which truncates the appendix log; outsiders may only append a
// single SignedData at a time, and only while appending is allowed.
type appendableByAllHandler struct{}

// appendableTagValue is the sentinel first byte of
// allow_others_to_append.data that means "outsiders may append"
const appendableTagValue = byte(AppendableByAll)

func (h *appendableByAllHandler) IsCacheable() bool {
	return false
}

func (h *appendableByAllHandler) IsValid(name []byte, store ChunkStore) bool {
	existing, err := store.Get(name)
	return nil == err && len(existing) > 0
}

func (h *appendableByAllHandler) Version(name []byte, store ChunkStore) ([]byte, error) {
	existing, err := store.Get(name)
	if nil != err {
		return nil, err
	}
	return identity.ContentHash(existing), nil
}

func isOwner(record *AppendableByAllRecord, publicKey []byte) bool {
	return nil == identity.CheckSignature(
		record.AllowOthersToAppend.Data,
		identity.Signature(record.AllowOthersToAppend.Signature),
		publicKey,
	)
}

func (h *appendableByAllHandler) ProcessGet(name []byte, version []byte, publicKey []byte, store ChunkStore) ([]byte, error) {
	allExisting, err := store.Get(name)
	if nil != err || 0 == len(allExisting) {
		return nil, fault.ErrFailedToFindChunk
	}

	existing, err := UnpackAppendableByAllRecord(allExisting)
	if nil != err {
		return nil, fault.ErrGeneralError
	}

	if !identity.ValidateKey(publicKey) {
		return nil, fault.ErrInvalidPublicKey
	}

	if isOwner(existing, publicKey) {
		existing.Appendices = nil
		return existing.Pack(), nil
	}

	// not owner - return only identity_key, and report NOT_OWNER even
	// though bytes are returned; the caller distinguishes error class
	// from payload
	return existing.IdentityKey.Pack(), fault.ErrNotOwner
}

func (h *appendableByAllHandler) ProcessStore(name []byte, content []byte, publicKey []byte, store ChunkStore) error {
	if store.Has(name) {
		return fault.ErrKeyNotUnique
	}

	chunk, err := UnpackAppendableByAllRecord(content)
	if nil != err {
		return fault.ErrInvalidSignedData
	}

	if !identity.ValidateKey(publicKey) {
		return fault.ErrInvalidPublicKey
	}

	if err := identity.CheckSignature(chunk.AllowOthersToAppend.Data, identity.Signature(chunk.AllowOthersToAppend.Signature), publicKey); nil != err {
		return fault.ErrSignatureVerificationFailure
	}

	return nil
}

func (h *appendableByAllHandler) ProcessDelete(name []byte, version []byte, ownershipProof []byte, publicKey []byte, store ChunkStore) error {
	existingBytes, err := store.Get(name)
	if nil != err || 0 == len(existingBytes) {
		return nil // already deleted, idempotent
	}

	existing, err := UnpackAppendableByAllRecord(existingBytes)
	if nil != err {
		return fault.ErrGeneralError
	}

	if !identity.ValidateKey(publicKey) {
		return fault.ErrInvalidPublicKey
	}

	if err := identity.CheckSignature(existing.AllowOthersToAppend.Data, identity.Signature(existing.AllowOthersToAppend.Signature), publicKey); nil != err {
		return fault.ErrSignatureVerificationFailure
	}

	proof, err := UnpackSignedData(ownershipProof)
	if nil != err {
		return fault.ErrNotOwner
	}

	if err := identity.CheckSignature(proof.Data, identity.Signature(proof.Signature), publicKey); nil != err {
		return fault.ErrNotOwner
	}

	return nil
}

func (h *appendableByAllHandler) ProcessModify(name []byte, content []byte, version []byte, publicKey []byte, store ChunkStore) ([]byte, error) {
	existingBytes, err := store.Get(name)
	if nil != err || 0 == len(existingBytes) {
		return nil, fault.ErrFailedToFindChunk
	}

	existing, err := UnpackAppendableByAllRecord(existingBytes)
	if nil != err {
		return nil, fault.ErrGeneralError
	}

	if !identity.ValidateKey(publicKey) {
		return nil, fault.ErrInvalidPublicKey
	}

	if isOwner(existing, publicKey) {
		return h.processOwnerModify(existing, content, publicKey)
	}
	return h.processOutsiderAppend(existing, content, publicKey)
}

func (h *appendableByAllHandler) processOwnerModify(existing *AppendableByAllRecord, content []byte, publicKey []byte) ([]byte, error) {
	modification, err := UnpackModifyAppendableByAllRecord(content)
	if nil != err {
		return nil, fault.ErrParseFailure
	}

	allowEmpty := 0 == len(modification.AllowOthersToAppend.Data)
	identityEmpty := 0 == len(modification.IdentityKey.Data)

	if allowEmpty && identityEmpty {
		return nil, fault.ErrInvalidModify
	}
	if !allowEmpty && !identityEmpty {
		return nil, fault.ErrInvalidModify
	}

	if !allowEmpty {
		field := modification.AllowOthersToAppend
		if err := identity.CheckSignature(field.Data, identity.Signature(field.Signature), publicKey); nil != err {
			return nil, fault.ErrSignatureVerificationFailure
		}
		if string(field.Data) == string(existing.AllowOthersToAppend.Data) {
			existing.Appendices = nil
			return existing.Pack(), nil
		}
		existing.AllowOthersToAppend = field
		return existing.Pack(), nil
	}

	field := modification.IdentityKey
	if err := identity.CheckSignature(field.Data, identity.Signature(field.Signature), publicKey); nil != err {
		return nil, fault.ErrSignatureVerificationFailure
	}
	if string(field.Data) == string(existing.IdentityKey.Data) {
		existing.Appendices = nil
		return existing.Pack(), nil
	}
	existing.IdentityKey = field
	return existing.Pack(), nil
}

func (h *appendableByAllHandler) processOutsiderAppend(existing *AppendableByAllRecord, content []byte, publicKey []byte) ([]byte, error) {
	if 0 == len(existing.AllowOthersToAppend.Data) || existing.AllowOthersToAppend.Data[0] != appendableTagValue {
		return nil, fault.ErrAppendDisallowed
	}

	appendix, err := UnpackSignedData(content)
	if nil != err {
		return nil, fault.ErrInvalidSignedData
	}

	if err := identity.CheckSignature(appendix.Data, identity.Signature(appendix.Signature), publicKey); nil != err {
		return nil, fault.ErrSignatureVerificationFailure
	}

	existing.Appendices = append(existing.Appendices, *appendix)
	return existing.Pack(), nil
}

func (h *appendableByAllHandler) ProcessHas(name []byte, version []byte, publicKey []byte, store ChunkStore) error {
	if !store.Has(name) {
		return fault.ErrFailedToFindChunk
	}
	return nil
}
