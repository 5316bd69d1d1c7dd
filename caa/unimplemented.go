// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package caa

import (
	"github.com/maidsafe/vault-manager/fault"
)

func init() {
	handler := &unimplementedHandler{}
	register(Default, handler)
	register(SignaturePacket, handler)
	register(ModifiableByOwner, handler)
	register(Unknown, handler)
}

// unimplementedHandler backs the named tags this authority does not
// support, so every named Tag constant resolves to a handler; a tag
// byte outside the named set is still a missing map entry, which
// handlerFor reports as ErrInvalidChunkType.
type unimplementedHandler struct{}

func (h *unimplementedHandler) IsCacheable() bool {
	return false
}

func (h *unimplementedHandler) IsValid(name []byte, store ChunkStore) bool {
	return false
}

func (h *unimplementedHandler) Version(name []byte, store ChunkStore) ([]byte, error) {
	return nil, fault.ErrInvalidChunkType
}

func (h *unimplementedHandler) ProcessGet(name []byte, version []byte, publicKey []byte, store ChunkStore) ([]byte, error) {
	return nil, fault.ErrInvalidChunkType
}

func (h *unimplementedHandler) ProcessStore(name []byte, content []byte, publicKey []byte, store ChunkStore) error {
	return fault.ErrInvalidChunkType
}

func (h *unimplementedHandler) ProcessDelete(name []byte, version []byte, ownershipProof []byte, publicKey []byte, store ChunkStore) error {
	return fault.ErrInvalidChunkType
}

func (h *unimplementedHandler) ProcessModify(name []byte, content []byte, version []byte, publicKey []byte, store ChunkStore) ([]byte, error) {
	return nil, fault.ErrInvalidChunkType
}

func (h *unimplementedHandler) ProcessHas(name []byte, version []byte, publicKey []byte, store ChunkStore) error {
	return fault.ErrInvalidChunkType
}
