// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package caa implements the chunk action authority: a tag-dispatched
// policy engine that decides whether a content-addressed chunk may be
// fetched, stored, modified, or deleted.
package caa

import (
	"github.com/maidsafe/vault-manager/fault"
)

// Tag - the chunk-type tag, the last byte of a chunk name
type Tag byte

// the closed set of chunk-type tags
const (
	Default           Tag = 0
	AppendableByAll   Tag = 1
	SignaturePacket   Tag = 2
	ModifiableByOwner Tag = 3
	Unknown           Tag = 0xff
)

// TagOf - extract the chunk-type tag, the last byte of a chunk name
func TagOf(name []byte) Tag {
	if 0 == len(name) {
		return Unknown
	}
	return Tag(name[len(name)-1])
}

// Handler - the operation set a chunk-type registers with the
// authority. Each method receives the caller's raw public key bytes;
// handlers are responsible for their own ValidateKey calls.
type Handler interface {
	IsCacheable() bool
	IsValid(name []byte, store ChunkStore) bool
	Version(name []byte, store ChunkStore) ([]byte, error)
	ProcessGet(name []byte, version []byte, publicKey []byte, store ChunkStore) ([]byte, error)
	ProcessStore(name []byte, content []byte, publicKey []byte, store ChunkStore) error
	ProcessDelete(name []byte, version []byte, ownershipProof []byte, publicKey []byte, store ChunkStore) error
	ProcessModify(name []byte, content []byte, version []byte, publicKey []byte, store ChunkStore) ([]byte, error)
	ProcessHas(name []byte, version []byte, publicKey []byte, store ChunkStore) error
}

// registry - the compile-time mapping from tag to handler; populated
// by init() calls in each handler's file
var registry = map[Tag]Handler{}

// register - add a handler for a tag; called once per handler at
// package initialisation
func register(tag Tag, handler Handler) {
	registry[tag] = handler
}

// handlerFor - look up the handler for a chunk name's tag
func handlerFor(name []byte) (Handler, error) {
	handler, found := registry[TagOf(name)]
	if !found {
		return nil, fault.ErrInvalidChunkType
	}
	return handler, nil
}
