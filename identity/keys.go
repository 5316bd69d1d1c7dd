// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity provides the asymmetric key, signature, and
// content-hash primitives shared by the chunk action authority and
// the vault manager. Keys are ed25519; content hashing uses SHA3-256.
package identity

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"

	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/maidsafe/vault-manager/fault"
)

// KeyPair - an identity's asymmetric key material plus the opaque
// identity byte string used to name it in the vault info table
type KeyPair struct {
	Identity   []byte
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateKeyPair - create a fresh ed25519 key pair with a random 32
// byte identity
func GenerateKeyPair() (*KeyPair, error) {
	identity := make([]byte, 32)
	if _, err := rand.Read(identity); nil != err {
		return nil, err
	}

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}

	return &KeyPair{
		Identity:   identity,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}, nil
}

// ValidateKey - check that a public key is a well formed ed25519 key
func ValidateKey(publicKey []byte) bool {
	return ed25519.PublicKeySize == len(publicKey)
}

// ShortVaultID - base32(SHA1(identity)), used as the config directory
// and bootstrap filename suffix for a vault
func ShortVaultID(identity []byte) string {
	digest := sha1.Sum(identity)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(digest[:])
}

// ContentHash - the summary used as a chunk's Version(); the source
// specification calls for a Tiger hash, which has no maintained Go
// implementation, so SHA3-256 is substituted here (see DESIGN.md)
func ContentHash(data []byte) []byte {
	digest := sha3.Sum256(data)
	return digest[:]
}

// PublicKeyFromBytes - parse a raw public key, validating its length
func PublicKeyFromBytes(b []byte) (ed25519.PublicKey, error) {
	if !ValidateKey(b) {
		return nil, fault.ErrInvalidPublicKey
	}
	key := make(ed25519.PublicKey, len(b))
	copy(key, b)
	return key, nil
}
