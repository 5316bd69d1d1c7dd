// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/maidsafe/vault-manager/fault"
)

// Signature - the type for a detached ed25519 signature
type Signature []byte

// String - convert a binary signature to a hex string for %s
func (signature Signature) String() string {
	return hex.EncodeToString(signature)
}

// GoString - convert a binary signature to a hex string for %#v
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature) + ">"
}

// Sign - sign a message with a private key
func Sign(privateKey ed25519.PrivateKey, message []byte) Signature {
	return Signature(ed25519.Sign(privateKey, message))
}

// CheckSignature - verify a message/signature pair against a public key
func CheckSignature(message []byte, signature Signature, publicKey ed25519.PublicKey) error {
	if !ValidateKey(publicKey) {
		return fault.ErrInvalidPublicKey
	}
	if ed25519.SignatureSize != len(signature) {
		return fault.ErrSignatureVerificationFailure
	}
	if !ed25519.Verify(publicKey, message, []byte(signature)) {
		return fault.ErrSignatureVerificationFailure
	}
	return nil
}
