// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transport implements the framed TCP transport: a
// length-prefixed request/response protocol with per-operation
// timeouts, stall detection, and bounded message sizes.
package transport

import (
	"encoding/binary"

	"github.com/maidsafe/vault-manager/constants"
	"github.com/maidsafe/vault-manager/fault"
)

// frameSizeLength - the width of the length prefix on the wire
const frameSizeLength = 4

// encodeFrame - [4-byte big-endian length][payload]
func encodeFrame(payload []byte) ([]byte, error) {
	if len(payload) > constants.MaxTransportMessageSize {
		return nil, fault.ErrMessageSizeTooLarge
	}
	frame := make([]byte, frameSizeLength+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[frameSizeLength:], payload)
	return frame, nil
}

// decodeSize - parse the 4-byte big-endian length prefix
func decodeSize(sizeBuffer []byte) (int, error) {
	size := binary.BigEndian.Uint32(sizeBuffer)
	if size > constants.MaxTransportMessageSize {
		return 0, fault.ErrMessageSizeTooLarge
	}
	return int(size), nil
}
