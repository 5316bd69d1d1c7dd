// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"testing"

	"github.com/maidsafe/vault-manager/wire"
)

func TestAppendAndReadBytesRoundTrip(t *testing.T) {
	buffer := wire.Packed{}
	buffer = wire.AppendUint64(buffer, 42)
	buffer = wire.AppendString(buffer, "hello")
	buffer = wire.AppendBytes(buffer, []byte{0x01, 0x02, 0x03})
	buffer = wire.AppendBool(buffer, true)

	tag, n, ok := wire.ReadUint64(buffer)
	if !ok || tag != 42 {
		t.Fatalf("ReadUint64 -> %d, %v  expected 42, true", tag, ok)
	}
	buffer = buffer[n:]

	s, n, ok := wire.ReadString(buffer)
	if !ok || s != "hello" {
		t.Fatalf("ReadString -> %q, %v  expected hello, true", s, ok)
	}
	buffer = buffer[n:]

	b, n, ok := wire.ReadBytes(buffer)
	if !ok || len(b) != 3 || b[0] != 1 || b[1] != 2 || b[2] != 3 {
		t.Fatalf("ReadBytes -> %v, %v", b, ok)
	}
	buffer = buffer[n:]

	flag, n, ok := wire.ReadBool(buffer)
	if !ok || !flag {
		t.Fatalf("ReadBool -> %v, %v  expected true, true", flag, ok)
	}
	buffer = buffer[n:]

	if len(buffer) != 0 {
		t.Fatalf("expected buffer fully consumed, %d bytes remain", len(buffer))
	}
}

func TestReadBytesTruncated(t *testing.T) {
	buffer := wire.AppendBytes(wire.Packed{}, []byte("truncate me"))
	buffer = buffer[:len(buffer)-3]

	if _, _, ok := wire.ReadBytes(buffer); ok {
		t.Fatalf("expected ReadBytes to reject a truncated field")
	}
}
