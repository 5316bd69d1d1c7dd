// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// Packed - a positionally encoded record: Varint64(tag) followed by
// each field in declaration order, every variable length field
// prefixed by its own Varint64 length. Fixed layout, no schema
// compiler, mirroring the way transaction records are packed.
type Packed []byte

// maximum length accepted for any single length-prefixed field while
// unpacking; guards against a corrupt or hostile length claiming to
// run past the end of the buffer
const maxFieldLength = 1 << 20

// AppendUint64 - append a Varint64 encoded value to a buffer
func AppendUint64(buffer Packed, value uint64) Packed {
	return append(buffer, ToVarint64(value)...)
}

// AppendBytes - append a length-prefixed byte field to a buffer
func AppendBytes(buffer Packed, data []byte) Packed {
	buffer = append(buffer, ToVarint64(uint64(len(data)))...)
	return append(buffer, data...)
}

// AppendString - append a length-prefixed string field to a buffer
func AppendString(buffer Packed, s string) Packed {
	return AppendBytes(buffer, []byte(s))
}

// AppendBool - append a single byte boolean field to a buffer
func AppendBool(buffer Packed, value bool) Packed {
	if value {
		return append(buffer, 1)
	}
	return append(buffer, 0)
}

// ReadTag - read the leading Varint64 record tag
func ReadTag(record Packed) (tag uint64, n int, ok bool) {
	tag, n = FromVarint64(record)
	return tag, n, n != 0
}

// ReadUint64 - read a Varint64 field, returning the number of bytes consumed
func ReadUint64(record Packed) (value uint64, n int, ok bool) {
	value, n = FromVarint64(record)
	return value, n, n != 0
}

// ReadBytes - read a length-prefixed byte field, returning a copy and
// the number of bytes consumed
func ReadBytes(record Packed) (data []byte, n int, ok bool) {
	length64, lengthSize := FromVarint64(record)
	if 0 == lengthSize {
		return nil, 0, false
	}
	length := int(length64)
	if length < 0 || length > maxFieldLength || lengthSize+length > len(record) {
		return nil, 0, false
	}
	data = make([]byte, length)
	copy(data, record[lengthSize:lengthSize+length])
	return data, lengthSize + length, true
}

// ReadString - read a length-prefixed string field
func ReadString(record Packed) (s string, n int, ok bool) {
	data, n, ok := ReadBytes(record)
	if !ok {
		return "", 0, false
	}
	return string(data), n, true
}

// ReadBool - read a single byte boolean field
func ReadBool(record Packed) (value bool, n int, ok bool) {
	if len(record) < 1 {
		return false, 0, false
	}
	return record[0] != 0, 1, true
}
