// Package varint implements the zig-zag LEB128 variable-length integer
// codec used throughout the framed-session protocol: batch message lengths,
// packet ids, and paletted-storage palette entries all share this encoding.
package varint

import (
	"fmt"
	"io"
)

// WriteUint32 writes v to w as an unsigned LEB128 varint, 7 bits per byte,
// low bits first, continuation bit set on every byte but the last.
func WriteUint32(w io.ByteWriter, v uint32) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

// ReadUint32 reads an unsigned LEB128 varint from r. It fails with an error
// if more than five bytes are consumed without terminating, since five bytes
// of 7 bits each already cover the full 32-bit range.
func ReadUint32(r io.ByteReader) (uint32, error) {
	var v uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("varint: uint32 overflow")
}

// WriteInt32 zig-zag encodes v and writes it with WriteUint32. Zig-zag
// encoding maps signed integers to unsigned ones so that small-magnitude
// negative numbers still produce short encodings: 0,-1,1,-2,2 -> 0,1,2,3,4.
func WriteInt32(w io.ByteWriter, v int32) error {
	return WriteUint32(w, uint32((v<<1)^(v>>31)))
}

// ReadInt32 reads a zig-zag encoded varint written by WriteInt32.
func ReadInt32(r io.ByteReader) (int32, error) {
	u, err := ReadUint32(r)
	if err != nil {
		return 0, err
	}
	return int32(u>>1) ^ -(int32(u) & 1), nil
}

// WriteUint64 writes v to w as an unsigned LEB128 varint.
func WriteUint64(w io.ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

// ReadUint64 reads an unsigned LEB128 varint from r, up to 10 bytes.
func ReadUint64(r io.ByteReader) (uint64, error) {
	var v uint64
	for shift := uint(0); shift < 70; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("varint: uint64 overflow")
}

// WriteInt64 zig-zag encodes v and writes it with WriteUint64.
func WriteInt64(w io.ByteWriter, v int64) error {
	return WriteUint64(w, uint64((v<<1)^(v>>63)))
}

// ReadInt64 reads a zig-zag encoded varint written by WriteInt64.
func ReadInt64(r io.ByteReader) (int64, error) {
	u, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -(int64(u) & 1), nil
}

// SizeUint32 returns the number of bytes WriteUint32 would emit for v,
// without allocating a buffer.
func SizeUint32(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// SizeInt32 returns the number of bytes WriteInt32 would emit for v.
func SizeInt32(v int32) int {
	return SizeUint32(uint32((v << 1) ^ (v >> 31)))
}
