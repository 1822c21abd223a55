package varint_test

import (
	"bytes"
	"testing"

	"github.com/unastar-mc/unastar/server/internal/varint"
)

func TestSignedRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 2, -2, 63, -64, 1000000, -1000000, 1<<31 - 1, -(1 << 31)}
	for _, v := range cases {
		buf := new(bytes.Buffer)
		if err := varint.WriteInt32(buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		if buf.Len() != varint.SizeInt32(v) {
			t.Fatalf("size mismatch for %d: wrote %d, SizeInt32 said %d", v, buf.Len(), varint.SizeInt32(v))
		}
		got, err := varint.ReadInt32(buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestUnsignedRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 1 << 20, 1<<32 - 1}
	for _, v := range cases {
		buf := new(bytes.Buffer)
		if err := varint.WriteUint32(buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		got, err := varint.ReadUint32(buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		buf := new(bytes.Buffer)
		if err := varint.WriteInt64(buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		got, err := varint.ReadInt64(buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestReadTruncated(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x80, 0x80})
	if _, err := varint.ReadUint32(buf); err == nil {
		t.Fatal("expected error reading truncated varint")
	}
}
