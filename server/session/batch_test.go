package session

import "testing"

func TestBatchEncodeDecodeUncompressed(t *testing.T) {
	c := BatchCodec{CompressionEnabled: false}
	msgs := [][]byte{{1, 2, 3}, {4, 5}}
	frame, err := c.Encode(msgs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if frame[0] != batchMarker {
		t.Fatalf("expected marker %#x, got %#x", batchMarker, frame[0])
	}
	got, err := c.Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0][0] != 1 || got[1][0] != 4 {
		t.Fatalf("unexpected round-trip: %v", got)
	}
}

func TestBatchEncodeDecodeRawPassthrough(t *testing.T) {
	c := BatchCodec{CompressionEnabled: true, Threshold: 1000, Level: 6, MaxDecompressed: 1 << 20}
	frame, err := c.Encode([][]byte{{9, 9, 9}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if frame[1] != compressionSentinelRaw {
		t.Fatalf("expected raw sentinel below threshold, got %#x", frame[1])
	}
	got, err := c.Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0][0] != 9 {
		t.Fatalf("unexpected round-trip: %v", got)
	}
}

func TestBatchEncodeDecodeDeflate(t *testing.T) {
	c := BatchCodec{CompressionEnabled: true, Threshold: 4, Level: 6, MaxDecompressed: 1 << 20}
	big := make([]byte, 200)
	for i := range big {
		big[i] = byte(i)
	}
	frame, err := c.Encode([][]byte{big})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if frame[1] != compressionSentinelDeflate {
		t.Fatalf("expected deflate sentinel above threshold, got %#x", frame[1])
	}
	got, err := c.Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || len(got[0]) != len(big) {
		t.Fatalf("unexpected round-trip length: %v", len(got[0]))
	}
	for i := range big {
		if got[0][i] != big[i] {
			t.Fatalf("byte %d mismatch: want %v got %v", i, big[i], got[0][i])
		}
	}
}

func TestBatchDecodeBadMarker(t *testing.T) {
	c := BatchCodec{}
	if _, err := c.Decode([]byte{0x00, 1, 2}); err == nil {
		t.Fatal("expected error on bad marker")
	}
}

func TestBatchDecodeUnknownSentinel(t *testing.T) {
	c := BatchCodec{CompressionEnabled: true, MaxDecompressed: 100}
	if _, err := c.Decode([]byte{batchMarker, 0x42}); err == nil {
		t.Fatal("expected error on unknown compression sentinel")
	}
}

func TestBatchDecodeTruncatedLength(t *testing.T) {
	c := BatchCodec{}
	// marker, then a length prefix claiming far more bytes than present.
	if _, err := c.Decode([]byte{batchMarker, 0xff, 0xff, 0xff, 0x7f}); err == nil {
		t.Fatal("expected error on truncated message body")
	}
}

func TestBatchDecodeDecompressedSizeCapExceeded(t *testing.T) {
	c := BatchCodec{CompressionEnabled: true, Threshold: 4, Level: 6, MaxDecompressed: 10}
	big := make([]byte, 200)
	enc := BatchCodec{CompressionEnabled: true, Threshold: 4, Level: 6, MaxDecompressed: 1 << 20}
	frame, err := enc.Encode([][]byte{big})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := c.Decode(frame); err == nil {
		t.Fatal("expected error when decompressed size exceeds cap")
	}
}
