package session

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/unastar-mc/unastar/server/internal/varint"
)

const (
	batchMarker = 0xfe

	compressionSentinelDeflate = 0x00
	compressionSentinelRaw     = 0xff
)

// BatchCodec holds the per-session compression policy used to encode and
// decode framed batches.
type BatchCodec struct {
	CompressionEnabled bool
	Level              int
	Threshold          int
	MaxDecompressed    int
}

// Encode concatenates each message's varint-length-prefixed body into an
// inner buffer, then wraps it in the batch marker and, when compression is
// enabled, a compression sentinel.
func (c BatchCodec) Encode(messages [][]byte) ([]byte, error) {
	var inner bytes.Buffer
	for _, msg := range messages {
		if err := varint.WriteUint32(&inner, uint32(len(msg))); err != nil {
			return nil, fmt.Errorf("session: encode batch: %w", err)
		}
		inner.Write(msg)
	}

	if !c.CompressionEnabled {
		out := make([]byte, 0, inner.Len()+1)
		out = append(out, batchMarker)
		out = append(out, inner.Bytes()...)
		return out, nil
	}

	if inner.Len() <= c.Threshold {
		out := make([]byte, 0, inner.Len()+2)
		out = append(out, batchMarker, compressionSentinelRaw)
		out = append(out, inner.Bytes()...)
		return out, nil
	}

	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, c.Level)
	if err != nil {
		return nil, fmt.Errorf("session: encode batch: %w", err)
	}
	if _, err := w.Write(inner.Bytes()); err != nil {
		return nil, fmt.Errorf("session: encode batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("session: encode batch: %w", err)
	}

	out := make([]byte, 0, compressed.Len()+2)
	out = append(out, batchMarker, compressionSentinelDeflate)
	out = append(out, compressed.Bytes()...)
	return out, nil
}

// Decode verifies the batch marker, peels the compression sentinel when
// compression is enabled, inflates if needed, then splits the inner buffer
// into varint-length-prefixed messages. Every failure mode maps to
// ErrMalformedBatch.
func (c BatchCodec) Decode(frame []byte) ([][]byte, error) {
	if len(frame) == 0 || frame[0] != batchMarker {
		return nil, fmt.Errorf("session: decode batch: bad marker: %w", ErrMalformedBatch)
	}
	body := frame[1:]

	if c.CompressionEnabled {
		if len(body) == 0 {
			return nil, fmt.Errorf("session: decode batch: truncated sentinel: %w", ErrMalformedBatch)
		}
		sentinel := body[0]
		body = body[1:]
		switch sentinel {
		case compressionSentinelRaw:
			// passthrough, body already holds the inner buffer
		case compressionSentinelDeflate:
			r := flate.NewReader(bytes.NewReader(body))
			defer r.Close()
			limited := io.LimitReader(r, int64(c.MaxDecompressed)+1)
			inflated, err := io.ReadAll(limited)
			if err != nil {
				return nil, fmt.Errorf("session: decode batch: inflate: %w: %w", ErrMalformedBatch, err)
			}
			if len(inflated) > c.MaxDecompressed {
				return nil, fmt.Errorf("session: decode batch: decompressed size exceeds cap: %w", ErrMalformedBatch)
			}
			body = inflated
		default:
			return nil, fmt.Errorf("session: decode batch: unknown compression sentinel %#x: %w", sentinel, ErrMalformedBatch)
		}
	}

	var messages [][]byte
	r := bytes.NewReader(body)
	for r.Len() > 0 {
		n, err := varint.ReadUint32(r)
		if err != nil {
			return nil, fmt.Errorf("session: decode batch: length prefix: %w: %w", ErrMalformedBatch, err)
		}
		if int64(n) > int64(r.Len()) {
			return nil, fmt.Errorf("session: decode batch: message length exceeds remaining buffer: %w", ErrMalformedBatch)
		}
		msg := make([]byte, n)
		if _, err := io.ReadFull(r, msg); err != nil {
			return nil, fmt.Errorf("session: decode batch: %w: %w", ErrMalformedBatch, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
