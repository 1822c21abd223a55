package chunk

import (
	"bytes"
	"testing"

	"github.com/unastar-mc/unastar/server/block/cube"
)

const (
	airID   uint32 = 0
	stoneID uint32 = 1
	grassID uint32 = 2
)

func TestSubChunkRoundTrip(t *testing.T) {
	sub := NewSubChunk(airID)
	for x := uint8(0); x < 16; x++ {
		for y := uint8(0); y < 16; y++ {
			for z := uint8(0); z < 16; z++ {
				if (int(x)+int(y)+int(z))%3 == 0 {
					sub.setBlock(x, y, z, stoneID)
				}
			}
		}
	}

	buf := new(bytes.Buffer)
	encodeSubChunk(buf, sub, 0, SubChunkVersion, NetworkEncoding)

	c := New(airID, cube.Overworld)
	index := byte(0)
	decoded, err := decodeSubChunk(buf, c, &index, NetworkEncoding)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for x := uint8(0); x < 16; x++ {
		for y := uint8(0); y < 16; y++ {
			for z := uint8(0); z < 16; z++ {
				want := sub.block(x, y, z)
				got := decoded.block(x, y, z)
				if want != got {
					t.Fatalf("mismatch at (%d,%d,%d): want %d got %d", x, y, z, want, got)
				}
			}
		}
	}
}

func TestFillSubChunkSolid(t *testing.T) {
	c := New(airID, cube.Overworld)
	c.FillSubChunkSolid(4, stoneID)

	top := c.r.Min() + 16*4 + 15
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			if c.Block(x, top, z) != stoneID {
				t.Fatalf("expected stone at y=%d, x=%d z=%d", top, x, z)
			}
			if int(c.HeightMap(x, z)) < c.r.Min()+16*5 {
				t.Fatalf("heightmap at (%d,%d) = %d, want >= %d", x, z, c.HeightMap(x, z), c.r.Min()+16*5)
			}
		}
	}
}

func TestBiomeEncodingByteCount(t *testing.T) {
	c := New(airID, cube.Overworld)
	payload, _ := c.NetworkEncodeLimited()
	if len(payload) != 24*2+1 {
		t.Fatalf("expected %d bytes, got %d", 24*2+1, len(payload))
	}
	if payload[len(payload)-1] != 0x00 {
		t.Fatalf("expected last byte 0x00, got %#x", payload[len(payload)-1])
	}
}

func TestUnmodifiedSubChunkWireBytes(t *testing.T) {
	c := New(airID, cube.Overworld)
	c.Sub(4).fillLayer(0, grassID)

	buf := new(bytes.Buffer)
	encodeSubChunk(buf, c.Sub(4), c.worldSection(4), SubChunkVersion, NetworkEncoding)
	got := buf.Bytes()
	want := []byte{0x09, 0x01, 0x00}
	if !bytes.Equal(got[:3], want) {
		t.Fatalf("expected subchunk to start %v, got %v", want, got[:3])
	}
}

func TestNetworkEncodeDecodeRoundTrip(t *testing.T) {
	c := New(airID, cube.Overworld)
	c.Sub(4).fillLayer(0, stoneID)
	c.SetBlock(3, 70, 9, grassID)

	payload, count := c.NetworkEncode(SubChunkVersion)
	decoded, err := NetworkDecode(airID, payload, count, cube.Overworld)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Block(3, 70, 9) != grassID {
		t.Fatalf("expected grass at (3,70,9), got %d", decoded.Block(3, 70, 9))
	}
	if decoded.Block(0, 0, 0) != stoneID {
		t.Fatalf("expected stone at (0,0,0), got %d", decoded.Block(0, 0, 0))
	}
}

func TestDecodePalettedStorageRejectsUnsupportedBitWidth(t *testing.T) {
	// header = (bits<<1)|1 with bits=40 (unsupported: not in {0,1,2,3,4,5,6,8,16}
	// and not the 0xFF chainedBiome sentinel) used to drive uint32s() into a
	// division by zero instead of returning an error.
	header := byte(40<<1 | 1)
	buf := bytes.NewBuffer([]byte{header})
	if _, err := decodePalettedStorage(buf, NetworkEncoding, BlockPaletteEncoding); err == nil {
		t.Fatalf("expected an error for unsupported bit width, got nil")
	}
}
