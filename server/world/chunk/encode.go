package chunk

import (
	"bytes"
)

// chainedBiome is the header byte written in place of a biome storage
// layer's block-size byte when that layer is identical to the one
// immediately preceding it: header 0xFF -> (0xFF>>1) == 0x7f, the sentinel
// decodePalettedStorage recognises as "inherit the previous palette".
const chainedBiome = 0xFF

// NetworkEncode serialises the chunk into the wire form consumed by an
// unmodified game client: one subchunk record per populated subchunk up to
// the highest non-empty index, followed by one biome PalettedStorage per
// vertical section. Empty trailing subchunks (Chunk invariant 3) are
// omitted; empty subchunks below the highest non-empty one are still
// emitted so indices stay aligned with SubCount.
func (c *Chunk) NetworkEncode(ver byte) (payload []byte, subChunkCount int) {
	buf := new(bytes.Buffer)
	top := c.highestNonEmpty()
	for i := 0; i <= top; i++ {
		encodeSubChunk(buf, c.sub[i], c.worldSection(i), ver, NetworkEncoding)
	}
	c.encodeBiomes(buf, NetworkEncoding)
	return buf.Bytes(), top + 1
}

// worldSection converts a subchunk array index back to the world Y section
// id version 9 writes on the wire, the inverse of decodeSubChunk's
// `*index = uint8(int8(uIndex) - int8(c.r[0]>>4))` translation.
func (c *Chunk) worldSection(index int) byte {
	return byte(int8(index) + int8(c.r[0]>>4))
}

// highestNonEmpty returns the index of the highest SubChunk that is not
// empty (Chunk invariant 3), or -1 if every subchunk is empty.
func (c *Chunk) highestNonEmpty() int {
	for i := len(c.sub) - 1; i >= 0; i-- {
		if !c.sub[i].Empty() {
			return i
		}
	}
	return -1
}

// NetworkEncodeLimited produces the limited-request chunk payload:
// per-section biome data only, with the sub-chunk count field set to -2 to
// signal the client that full subchunks must be requested on demand via
// subchunk-request/response.
func (c *Chunk) NetworkEncodeLimited() (payload []byte, subChunkCount int32) {
	buf := new(bytes.Buffer)
	c.encodeBiomes(buf, NetworkEncoding)
	_ = buf.WriteByte(0) // border-block count, always zero: border blocks are a full-game feature out of scope here.
	return buf.Bytes(), -2
}

// encodeBiomes writes one PalettedStorage per vertical section, in full:
// the chainedBiome sentinel is a read-side accommodation for encoders
// (vanilla or otherwise) that choose to deduplicate repeated sections, but
// this encoder always emits every section explicitly, keeping the wire
// size predictable.
func (c *Chunk) encodeBiomes(buf *bytes.Buffer, e Encoding) {
	for _, b := range c.biomes {
		encodePalettedStorage(buf, b, e, BiomePaletteEncoding)
	}
}

// SubChunkVersion is the version byte this module writes for every
// subchunk it produces: version 9, which reads as index = world Y / 16
// rather than an offset relative to the chunk's own sub-slice.
const SubChunkVersion = 9

// encodeSubChunk writes the wire form of a single SubChunk record:
// `0x09, storage_count, rel_y_index, [storage...]`.
func encodeSubChunk(buf *bytes.Buffer, s *SubChunk, relY byte, ver byte, e Encoding) {
	_ = buf.WriteByte(ver)
	_ = buf.WriteByte(byte(len(s.storages)))
	if ver == SubChunkVersion {
		_ = buf.WriteByte(relY)
	}
	for _, layer := range s.storages {
		encodePalettedStorage(buf, layer, e, BlockPaletteEncoding)
	}
}

// encodePalettedStorage writes one storage layer: the block-size header
// byte, the packed index words (absent for a singleton palette), and the
// palette itself.
func encodePalettedStorage(buf *bytes.Buffer, s *PalettedStorage, e Encoding, pe paletteEncoding) {
	bits := paletteSize(0)
	if !s.Singleton() {
		bits = s.palette.Size()
	}
	_ = buf.WriteByte(byte(bits)<<1 | 1)
	if bits == 0 {
		e.encodePalette(buf, s.palette, pe)
		return
	}
	indicesPerWord := 32 / int(bits)
	words := bits.uint32s()
	for w := 0; w < words; w++ {
		var word uint32
		for i := 0; i < indicesPerWord; i++ {
			pos := w*indicesPerWord + i
			if pos >= len(s.indices) {
				break
			}
			word |= uint32(s.indices[pos]) << uint(i*int(bits))
		}
		writeUint32LE(buf, word)
	}
	e.encodePalette(buf, s.palette, pe)
}

// writeUint32LE appends v to buf in little-endian order. Written by hand,
// like decodePalettedStorage's matching read, to avoid the overhead of
// routing every 32-bit word of a densely packed subchunk through
// encoding/binary.
func writeUint32LE(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 24))
}

// DiskEncode serialises the chunk into its persisted form, writing a
// biome section ahead of up to 24 SubChunk records.
func (c *Chunk) DiskEncode() SerialisedData {
	var d SerialisedData
	biomeBuf := new(bytes.Buffer)
	c.encodeBiomes(biomeBuf, DiskEncoding)
	d.Biomes = biomeBuf.Bytes()

	d.SubChunks = make([][]byte, len(c.sub))
	for i, sub := range c.sub {
		if sub.Empty() {
			continue
		}
		buf := new(bytes.Buffer)
		encodeSubChunk(buf, sub, c.worldSection(i), SubChunkVersion, DiskEncoding)
		d.SubChunks[i] = buf.Bytes()
	}
	return d
}

// HeightMapOutcome classifies a subchunk's relationship to the chunk's
// heightmap, used by HeightMapView to avoid sending irrelevant per-column
// height data to the client.
type HeightMapOutcome int

const (
	// TooHigh means every column's height is above this subchunk: every
	// position in it is below the surface.
	TooHigh HeightMapOutcome = iota
	// TooLow means every column's height is below this subchunk: it is
	// entirely air as far as the heightmap is concerned.
	TooLow
	// HasData means the subchunk straddles the heightmap and carries a
	// meaningful per-column relative height view.
	HasData
)

// HeightMapView returns, for the subchunk at the given index, a
// classification plus (only for HasData) a 256-entry array of relative
// heights in XZ order: -1 means "below this subchunk", 16 means "above
// it", and any value in [1,16) is the lowest-air-above row within it.
func (c *Chunk) HeightMapView(index int) (HeightMapOutcome, [256]int8) {
	var out [256]int8
	base := c.r.Min() + index*16
	allBelow, allAbove := true, true
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			h := int(c.HeightMap(x, z))
			rel := h - base
			switch {
			case rel <= 0:
				out[x<<4|z] = -1
				allAbove = false
			case rel >= 16:
				out[x<<4|z] = 16
				allBelow = false
			default:
				out[x<<4|z] = int8(rel)
				allAbove, allBelow = false, false
			}
		}
	}
	if allBelow {
		return TooLow, out
	}
	if allAbove {
		return TooHigh, out
	}
	return HasData, out
}
