package chunk

import (
	"bytes"
	"fmt"

	"github.com/unastar-mc/unastar/server/block/cube"
)

// SerialisedData is the on-disk shape of a chunk: a biome section buffer
// plus one raw subchunk record per index, empty where no subchunk was ever
// populated. It is read-compatible with subchunk versions 8 and 9 (same
// storage layout, differing only in the version byte).
type SerialisedData struct {
	Biomes    []byte
	SubChunks [][]byte
}

// NetworkDecode decodes the network serialised data passed into a Chunk if
// successful. The sub chunk count passed must be that found in the
// LevelChunk packet.
func NetworkDecode(air uint32, data []byte, count int, r cube.Range) (*Chunk, error) {
	c, err := NetworkDecodeBuffer(air, bytes.NewBuffer(data), count, r)
	return c, err
}

// NetworkDecodeBuffer decodes the network serialised data from buf into a
// Chunk, reading exactly count subchunk records followed by one biome
// PalettedStorage per vertical section.
func NetworkDecodeBuffer(air uint32, buf *bytes.Buffer, count int, r cube.Range) (*Chunk, error) {
	c := New(air, r)
	maxIndex := uint8(r.Height() >> 4)

	for i := range count {
		index := uint8(i)
		sub, err := decodeSubChunk(buf, c, &index, NetworkEncoding)
		if err != nil {
			return nil, err
		}
		if index >= maxIndex {
			// Some Java-to-Bedrock converters emit more subchunks than the
			// dimension's range allows; skip storing them but keep reading
			// so the buffer stays aligned for the biome section that
			// follows.
			continue
		}
		c.sub[index] = sub
	}

	if err := decodeBiomes(buf, c, NetworkEncoding); err != nil {
		return nil, err
	}
	return c, nil
}

// DiskDecode decodes the data from a SerialisedData object into a chunk and
// returns it. If the data was invalid, an error is returned.
func DiskDecode(data SerialisedData, r cube.Range) (*Chunk, error) {
	air, ok := StateToRuntimeID("minecraft:air", nil)
	if !ok {
		panic("chunk: cannot find air runtime ID")
	}

	c := New(air, r)
	if err := decodeBiomes(bytes.NewBuffer(data.Biomes), c, DiskEncoding); err != nil {
		return nil, err
	}
	for i, sub := range data.SubChunks {
		if len(sub) == 0 {
			continue
		}
		index := uint8(i)
		var err error
		if c.sub[index], err = decodeSubChunk(bytes.NewBuffer(sub), c, &index, DiskEncoding); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// decodeSubChunk decodes a SubChunk from buf. The Encoding passed defines
// how the block storages of the SubChunk are decoded.
func decodeSubChunk(buf *bytes.Buffer, c *Chunk, index *byte, e Encoding) (*SubChunk, error) {
	ver, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read subchunk version: %w", err)
	}
	sub := NewSubChunk(c.air)
	switch ver {
	default:
		return nil, fmt.Errorf("unknown subchunk version %v: can't decode", ver)
	case 1:
		// Version 1 carries only one layer, but already uses the paletted
		// format.
		storage, err := decodePalettedStorage(buf, e, BlockPaletteEncoding)
		if err != nil {
			return nil, err
		}
		sub.storages = []*PalettedStorage{storage}
	case 8, SubChunkVersion:
		storageCount, err := buf.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read storage count: %w", err)
		}
		if ver == SubChunkVersion {
			uIndex, err := buf.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("read subchunk index: %w", err)
			}
			// Version 9 writes the subchunk's world Y section, not its
			// position within this chunk's own sub slice, so translate it.
			*index = uint8(int8(uIndex) - int8(c.r[0]>>4))
		}
		sub.storages = make([]*PalettedStorage, storageCount)
		for i := byte(0); i < storageCount; i++ {
			sub.storages[i], err = decodePalettedStorage(buf, e, BlockPaletteEncoding)
			if err != nil {
				return nil, err
			}
		}
	}
	return sub, nil
}

// decodeBiomes reads one PalettedStorage per vertical section of c from
// buf, following the chained-palette convention of chainedBiome.
func decodeBiomes(buf *bytes.Buffer, c *Chunk, e Encoding) error {
	if buf.Len() == 0 {
		return nil
	}
	var last *PalettedStorage
	for i := range c.biomes {
		b, err := decodePalettedStorage(buf, e, BiomePaletteEncoding)
		if err != nil {
			return err
		}
		if b == nil {
			if i == 0 || last == nil {
				return fmt.Errorf("first biome storage pointed at a non-existent previous one")
			}
			b = last
		}
		c.biomes[i] = b
		last = b
	}
	return nil
}

// decodePalettedStorage decodes a PalettedStorage from buf. It returns a
// nil storage (no error) when it reads the chainedBiome sentinel, in which
// case the caller must substitute the previously decoded storage.
func decodePalettedStorage(buf *bytes.Buffer, e Encoding, pe paletteEncoding) (*PalettedStorage, error) {
	header, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read block size: %w", err)
	}
	if header == chainedBiome {
		return nil, nil
	}
	bits := paletteSize(header >> 1)
	if !bits.valid() {
		return nil, fmt.Errorf("cannot read paletted storage: unsupported bit width %v", bits)
	}

	words := bits.uint32s()
	if words > 4096 {
		return nil, fmt.Errorf("cannot read paletted storage (bits=%v): size too large", bits)
	}

	indices := make([]uint16, 0, 4096)
	if bits != 0 {
		byteCount := words * 4
		data := buf.Next(byteCount)
		if len(data) != byteCount {
			return nil, fmt.Errorf("cannot read paletted storage (bits=%v): expected %v bytes, got %v", bits, byteCount, len(data))
		}
		indicesPerWord := 32 / int(bits)
		mask := uint32(1)<<uint(bits) - 1
		for w := 0; w < words; w++ {
			word := uint32(data[w*4]) | uint32(data[w*4+1])<<8 | uint32(data[w*4+2])<<16 | uint32(data[w*4+3])<<24
			for i := 0; i < indicesPerWord && len(indices) < 4096; i++ {
				indices = append(indices, uint16((word>>uint(i*int(bits)))&mask))
			}
		}
		for len(indices) < 4096 {
			indices = append(indices, 0)
		}
	}

	p, err := e.decodePalette(buf, bits, pe)
	if err != nil {
		return nil, err
	}
	if bits == 0 {
		return newPalettedStorageWithValue(p.values[0]), nil
	}
	for _, idx := range indices {
		if int(idx) >= p.Len() {
			return nil, fmt.Errorf("paletted storage index %v out of range of palette with %v entries", idx, p.Len())
		}
	}
	return newPalettedStorage(indices, p), nil
}
