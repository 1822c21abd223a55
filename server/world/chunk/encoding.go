package chunk

import (
	"bytes"
	"fmt"

	"github.com/unastar-mc/unastar/server/internal/varint"
)

// paletteEncoding distinguishes how an individual palette entry is
// represented: block storages hold a signed varint runtime id, biome
// storages hold a signed varint biome id. Both currently share the same
// wire representation, but are kept distinct because disk-form block
// palettes additionally carry an NBT compound (name + states) per entry —
// see DiskEncoding.encodePalette.
type paletteEncoding int

const (
	// BlockPaletteEncoding is used for the per-layer block palettes of a
	// SubChunk.
	BlockPaletteEncoding paletteEncoding = iota
	// BiomePaletteEncoding is used for the per-section biome palette.
	BiomePaletteEncoding
)

// Encoding controls how palette entries are read and written: network
// transmission needs only the dense runtime id, while the disk form must
// additionally carry a persistent (name, states) identity so that changing
// a block's runtime id assignment across server versions does not corrupt
// saved chunks.
type Encoding interface {
	encodePalette(buf *bytes.Buffer, p *palette, pe paletteEncoding)
	decodePalette(buf *bytes.Buffer, size paletteSize, pe paletteEncoding) (*palette, error)
	network() bool
}

// NetworkEncoding is used for the wire format sent to the game client: each
// palette entry is a bare signed varint runtime id.
var NetworkEncoding Encoding = networkEncoding{}

// DiskEncoding is used for the persisted chunk form: each block palette
// entry is an NBT compound describing the persistent block identity,
// read-compatible with subchunk versions 8 and 9.
var DiskEncoding Encoding = diskEncoding{}

type networkEncoding struct{}

func (networkEncoding) network() bool { return true }

func (networkEncoding) encodePalette(buf *bytes.Buffer, p *palette, _ paletteEncoding) {
	if p.Len() > 1 {
		_ = varint.WriteInt32(buf, int32(p.Len()))
	}
	for _, v := range p.values {
		_ = varint.WriteInt32(buf, int32(v))
	}
}

func (networkEncoding) decodePalette(buf *bytes.Buffer, size paletteSize, _ paletteEncoding) (*palette, error) {
	n := 1
	if size != 0 {
		l, err := varint.ReadInt32(buf)
		if err != nil {
			return nil, fmt.Errorf("read palette length: %w", err)
		}
		if l <= 0 || l > 1<<uint(size)+1 {
			return nil, fmt.Errorf("invalid palette length %v for size %v", l, size)
		}
		n = int(l)
	}
	values := make([]uint32, n)
	for i := range values {
		v, err := varint.ReadInt32(buf)
		if err != nil {
			return nil, fmt.Errorf("read palette entry %v: %w", i, err)
		}
		values[i] = uint32(v)
	}
	return &palette{values: values}, nil
}

// blockEntry is the NBT shape of a single persisted block palette entry.
type blockEntry struct {
	Name    string         `nbt:"name"`
	States  map[string]any `nbt:"states"`
	Version int32          `nbt:"version"`
}

type diskEncoding struct{}

func (diskEncoding) network() bool { return false }

func (diskEncoding) encodePalette(buf *bytes.Buffer, p *palette, pe paletteEncoding) {
	if p.Len() > 1 {
		_ = varint.WriteInt32(buf, int32(p.Len()))
	}
	if pe == BiomePaletteEncoding {
		for _, v := range p.values {
			_ = varint.WriteInt32(buf, int32(v))
		}
		return
	}
	for _, v := range p.values {
		name, states, ok := RuntimeIDToState(v)
		if !ok {
			name, states = "minecraft:air", nil
		}
		encodeNBT(buf, blockEntry{Name: name, States: states, Version: diskBlockVersion})
	}
}

func (diskEncoding) decodePalette(buf *bytes.Buffer, size paletteSize, pe paletteEncoding) (*palette, error) {
	n := 1
	if size != 0 {
		l, err := varint.ReadInt32(buf)
		if err != nil {
			return nil, fmt.Errorf("read palette length: %w", err)
		}
		n = int(l)
	}
	values := make([]uint32, n)
	if pe == BiomePaletteEncoding {
		for i := range values {
			v, err := varint.ReadInt32(buf)
			if err != nil {
				return nil, fmt.Errorf("read biome palette entry %v: %w", i, err)
			}
			values[i] = uint32(v)
		}
		return &palette{values: values}, nil
	}
	for i := range values {
		var e blockEntry
		if err := decodeNBT(buf, &e); err != nil {
			return nil, fmt.Errorf("read block palette entry %v: %w", i, err)
		}
		id, ok := StateToRuntimeID(e.Name, e.States)
		if !ok {
			return nil, fmt.Errorf("unknown persisted block state %v%v", e.Name, e.States)
		}
		values[i] = id
	}
	return &palette{values: values}, nil
}

const diskBlockVersion = 18163713
