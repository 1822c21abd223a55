package chunk

// SubChunk is a 16x16x16 vertically-stacked slice of a Chunk. It owns one or
// more PalettedStorage layers: layer 0 holds the block runtime ids actually
// rendered, any further layers hold waterlogging or other block-overlay
// data. Twenty-four SubChunks make up the overworld's -64..320 Y range.
type SubChunk struct {
	air      uint32
	storages []*PalettedStorage
}

// NewSubChunk returns an empty SubChunk whose sole storage layer is a
// singleton palette of air.
func NewSubChunk(air uint32) *SubChunk {
	return &SubChunk{air: air, storages: []*PalettedStorage{newPalettedStorageWithValue(air)}}
}

// Layer returns the PalettedStorage at index i, extending the storage slice
// with fresh air-singleton layers if necessary.
func (s *SubChunk) Layer(i uint8) *PalettedStorage {
	for uint8(len(s.storages)) <= i {
		s.storages = append(s.storages, newPalettedStorageWithValue(s.air))
	}
	return s.storages[i]
}

// Layers returns every storage layer the subchunk currently holds.
func (s *SubChunk) Layers() []*PalettedStorage {
	return s.storages
}

// Empty reports whether the subchunk's first layer is a singleton palette
// of air, satisfying Chunk invariant 3: such a subchunk carries no useful
// data and may be omitted from the wire form.
func (s *SubChunk) Empty() bool {
	if len(s.storages) == 0 {
		return true
	}
	l := s.storages[0]
	return l.Singleton() && l.palette.values[0] == s.air
}

// block reads the runtime id of layer 0 at the given position.
func (s *SubChunk) block(x, y, z uint8) uint32 {
	return s.Layer(0).At(x, y, z)
}

// setBlock writes the runtime id of layer 0 at the given position.
func (s *SubChunk) setBlock(x, y, z uint8, val uint32) {
	s.Layer(0).Set(x, y, z, val)
}

// fillLayer overwrites every position of layer i with val, collapsing it
// back down to a singleton palette. Used by terrain synthesis for bulk
// writes, e.g. filling a subchunk with stone.
func (s *SubChunk) fillLayer(i uint8, val uint32) {
	for uint8(len(s.storages)) <= i {
		s.storages = append(s.storages, newPalettedStorageWithValue(s.air))
	}
	s.storages[i] = newPalettedStorageWithValue(val)
}
