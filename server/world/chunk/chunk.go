package chunk

import (
	"github.com/unastar-mc/unastar/server/block/cube"
)

// Chunk is a 16x16 column of the world, exclusively owning 24 SubChunks
// (the overworld's -64..320 Y range in 16-block slices), one biome
// PalettedStorage per vertical section, and a 256-entry heightmap.
//
// Chunk invariants:
//  1. heightmap(x,z) is the lowest Y such that every block at or above
//     it, up to the top of the world, is air (one above the highest
//     non-air block, or the bottom of the range for an empty column).
//  2. SubChunk array index = (world_y - min_y) / 16.
//  3. A SubChunk whose palette is a singleton of air is "empty" and may be
//     omitted from the wire form.
type Chunk struct {
	r   cube.Range
	air uint32

	sub       []*SubChunk
	biomes    []*PalettedStorage
	heightmap [256]int16
}

// New returns an empty Chunk spanning r, with every subchunk and biome
// section defaulted to air / biome 0 and the heightmap set to the bottom
// of the range (no blocks placed yet).
func New(air uint32, r cube.Range) *Chunk {
	count := r.Height() >> 4
	c := &Chunk{r: r, air: air, sub: make([]*SubChunk, count), biomes: make([]*PalettedStorage, count)}
	for i := range c.sub {
		c.sub[i] = NewSubChunk(air)
		c.biomes[i] = newPalettedStorageWithValue(0)
	}
	for i := range c.heightmap {
		c.heightmap[i] = int16(r.Min())
	}
	return c
}

// Range returns the vertical range this chunk spans.
func (c *Chunk) Range() cube.Range { return c.r }

// subIndex converts a world Y coordinate to a subchunk array index,
// satisfying invariant 2.
func (c *Chunk) subIndex(y int) int {
	return (y - c.r.Min()) >> 4
}

// Sub returns the SubChunk at the given array index, which must be in
// [0, len(Sub())).
func (c *Chunk) Sub(index int) *SubChunk { return c.sub[index] }

// SubCount returns the number of subchunks this chunk holds (24 for the
// standard overworld range).
func (c *Chunk) SubCount() int { return len(c.sub) }

// Block returns the runtime block id at the given world position.
func (c *Chunk) Block(x int, y int, z int) uint32 {
	if y < c.r.Min() || y > c.r.Max() {
		return c.air
	}
	return c.sub[c.subIndex(y)].block(uint8(x&15), uint8((y-c.r.Min())&15), uint8(z&15))
}

// SetBlock writes val at the given world position and updates the
// heightmap incrementally to preserve invariant 1.
func (c *Chunk) SetBlock(x int, y int, z int, val uint32) {
	if y < c.r.Min() || y > c.r.Max() {
		return
	}
	c.sub[c.subIndex(y)].setBlock(uint8(x&15), uint8((y-c.r.Min())&15), uint8(z&15), val)

	hi := x&15<<4 | z&15
	if val != c.air {
		if int16(y) >= c.heightmap[hi] {
			c.heightmap[hi] = int16(y + 1)
		}
	} else if int16(y+1) == c.heightmap[hi] {
		c.recalculateColumn(x, z)
	}
}

// recalculateColumn scans downward from the current heightmap value to find
// the new highest non-air block, used when a block is removed from what was
// previously the top of the column.
func (c *Chunk) recalculateColumn(x, z int) {
	hi := x&15<<4 | z&15
	for y := int(c.heightmap[hi]) - 1; y >= c.r.Min(); y-- {
		if c.Block(x, y, z) != c.air {
			c.heightmap[hi] = int16(y + 1)
			return
		}
	}
	c.heightmap[hi] = int16(c.r.Min())
}

// HeightMap returns the height of column (x, z),
// each in [0, 16).
func (c *Chunk) HeightMap(x, z int) int16 {
	return c.heightmap[x&15<<4|z&15]
}

// Biome returns the biome id at the given world position.
func (c *Chunk) Biome(x, y, z int) uint32 {
	if y < c.r.Min() || y > c.r.Max() {
		return 0
	}
	return c.biomes[c.subIndex(y)].At(uint8(x&15), uint8((y-c.r.Min())&15), uint8(z&15))
}

// SetBiome writes the biome id at the given world position.
func (c *Chunk) SetBiome(x, y, z int, id uint32) {
	if y < c.r.Min() || y > c.r.Max() {
		return
	}
	c.biomes[c.subIndex(y)].Set(uint8(x&15), uint8((y-c.r.Min())&15), uint8(z&15), id)
}

// FillSubChunkSolid fills layer 0 of the subchunk at index with a single
// non-air runtime id and brings the heightmap in every column up to at
// least the top of that subchunk: after FillSubChunkSolid(i, nonAir),
// Block(x, min_y+16i+15, z) == nonAir and HeightMap(x,z) >= min_y+16(i+1)
// for every (x, z).
func (c *Chunk) FillSubChunkSolid(index int, val uint32) {
	c.sub[index].fillLayer(0, val)
	top := int16(c.r.Min() + (index+1)*16)
	for i := range c.heightmap {
		if c.heightmap[i] < top {
			c.heightmap[i] = top
		}
	}
}

// RebuildHeightMap recomputes the heightmap from scratch by scanning every
// column top-down. Used after bulk terrain synthesis writes that bypass
// SetBlock's incremental maintenance for performance.
func (c *Chunk) RebuildHeightMap() {
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			h := int16(c.r.Min())
			for y := c.r.Max(); y >= c.r.Min(); y-- {
				if c.Block(x, y, z) != c.air {
					h = int16(y + 1)
					break
				}
			}
			c.heightmap[x<<4|z] = h
		}
	}
}

// Compact drops palette entries from every layer of every subchunk that are
// no longer referenced by any index, shrinking the palette in place. It is
// a no-op for singleton storages.
func (c *Chunk) Compact() {
	for _, sub := range c.sub {
		for _, layer := range sub.storages {
			layer.compact()
		}
	}
}

// compact rebuilds the palette to contain only referenced values, remapping
// indices accordingly.
func (s *PalettedStorage) compact() {
	if s.indices == nil {
		return
	}
	used := make(map[uint16]bool)
	for _, idx := range s.indices {
		used[idx] = true
	}
	if len(used) == len(s.palette.values) {
		return
	}
	remap := make(map[uint16]uint16, len(used))
	newValues := make([]uint32, 0, len(used))
	for i := uint16(0); int(i) < len(s.palette.values); i++ {
		if used[i] {
			remap[i] = uint16(len(newValues))
			newValues = append(newValues, s.palette.values[i])
		}
	}
	for i, idx := range s.indices {
		s.indices[i] = remap[idx]
	}
	s.palette = &palette{values: newValues}
	if len(newValues) <= 1 {
		s.indices = nil
	}
}
