package biome

// ChunkCache amortizes climate sampling by computing it once per quart
// position (every 4 blocks) over a 5x5 grid of quarts 0..4 on each axis
// from the chunk origin, so the last row and column lie on the next
// chunk's edge. Block-resolution queries use the quart cell containing the
// position (truncating division) rather than re-sampling the noise networks.
type ChunkCache struct {
	sampler  *Sampler
	chunkX   int32
	chunkZ   int32
	seaLevel int32
	grid     [5][5]Vector
	filled   bool
}

// NewChunkCache builds a cache for the chunk at (chunkX, chunkZ) but does
// not sample anything until Fill is called.
func NewChunkCache(sampler *Sampler, chunkX, chunkZ, seaLevel int32) *ChunkCache {
	return &ChunkCache{sampler: sampler, chunkX: chunkX, chunkZ: chunkZ, seaLevel: seaLevel}
}

// Fill samples all 25 quart positions of the grid at y=0. Must be called
// before At or Biome.
func (c *ChunkCache) Fill() {
	baseQuartX := c.chunkX * 4
	baseQuartZ := c.chunkZ * 4
	for iz := 0; iz < 5; iz++ {
		for ix := 0; ix < 5; ix++ {
			qx := (baseQuartX + int32(ix)) * 4
			qz := (baseQuartZ + int32(iz)) * 4
			c.grid[iz][ix] = c.sampler.Sample(qx, 0, qz, c.seaLevel)
		}
	}
	c.filled = true
}

// At returns the cached climate vector for the quart cell containing block
// position (x, z), clamping out-of-range lookups to the nearest edge of the
// grid.
func (c *ChunkCache) At(x, z int32) Vector {
	if !c.filled {
		c.Fill()
	}
	localX := x - c.chunkX*16
	localZ := z - c.chunkZ*16
	ix := clampIndex(int(localX) / 4)
	iz := clampIndex(int(localZ) / 4)
	return c.grid[iz][ix]
}

// Biome returns the nearest-table biome at block position (x, z).
func (c *ChunkCache) Biome(x, z int32) ID {
	return Lookup(c.At(x, z))
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > 4 {
		return 4
	}
	return i
}
