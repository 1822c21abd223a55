package density

import "github.com/unastar-mc/unastar/server/internal/numeric"

// FlatCacheGrid holds one 5x5 grid of quart-resolution samples per
// flat-cache node for a single chunk. Lookups outside the grid clamp to
// the nearest edge, the same policy biome.ChunkCache uses, so
// aquifer-style sampling that peeks just past a chunk border still gets
// a defined answer.
type FlatCacheGrid struct {
	chunkX, chunkZ int32
	grids          map[NodeID]*[5][5]float64
}

// NewFlatCacheGrid starts an empty grid set for the chunk at
// (chunkX, chunkZ); Fill populates one node's grid at a time.
func NewFlatCacheGrid(chunkX, chunkZ int32) *FlatCacheGrid {
	return &FlatCacheGrid{chunkX: chunkX, chunkZ: chunkZ, grids: map[NodeID]*[5][5]float64{}}
}

// Fill samples compute at all 25 quart positions covering this chunk and
// stores them under id.
func (g *FlatCacheGrid) Fill(id NodeID, compute func(x, z float64) float64) {
	baseQuartX := g.chunkX * 4
	baseQuartZ := g.chunkZ * 4
	var grid [5][5]float64
	for iz := 0; iz < 5; iz++ {
		for ix := 0; ix < 5; ix++ {
			qx := (baseQuartX + int32(ix)) * 4
			qz := (baseQuartZ + int32(iz)) * 4
			grid[iz][ix] = compute(float64(qx), float64(qz))
		}
	}
	g.grids[id] = &grid
}

// Lookup returns the cached value for node id at the quart cell containing
// (x, z) (truncating division by 4), clamping out-of-range reads to the
// grid's edge.
func (g *FlatCacheGrid) Lookup(id NodeID, x, z float64) float64 {
	grid, ok := g.grids[id]
	if !ok {
		return 0
	}
	localX := int(x) - int(g.chunkX)*16
	localZ := int(z) - int(g.chunkZ)*16
	ix := numeric.Clamp(localX/4, 0, 4)
	iz := numeric.Clamp(localZ/4, 0, 4)
	return grid[iz][ix]
}

// ColumnContext memoizes cache_2d node values for one column, filled
// lazily as the compiled closures ask for them.
type ColumnContext struct {
	flat   *FlatCacheGrid
	x, z   int32
	values map[NodeID]float64
}

// NewColumnContext builds a column cache backed by flat for (x, z).
func NewColumnContext(flat *FlatCacheGrid, x, z int32) *ColumnContext {
	return &ColumnContext{flat: flat, x: x, z: z, values: map[NodeID]float64{}}
}

// NewStandaloneColumnContext builds a column cache with no backing flat
// grid; any flat_cache lookups the compiled closures perform recompute
// inline instead of reading a precomputed grid. Slower, but valid at any
// arbitrary (x, z), including outside the chunk the caller is generating.
func NewStandaloneColumnContext(x, z int32) *ColumnContext {
	return &ColumnContext{x: x, z: z, values: map[NodeID]float64{}}
}

// Get returns the memoized value for id, computing and storing it via
// compute on first access.
func (c *ColumnContext) Get(id NodeID, compute func() float64) float64 {
	if v, ok := c.values[id]; ok {
		return v
	}
	v := compute()
	c.values[id] = v
	return v
}
