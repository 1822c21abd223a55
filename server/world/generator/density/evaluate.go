package density

// ChunkContext owns one FlatCacheGrid, filled once per chunk, and hands
// out ColumnCursors that share it.
type ChunkContext struct {
	compiled *Compiled
	flat     *FlatCacheGrid
}

// NewChunkContext fills the flat-cache grid for every flat_cache node
// reachable from any compiled root, for the chunk at (chunkX, chunkZ).
func (c *Compiled) NewChunkContext(chunkX, chunkZ int32) *ChunkContext {
	flat := NewFlatCacheGrid(chunkX, chunkZ)
	for _, id := range c.flatCacheOrder {
		inner := c.flatCacheInner[id]
		flat.Fill(id, func(x, z float64) float64 {
			return inner(&EvalContext{X: x, Y: 0, Z: z, Noises: c.noises})
		})
	}
	return &ChunkContext{compiled: c, flat: flat}
}

// Column starts a ColumnCursor at block position (x, z), backed by this
// chunk's flat-cache grid.
func (cc *ChunkContext) Column(x, z int32) *ColumnCursor {
	return &ColumnCursor{
		compiled: cc.compiled,
		flat:     cc.flat,
		col:      NewColumnContext(cc.flat, x, z),
		x:        float64(x),
		z:        float64(z),
	}
}

// ColumnCursor samples compiled roots at a fixed (x, z) for varying y,
// sharing cache_2d memoization across every sample taken through it.
type ColumnCursor struct {
	compiled *Compiled
	flat     *FlatCacheGrid
	col      *ColumnContext
	x, z     float64
}

// NewStandaloneColumn builds a cursor for (x, z) with no backing chunk,
// for ad hoc sampling outside of chunk generation.
func (c *Compiled) NewStandaloneColumn(x, z int32) *ColumnCursor {
	return &ColumnCursor{
		compiled: c,
		col:      NewStandaloneColumnContext(x, z),
		x:        float64(x),
		z:        float64(z),
	}
}

func (cur *ColumnCursor) ctx(y float64) *EvalContext {
	return &EvalContext{X: cur.x, Y: y, Z: cur.z, Flat: cur.flat, Column: cur.col, Noises: cur.compiled.noises}
}

// Sample evaluates root at (x, y, z).
func (cur *ColumnCursor) Sample(root string, y float64) (float64, bool) {
	e, ok := cur.compiled.roots[root]
	if !ok {
		return 0, false
	}
	return e(cur.ctx(y)), true
}

// Sample4 evaluates root at four consecutive Y values sharing this
// cursor's (x, z), matching a four-wide compute_<root>_4 entry point. Go
// has no portable SIMD to exploit here, so this simply evaluates the
// scalar path four times; callers relying on shared (x, z) work (the
// flat-cache and column caches) still benefit from not re-deriving those
// four times over.
func (cur *ColumnCursor) Sample4(root string, y0 float64) ([4]float64, bool) {
	e, ok := cur.compiled.roots[root]
	if !ok {
		return [4]float64{}, false
	}
	var out [4]float64
	for i := 0; i < 4; i++ {
		out[i] = e(cur.ctx(y0 + float64(i)))
	}
	return out, true
}

// FindTopSurface runs the iterative root-finding driver for a
// find_top_surface root, searching from its configured max Y down to its
// min Y at its configured step, refining with a binary search once the
// density crosses zero.
func (cur *ColumnCursor) FindTopSurface(root string) (float64, bool) {
	spec, ok := cur.compiled.findTopSurface[root]
	if !ok {
		return 0, false
	}
	ctx := cur.ctx(0)
	return findTopSurfaceY(spec.inner, ctx, spec.minY, spec.maxY, spec.step), true
}
