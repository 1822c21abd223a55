package density

import "github.com/unastar-mc/unastar/server/world/generator/noise"

// EvalContext carries the position and caches one compiled closure call
// needs. Flat and Column may be nil when sampling standalone (outside any
// chunk generation pass); compiled flat_cache/cache_2d nodes fall back to
// inline recomputation in that case.
type EvalContext struct {
	X, Y, Z float64

	Flat   *FlatCacheGrid
	Column *ColumnContext

	Noises map[string]*noise.DoublePerlin

	// onceCache backs cache_once nodes: memoized for the lifetime of one
	// Sample call, discarded afterward, unlike Column which survives the
	// whole column.
	onceCache map[NodeID]float64
}

func (ctx *EvalContext) once(id NodeID, compute func() float64) float64 {
	if ctx.onceCache == nil {
		ctx.onceCache = map[NodeID]float64{}
	}
	if v, ok := ctx.onceCache[id]; ok {
		return v
	}
	v := compute()
	ctx.onceCache[id] = v
	return v
}
