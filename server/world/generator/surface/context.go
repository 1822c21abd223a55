// Package surface implements the vanilla-style surface rule evaluator:
// a tree of rules and conditions that decides, column by column, which
// block goes at each Y once the raw terrain shape has been carved out.
// Rules are plain Go values composed at startup rather than generated
// code, since Go has no idiomatic equivalent of a proc-macro-driven code
// emission step; composition happens once per world (see
// BuildVanillaSurfaceRule) and the resulting tree is immutable and safe
// to reuse across every chunk and goroutine.
package surface

import "github.com/unastar-mc/unastar/server/world/generator/biome"

// Context carries the per-column, per-Y state a rule tree needs to decide
// a block. A generator walks one column top-down, mutating StoneDepth and
// the depth fields as it goes, and calls Rule.Apply once per Y.
type Context struct {
	X, Y, Z int32
	Biome   biome.ID

	// StoneDepth counts stone-family blocks scanned downward since the last
	// non-stone-family block (1 at the first solid block under air).
	StoneDepth int32
	// SurfaceDepth is the per-column randomized topsoil thickness (1-4 in
	// vanilla), used by stone_depth/y_above_anchor checks that want a
	// noisy surface rather than a flat one.
	SurfaceDepth int32
	// WaterHeight is the Y of the top of standing fluid in this column,
	// or MinY when the column has none.
	WaterHeight int32

	MinY, MaxY int32

	// PreliminarySurfaceHeight is the height the density field alone
	// would produce before surface rules run.
	PreliminarySurfaceHeight int32

	// Slope is a coarse steepness metric: the max absolute height
	// difference to a cardinal neighbor column. Used by the steep
	// condition.
	Slope int32
}
