package surface

import (
	"github.com/unastar-mc/unastar/server/world/generator/biome"
	"github.com/unastar-mc/unastar/server/world/generator/noise"
)

// Condition tests whether a rule's block should apply at ctx's position.
type Condition interface {
	Test(ctx *Context) bool
}

// BiomeCheck passes when the column's biome is one of Biomes.
type BiomeCheck struct {
	Biomes []biome.ID
}

// SingleBiome builds a BiomeCheck for exactly one biome.
func SingleBiome(b biome.ID) BiomeCheck { return BiomeCheck{Biomes: []biome.ID{b}} }

// MultipleBiomes builds a BiomeCheck for any of bs.
func MultipleBiomes(bs ...biome.ID) BiomeCheck { return BiomeCheck{Biomes: bs} }

func (c BiomeCheck) Test(ctx *Context) bool {
	for _, b := range c.Biomes {
		if b == ctx.Biome {
			return true
		}
	}
	return false
}

// CaveSurface selects whether a StoneDepthCheck measures depth from a
// floor (scanning down through air into stone) or a ceiling (scanning up).
type CaveSurface int

const (
	Floor CaveSurface = iota
	Ceiling
)

// StoneDepthCheck passes when the running stone depth is within Offset
// blocks of the surface, optionally padded by the column's randomized
// SurfaceDepth so topsoil bands vary in thickness.
type StoneDepthCheck struct {
	Offset              int32
	AddSurfaceDepth     bool
	SecondaryDepthRange int32
	SurfaceType         CaveSurface
}

func (c StoneDepthCheck) Test(ctx *Context) bool {
	target := c.Offset
	if c.AddSurfaceDepth {
		target += ctx.SurfaceDepth
	}
	if c.SecondaryDepthRange != 0 {
		h := uint32(ctx.X)*374761393 + uint32(ctx.Z)*668265263 + uint32(ctx.Y)*2246822519
		h ^= h >> 15
		jitter := int32(h%uint32(2*c.SecondaryDepthRange+1)) - c.SecondaryDepthRange
		target += jitter
	}
	if c.SurfaceType == Ceiling {
		return ctx.StoneDepth >= -target
	}
	return ctx.StoneDepth <= target
}

// YCheck passes once ctx.Y (optionally padded by stone depth, and offset
// by the column's surface depth scaled by SurfaceDepthMultiplier) reaches
// or exceeds Anchor.
type YCheck struct {
	Anchor                  VerticalAnchor
	SurfaceDepthMultiplier  int32
	AddStoneDepth           bool
}

func (c YCheck) Test(ctx *Context) bool {
	y := ctx.Y + c.SurfaceDepthMultiplier*ctx.SurfaceDepth
	if c.AddStoneDepth {
		y += ctx.StoneDepth
	}
	return y >= c.Anchor.Resolve(ctx)
}

// WaterCheck is YCheck's counterpart measured against the column's fluid
// height instead of a fixed anchor; Offset shifts the threshold.
type WaterCheck struct {
	Offset                 int32
	SurfaceDepthMultiplier int32
	AddStoneDepth          bool
}

func (c WaterCheck) Test(ctx *Context) bool {
	y := ctx.Y + c.SurfaceDepthMultiplier*ctx.SurfaceDepth
	if c.AddStoneDepth {
		y += ctx.StoneDepth
	}
	return y >= ctx.WaterHeight+c.Offset
}

// NoiseThreshold samples a DoublePerlin network at the column's position
// and passes when the sample falls in [MinThreshold, MaxThreshold).
type NoiseThreshold struct {
	Noise        *noise.DoublePerlin
	MinThreshold float64
	MaxThreshold float64
}

func (c NoiseThreshold) Test(ctx *Context) bool {
	v := c.Noise.Sample(float64(ctx.X), float64(ctx.Y), float64(ctx.Z))
	return v >= c.MinThreshold && v < c.MaxThreshold
}

// VerticalGradient interpolates a pass probability between falseAtAndAbove
// (never passes) and trueAtAndBelow (always passes), using seeded noise to
// soften the transition band the way vanilla's deepslate/bedrock
// transitions do.
type VerticalGradient struct {
	TrueAtAndBelow  int32
	FalseAtAndAbove int32
	Noise           *noise.DoublePerlin
}

func NewVerticalGradient(trueAtAndBelow, falseAtAndAbove int32, n *noise.DoublePerlin) VerticalGradient {
	return VerticalGradient{TrueAtAndBelow: trueAtAndBelow, FalseAtAndAbove: falseAtAndAbove, Noise: n}
}

func (c VerticalGradient) Test(ctx *Context) bool {
	if ctx.Y <= c.TrueAtAndBelow {
		return true
	}
	if ctx.Y >= c.FalseAtAndAbove {
		return false
	}
	span := float64(c.FalseAtAndAbove - c.TrueAtAndBelow)
	frac := float64(ctx.Y-c.TrueAtAndBelow) / span
	sample := c.Noise.Sample(float64(ctx.X), float64(ctx.Y), float64(ctx.Z))
	return sample < 1-2*frac
}

// Temperature passes when a sampled temperature noise is within
// [Min, Max) — used to gate things like permafrost or snow bands that
// track climate rather than a fixed Y.
type Temperature struct {
	Noise *noise.DoublePerlin
	Min   float64
	Max   float64
}

func (c Temperature) Test(ctx *Context) bool {
	v := c.Noise.Sample(float64(ctx.X), 0, float64(ctx.Z))
	return v >= c.Min && v < c.Max
}

// Steep passes on columns whose local height gradient is sharp enough to
// look like a cliff face, so rule trees can swap grass for stone there.
type Steep struct{}

func (Steep) Test(ctx *Context) bool { return ctx.Slope >= 4 }

// Hole passes when the column has no standing fluid at all, i.e. a dry
// pocket (used to stop beaches forming sand floors under open-air caves).
type Hole struct{}

func (Hole) Test(ctx *Context) bool { return ctx.WaterHeight <= ctx.MinY }

// AbovePreliminarySurface passes once the cursor rises above the height
// the density field alone would have produced.
type AbovePreliminarySurface struct{}

func (AbovePreliminarySurface) Test(ctx *Context) bool {
	return ctx.Y >= ctx.PreliminarySurfaceHeight
}

// Not inverts an inner condition.
type Not struct {
	Inner Condition
}

func (c Not) Test(ctx *Context) bool { return !c.Inner.Test(ctx) }
