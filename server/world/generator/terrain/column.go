package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
	"github.com/unastar-mc/unastar/server/world/generator/surface"
)

// topsoilBand is how many blocks below the surface height the surface
// rule evaluator gets to decide, before plain stone resumes.
const topsoilBand = 6

// buildColumn fills one (x, z) column from the world floor to the world
// ceiling. Bedrock, deep stone, and water are structural and decided
// directly here; the handful of blocks immediately under the surface are
// handed to the surface rule evaluator, which picks sand, clay, gravel,
// snow, or grass/dirt depending on biome and depth.
func (g *VanillaGenerator) buildColumn(c *chunk.Chunk, lx, lz int, surfaceHeight int32, b biome.ID) {
	r := c.Range()

	ctx := surface.Context{
		X:                        int32(lx),
		Z:                        int32(lz),
		Biome:                    b,
		SurfaceDepth:             int32(columnHash(lx, lz)%4) + 1,
		MinY:                     int32(r.Min()),
		MaxY:                     int32(r.Max()),
		PreliminarySurfaceHeight: surfaceHeight,
	}
	if surfaceHeight < SeaLevel {
		ctx.WaterHeight = SeaLevel
	} else {
		ctx.WaterHeight = ctx.MinY
	}
	// The walker needs to see the topsoil band top-down so StoneDepth is
	// shallow near the surface and deep near the stone below, which is
	// the opposite of the order the rest of this column fills in.
	var topsoil [topsoilBand]uint32
	walker := surface.NewColumnWalker(g.surfaceRule(), ctx)
	for i := 0; i < topsoilBand; i++ {
		y32 := surfaceHeight - 1 - int32(i)
		if b, ok := walker.Step(y32, true); ok {
			topsoil[i] = b
		} else {
			topsoil[i] = block.Dirt()
		}
	}

	for y := r.Min(); y <= r.Max(); y++ {
		y32 := int32(y)
		var id uint32

		switch {
		case y32 <= -60:
			chance := float64(y32+64) / 5
			if chance < 0 {
				chance = 0
			} else if chance > 1 {
				chance = 1
			}
			if g.isBedrock(lx, y32, lz, chance) {
				id = block.Bedrock()
			} else {
				id = block.Stone()
			}
		case y32 < surfaceHeight-topsoilBand:
			id = block.Stone()
		case y32 < surfaceHeight:
			id = topsoil[surfaceHeight-1-y32]
		case y32 < SeaLevel:
			id = block.Water()
		default:
			id = block.Air()
		}

		if id != block.Air() {
			c.SetBlock(lx, y, lz, id)
		}
	}
}

// isBedrock uses a position-derived hash rather than a shared PRNG draw, so
// bedrock generation for one column never perturbs the draw sequence any
// other column's generation depends on.
func (g *VanillaGenerator) isBedrock(x int, y int32, z int, chance float64) bool {
	h := uint64(g.seed)*0x5DEECE66D + uint64(x)*31 + uint64(z)*7919 + uint64(int64(y))
	return float64((h>>17)&0xFF)/255 < chance
}

func columnHash(x, z int) uint32 {
	return uint32(x)*31 + uint32(z)
}
