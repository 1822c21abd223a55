// Package terrain implements per-chunk terrain synthesis: height fields,
// column fill, stone variants, ore placement, cave/ravine carving,
// vegetation, and structure placement.
package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
	"github.com/unastar-mc/unastar/server/world/generator/noise"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
	"github.com/unastar-mc/unastar/server/world/generator/surface"
)

// SeaLevel is the fixed world sea level terrain synthesis, structure
// gating, and the surface rule evaluator all reference.
const SeaLevel = 63

// VanillaGenerator produces chunks deterministically from a world seed. All
// fields besides the seed itself are immutable after construction and may
// be shared across concurrently generating chunks.
type VanillaGenerator struct {
	seed int64

	climate *biome.Sampler

	riverNoise  *noise.DoublePerlin
	detailNoise *noise.DoublePerlin
	treeNoise   *noise.DoublePerlin
	variantSrc  *noise.DoublePerlin

	topsoilRule surface.Rule
}

// NewVanillaGenerator builds a generator for seed. Every noise network is
// forked from a distinct, fixed salt so reseeding the world never produces
// a generator whose rivers collide with its tree placement.
func NewVanillaGenerator(seed int64) *VanillaGenerator {
	mk := func(salt int64, octaves, omin int) *noise.DoublePerlin {
		src := rand.NewSource(seed + salt)
		amps := make([]float64, octaves)
		for i := range amps {
			amps[i] = 1
		}
		return noise.NewDoublePerlin(src, amps, omin)
	}
	return &VanillaGenerator{
		seed:        seed,
		climate:     biome.NewSampler(seed),
		riverNoise:  mk(100, 1, -6),
		detailNoise: mk(101, 1, -4),
		treeNoise:   mk(102, 1, -5),
		variantSrc:  mk(103, 1, -5),
		topsoilRule: surface.BuildVanillaSurfaceRule(seed),
	}
}

// Seed returns the world seed this generator was built from.
func (g *VanillaGenerator) Seed() int64 { return g.seed }

// surfaceRule returns the generator's compiled topsoil rule tree, built
// once at construction and shared read-only across every chunk and
// goroutine this generator serves.
func (g *VanillaGenerator) surfaceRule() surface.Rule { return g.topsoilRule }

// biomeAt resolves the nearest-table biome for a block column using a
// fresh, un-cached climate sample. Bulk per-chunk work should prefer a
// biome.ChunkCache instead.
func (g *VanillaGenerator) biomeAt(x, z int32) biome.ID {
	return biome.Lookup(g.climate.Sample(x, SeaLevel, z, SeaLevel))
}

// FindSafeSpawn scans outward in expanding square rings from the origin for
// a column whose surface sits just above sea level, returning a position
// two blocks above the ground. Falls back to the origin column if nothing
// within the search radius qualifies.
func (g *VanillaGenerator) FindSafeSpawn() (x, y, z int32) {
	for radius := int32(0); radius < 32; radius++ {
		for dz := -radius; dz <= radius; dz++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs32(dx) != radius && abs32(dz) != radius {
					continue
				}
				h := g.heightAt(dx, dz)
				if h > SeaLevel && h < 100 {
					return dx, h + 2, dz
				}
			}
		}
	}
	h := g.heightAt(0, 0)
	if h < SeaLevel {
		h = SeaLevel
	}
	return 0, h + 2, 0
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// GenerateChunk synthesizes the full chunk at (chunkX, chunkZ): height and
// biome per column, block fill (topsoil blocks decided by the surface rule
// evaluator), stone variants, ores, cave/ravine carving, vegetation and
// trees, and structures.
func (g *VanillaGenerator) GenerateChunk(chunkX, chunkZ int32) *chunk.Chunk {
	c := chunk.New(block.Air(), chunk.Overworld)

	climateCache := biome.NewChunkCache(g.climate, chunkX, chunkZ, SeaLevel)
	climateCache.Fill()
	centerBiome := climateCache.Biome(chunkX*16+8, chunkZ*16+8)
	for y := c.Range().Min(); y <= c.Range().Max(); y += 16 {
		c.SetBiome(0, y, 0, centerBiome.BedrockID())
	}

	heights := [16][16]int32{}
	biomes := [16][16]biome.ID{}
	for lz := int32(0); lz < 16; lz++ {
		for lx := int32(0); lx < 16; lx++ {
			wx, wz := chunkX*16+lx, chunkZ*16+lz
			b := climateCache.Biome(wx, wz)
			h := g.heightAt(wx, wz)
			heights[lz][lx] = h
			biomes[lz][lx] = b
			g.buildColumn(c, int(lx), int(lz), h, b)
		}
	}

	g.addStoneVariants(c, chunkX, chunkZ)
	g.addOres(c, chunkX, chunkZ, heights)
	g.carveCaves(c, chunkX, chunkZ)
	g.carveRavines(c, chunkX, chunkZ)
	if !g.hasStructureInChunk(chunkX, chunkZ) {
		g.addTrees(c, chunkX, chunkZ, heights, biomes)
	}
	g.addVegetation(c, chunkX, chunkZ, heights, biomes)
	g.addStructures(c, chunkX, chunkZ, heights, biomes)

	c.RebuildHeightMap()
	return c
}
