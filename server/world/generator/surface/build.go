package surface

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
	"github.com/unastar-mc/unastar/server/world/generator/noise"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

// BuildVanillaSurfaceRule assembles the overworld topsoil rule tree. The
// reference generator this is modeled on compiles a surface_rule.json
// asset into one of these trees at build time; without that asset this
// wires the same rule and condition primitives directly for a
// representative subset of biomes, covering every primitive the
// evaluator supports.
func BuildVanillaSurfaceRule(seed int64) Rule {
	permafrost := NewVerticalGradient(80, 100, noise.NewDoublePerlin(rand.NewSource(seed+7001), []float64{1, 1}, -6))
	stripe := NoiseThreshold{
		Noise:        noise.NewDoublePerlin(rand.NewSource(seed+7002), []float64{1, 1}, -4),
		MinThreshold: 0.2,
		MaxThreshold: 1.0,
	}

	badlandsPalette := []uint32{
		block.RuntimeID("minecraft:white_terracotta"),
		block.RuntimeID("minecraft:orange_terracotta"),
		block.RuntimeID("minecraft:terracotta"),
		block.RuntimeID("minecraft:yellow_terracotta"),
		block.RuntimeID("minecraft:brown_terracotta"),
		block.RuntimeID("minecraft:red_terracotta"),
	}

	sandy := NewSequenceRule(
		NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, NewBlockRule(block.Sand())),
		NewTestRule(StoneDepthCheck{Offset: 4, SurfaceType: Floor}, NewBlockRule(block.Sandstone())),
	)

	windswept := NewSequenceRule(
		NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, NewSequenceRule(
			NewTestRule(stripe, NewBandlandsRule(seed, badlandsPalette)),
			NewBlockRule(block.Gravel()),
		)),
		NewTestRule(StoneDepthCheck{Offset: 4, SurfaceType: Floor}, NewBlockRule(block.Dirt())),
	)

	swampy := NewSequenceRule(
		NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, NewBlockRule(block.GrassBlock())),
		NewTestRule(StoneDepthCheck{Offset: 4, SurfaceType: Floor}, NewBlockRule(block.Clay())),
	)

	snowyMountains := NewSequenceRule(
		NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, NewBlockRule(block.SnowBlock())),
		NewBlockRule(block.Stone()),
	)

	savanna := NewSequenceRule(
		NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, NewSequenceRule(
			NewTestRule(stripe, NewBlockRule(block.CoarseDirt())),
			NewBlockRule(block.GrassBlock()),
		)),
		NewTestRule(StoneDepthCheck{Offset: 4, SurfaceType: Floor}, NewBlockRule(block.Dirt())),
	)

	grassyTop := NewSequenceRule(
		NewTestRule(Not{Inner: permafrost}, NewBlockRule(block.GrassBlock())),
		NewBlockRule(block.SnowBlock()),
	)

	grassy := NewSequenceRule(
		NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, grassyTop),
		NewTestRule(StoneDepthCheck{Offset: 4, SurfaceType: Floor}, NewBlockRule(block.Dirt())),
	)

	return NewSequenceRule(
		NewTestRule(MultipleBiomes(biome.Desert, biome.Ocean, biome.Beach), sandy),
		NewTestRule(SingleBiome(biome.WindsweptHills), windswept),
		NewTestRule(MultipleBiomes(biome.Swamp, biome.River), swampy),
		NewTestRule(SingleBiome(biome.SnowyMountains), snowyMountains),
		NewTestRule(SingleBiome(biome.Savanna), savanna),
		grassy,
	)
}
