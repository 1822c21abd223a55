package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
)

// addVegetation scatters flowers, grass, mushrooms, and lily pads across
// every surface column using two low-frequency noises: one gating whether a
// column gets vegetation at all, the other selecting which species
//.
func (g *VanillaGenerator) addVegetation(c *chunk.Chunk, chunkX, chunkZ int32, heights [16][16]int32, biomes [16][16]biome.ID) {
	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			h := heights[lz][lx]
			if h <= SeaLevel {
				continue
			}
			b := biomes[lz][lx]
			wx, wz := chunkX*16+int32(lx), chunkZ*16+int32(lz)
			fx, fz := float64(wx), float64(wz)

			vegNoise := g.treeNoise.Sample(fx*0.02, 0.5, fz*0.02)
			typeNoise := g.detailNoise.Sample(fx*0.06, 0, fz*0.06)

			var placed uint32
			var ok bool

			switch b {
			case biome.FlowerForest:
				if vegNoise > 0 {
					placed, ok = flowerForestSpecies(typeNoise), true
				}
			case biome.Meadow:
				if vegNoise > -0.2 {
					placed, ok = meadowSpecies(typeNoise), true
				}
			case biome.Plains, biome.Forest, biome.BirchForest:
				if vegNoise > 0.3 {
					if typeNoise > 0.6 {
						if typeNoise > 0.8 {
							placed = block.Dandelion()
						} else {
							placed = block.Poppy()
						}
					} else {
						placed = block.ShortGrass()
					}
					ok = true
				}
			case biome.DarkForest:
				if vegNoise > 0.5 {
					if typeNoise > 0 {
						placed = block.RedMushroom()
					} else {
						placed = block.BrownMushroom()
					}
					ok = true
				}
			case biome.Swamp:
				if h == SeaLevel && vegNoise > 0.2 {
					placed, ok = block.LilyPad(), true
				}
			case biome.Taiga, biome.SnowyTaiga:
				if vegNoise > 0.4 {
					placed, ok = block.ShortGrass(), true
				}
			case biome.Savanna:
				if vegNoise > 0.5 {
					placed, ok = block.ShortGrass(), true
				}
			}

			if ok {
				c.SetBlock(lx, int(h), lz, placed)
			}
		}
	}
}

func flowerForestSpecies(typeNoise float64) uint32 {
	switch {
	case typeNoise < -0.3:
		return block.Dandelion()
	case typeNoise < -0.1:
		return block.Poppy()
	case typeNoise < 0.1:
		return block.Cornflower()
	case typeNoise < 0.3:
		return block.OxeyeDaisy()
	case typeNoise < 0.5:
		return block.AzureBluet()
	default:
		return block.LilyOfValley()
	}
}

func meadowSpecies(typeNoise float64) uint32 {
	switch {
	case typeNoise < -0.2:
		return block.Dandelion()
	case typeNoise < 0.2:
		return block.Cornflower()
	case typeNoise < 0.4:
		return block.OxeyeDaisy()
	default:
		return block.ShortGrass()
	}
}
