package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
)

// treeDensityThreshold gives, per biome, the minimum low-frequency
// tree-noise value a candidate column needs to grow a tree at all. A threshold of 1.0 means "never".
func treeDensityThreshold(b biome.ID) float64 {
	switch b {
	case biome.Jungle, biome.DarkForest:
		return 0.2
	case biome.Forest, biome.BirchForest:
		return 0.35
	case biome.FlowerForest:
		return 0.4
	case biome.Taiga, biome.SnowyTaiga:
		return 0.45
	case biome.Swamp:
		return 0.5
	case biome.Savanna:
		return 0.65
	case biome.Plains, biome.Meadow:
		return 0.75
	default:
		return 1.0
	}
}

// addTrees samples a coarse 5-block grid (skipping chunk edges) for tree
// candidates, gated by a low-frequency "tree noise" threshold that varies
// per biome, then stamps a species-appropriate canopy. Structures suppress trees in the same chunk to avoid overgrowing a
// village plaza.
func (g *VanillaGenerator) addTrees(c *chunk.Chunk, chunkX, chunkZ int32, heights [16][16]int32, biomes [16][16]biome.ID) {
	for lz := 1; lz < 15; lz += 5 {
		for lx := 1; lx < 15; lx += 5 {
			wx, wz := chunkX*16+int32(lx), chunkZ*16+int32(lz)
			treeVal := g.treeNoise.Sample(float64(wx)*0.08, 0, float64(wz)*0.08)
			b := biomes[lz][lx]

			if treeVal < treeDensityThreshold(b) {
				continue
			}

			h := heights[lz][lx]
			if h <= SeaLevel || h > 95 {
				continue
			}

			switch b {
			case biome.Forest, biome.Plains:
				g.placeCanopyTree(c, lx, h, lz, 31, 17, 4, block.OakLog(), block.OakLeaves())
			case biome.BirchForest:
				g.placeCanopyTree(c, lx, h, lz, 37, 23, 5, block.BirchLog(), block.BirchLeaves())
			case biome.Taiga, biome.SnowyTaiga:
				g.placeSpruceTree(c, lx, h, lz)
			case biome.Jungle:
				g.placeCanopyTree(c, lx, h, lz, 43, 19, 6, block.JungleLog(), block.JungleLeaves())
			case biome.DarkForest:
				g.placeCanopyTree(c, lx, h, lz, 47, 13, 4, block.DarkOakLog(), block.DarkOakLeaves())
			case biome.Savanna:
				g.placeCanopyTree(c, lx, h, lz, 53, 29, 3, block.OakLog(), block.OakLeaves())
			case biome.Swamp:
				g.placeCanopyTree(c, lx, h, lz, 59, 31, 4, block.OakLog(), block.OakLeaves())
			case biome.FlowerForest:
				if treeVal > 0.5 {
					g.placeCanopyTree(c, lx, h, lz, 37, 23, 5, block.BirchLog(), block.BirchLeaves())
				} else {
					g.placeCanopyTree(c, lx, h, lz, 31, 17, 4, block.OakLog(), block.OakLeaves())
				}
			case biome.Meadow:
				if treeVal > 0.85 {
					g.placeCanopyTree(c, lx, h, lz, 31, 17, 4, block.OakLog(), block.OakLeaves())
				}
			}
		}
	}
}

// placeCanopyTree stamps a straight trunk topped by a four-layer canopy
// that shrinks from radius 2 to radius 1, skipping diagonal corners on a
// position hash for a natural silhouette. This shape is grounded on
// WorldGenTrees.java's oak/birch algorithm, parameterized by per-species
// salts, trunk height span, and block identifiers.
func (g *VanillaGenerator) placeCanopyTree(c *chunk.Chunk, x int, groundY int32, z int, xSalt, zSalt int64, minHeight int32, log, leaves uint32) {
	heightSeed := uint32(g.seed + int64(x)*xSalt + int64(z)*zSalt)
	trunkHeight := int32(heightSeed%3) + minHeight

	for dy := int32(0); dy < trunkHeight; dy++ {
		c.SetBlock(x, int(groundY+dy), z, log)
	}

	topY := groundY + trunkHeight
	for layer := int32(0); layer < 4; layer++ {
		y := topY - 3 + layer
		radius := int32(2)
		if layer >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				nx, nz := x+int(dx), z+int(dz)
				if nx < 0 || nx >= 16 || nz < 0 || nz >= 16 {
					continue
				}
				if abs32(dx) == radius && abs32(dz) == radius {
					cornerHash := (int32(heightSeed)+dx*7+dz*13+layer*3)%2 == 0
					if cornerHash && layer < 2 {
						continue
					}
				}
				if dx == 0 && dz == 0 && layer < 3 {
					continue
				}
				c.SetBlock(nx, int(y), nz, leaves)
			}
		}
	}
	c.SetBlock(x, int(topY), z, leaves)
}

// placeSpruceTree stamps a conical canopy: a bare lower trunk section, then
// leaf rings whose radius oscillates down to a point at the top, grounded
// on WorldGenTaiga2.java's silhouette.
func (g *VanillaGenerator) placeSpruceTree(c *chunk.Chunk, x int, groundY int32, z int) {
	heightSeed := uint32(g.seed + int64(x)*41 + int64(z)*29)
	trunkHeight := int32(heightSeed%4) + 6
	bareTrunk := int32(1 + heightSeed%2)
	leavesHeight := trunkHeight - bareTrunk
	maxRadius := int32(2 + heightSeed%2)

	log := block.SpruceLog()
	leaves := block.SpruceLeaves()

	for dy := int32(0); dy < trunkHeight; dy++ {
		c.SetBlock(x, int(groundY+dy), z, log)
	}

	currentRadius := int32(0)
	growing := true
	for layer := int32(0); layer < leavesHeight; layer++ {
		y := groundY + bareTrunk + layer
		if growing {
			currentRadius++
			if currentRadius >= maxRadius {
				growing = false
			}
		} else {
			currentRadius--
			if currentRadius <= 0 {
				currentRadius = 0
			}
		}
		radius := currentRadius
		if layer == leavesHeight-1 {
			radius = 0
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx*dx+dz*dz > radius*radius+1 {
					continue
				}
				nx, nz := x+int(dx), z+int(dz)
				if nx < 0 || nx >= 16 || nz < 0 || nz >= 16 {
					continue
				}
				if dx == 0 && dz == 0 && y < groundY+trunkHeight {
					continue
				}
				c.SetBlock(nx, int(y), nz, leaves)
			}
		}
	}
	c.SetBlock(x, int(groundY+trunkHeight), z, leaves)
}
