package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
)

// addOres places ore veins by per-type y-range and probability, gated by
// three independent noise samples plus a position hash for lapis, and
// restricted to stone/deepslate hosts.
func (g *VanillaGenerator) addOres(c *chunk.Chunk, chunkX, chunkZ int32, _ [16][16]int32) {
	oreSeed := uint64(g.seed) + uint64(chunkX)*341873128712 + uint64(chunkZ)*132897987541
	oreSeed *= 0xDEADBEEF

	stone := block.Stone()
	deepslate := block.Deepslate()

	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			wx, wz := chunkX*16+int32(lx), chunkZ*16+int32(lz)
			fx, fz := float64(wx), float64(wz)
			for y := int32(-60); y < 128; y++ {
				current := c.Block(lx, int(y), lz)
				isStone := current == stone
				isDeepslate := current == deepslate
				if !isStone && !isDeepslate {
					continue
				}
				fy := float64(y)

				n1 := g.detailNoise.Sample(fx*0.15, fy*0.15, fz*0.15)
				n2 := g.treeNoise.Sample(fx*0.2+50, fy*0.2, fz*0.2+50)
				n3 := g.treeNoise.Sample(fx*0.12+100, fy*0.12+100, fz*0.12)

				hash := uint32(wx)*1337 ^ uint32(wz)*7919 ^ uint32(y)*13
				hash ^= uint32(oreSeed)
				hashF := float64(hash%1000) / 1000

				pick := func(normal, deep func() uint32) uint32 {
					if isDeepslate {
						return deep()
					}
					return normal()
				}

				switch {
				case y >= 5 && y <= 128 && n1 > 0.75-fy/300:
					c.SetBlock(lx, int(y), lz, pick(block.OreCoal, block.DeepslateOreCoal))
				case y >= -60 && y <= 64 && n2 > 0.78:
					c.SetBlock(lx, int(y), lz, pick(block.OreIron, block.DeepslateOreIron))
				case y >= -16 && y <= 112 && n1 < -0.78 && n3 > 0.3:
					c.SetBlock(lx, int(y), lz, pick(block.OreCopper, block.DeepslateOreCopper))
				case y >= -60 && y <= 32 && n3 > 0.85:
					c.SetBlock(lx, int(y), lz, pick(block.OreGold, block.DeepslateOreGold))
				case y >= -60 && y <= 16 && n2 < -0.78:
					c.SetBlock(lx, int(y), lz, pick(block.OreRedstone, block.DeepslateOreRedstone))
				case y >= -60 && y <= 64 && n3 < -0.88 && hashF > 0.7:
					c.SetBlock(lx, int(y), lz, pick(block.OreLapis, block.DeepslateOreLapis))
				case y >= -60 && y <= 16 && n1 > 0.92 && n2 > 0.5:
					c.SetBlock(lx, int(y), lz, pick(block.OreDiamond, block.DeepslateOreDiamond))
				case y >= -16 && y <= 100 && n1 > 0.95 && n2 < -0.5 && n3 > 0.7:
					b := g.biomeAt(wx, wz)
					if b == biome.WindsweptHills || b == biome.SnowyTaiga {
						c.SetBlock(lx, int(y), lz, pick(block.OreEmerald, block.DeepslateOreEmerald))
					}
				}
			}
		}
	}
}
