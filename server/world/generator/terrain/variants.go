package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
)

// addStoneVariants scans every stone block between Y -60 and 80 and
// replaces some with deepslate (below Y=0, via a transition band) or a
// granite/diorite/andesite/tuff blob, gated by two 3D noise samples
//.
func (g *VanillaGenerator) addStoneVariants(c *chunk.Chunk, chunkX, chunkZ int32) {
	stone := block.Stone()
	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			wx, wz := chunkX*16+int32(lx), chunkZ*16+int32(lz)
			fx, fz := float64(wx), float64(wz)
			for y := int32(-60); y < 80; y++ {
				if c.Block(lx, int(y), lz) != stone {
					continue
				}
				fy := float64(y)

				if y < 0 {
					transition := (-fy) / 8
					if transition > 1 {
						transition = 1
					}
					n := g.detailNoise.Sample(fx*0.1, fy*0.1, fz*0.1)
					if n < transition-0.3 {
						c.SetBlock(lx, int(y), lz, block.Deepslate())
						continue
					}
				}

				variant1 := g.treeNoise.Sample(fx*0.05, fy*0.05, fz*0.05)
				variant2 := g.detailNoise.Sample(fx*0.08+100, fy*0.08, fz*0.08+100)

				switch {
				case variant1 > 0.6 && variant2 > 0.5 && y > -20:
					c.SetBlock(lx, int(y), lz, block.Granite())
				case variant1 < -0.6 && variant2 > 0.5 && y > -40:
					c.SetBlock(lx, int(y), lz, block.Diorite())
				case variant2 < -0.6 && abs(variant1) < 0.4 && y > -50:
					c.SetBlock(lx, int(y), lz, block.Andesite())
				case y < 10 && y > -20 && variant1 > 0.5 && variant2 < -0.3:
					c.SetBlock(lx, int(y), lz, block.Tuff())
				}
			}
		}
	}
}
