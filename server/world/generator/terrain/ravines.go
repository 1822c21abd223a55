package terrain

import (
	"math"

	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

// carveRavines reuses the cave worm algorithm's chunk-seeding scheme (with a
// distinct seed salt so ravine rolls never alias cave rolls) but fires only
// 1 chunk in 50, starts higher (Y 20-66), and carves with a 3:1
// vertical:horizontal radius ratio so cross-sections read as tall and
// narrow.
func (g *VanillaGenerator) carveRavines(c *chunk.Chunk, chunkX, chunkZ int32) {
	for cx := chunkX - caveChunkRange; cx <= chunkX+caveChunkRange; cx++ {
		for cz := chunkZ - caveChunkRange; cz <= chunkZ+caveChunkRange; cz++ {
			seed := (g.seed + int64(cx)*341873128712 + int64(cz)*132897987541) * 0x12345678
			rng := rand.NewLCG(seed)

			if rng.NextInt(50) != 0 {
				continue
			}

			startX := float64(cx*16 + rng.NextInt(16))
			yBound := rng.NextInt(40) + 8
			if yBound < 1 {
				yBound = 1
			}
			startY := float64(rng.NextInt(yBound) + 20)
			startZ := float64(cz*16 + rng.NextInt(16))

			yaw := rng.NextFloat() * float32(math.Pi) * 2
			pitch := (rng.NextFloat() - 0.5) * 2 / 8
			width := (rng.NextFloat()*2 + rng.NextFloat()) * 2

			g.carveRavineTunnel(c, chunkX, chunkZ, rng.NextLong(), startX, startY, startZ, width, yaw, pitch, 0, 0, 3.0)
		}
	}
}

func (g *VanillaGenerator) carveRavineTunnel(c *chunk.Chunk, chunkX, chunkZ int32, seed int64, x, y, z float64, width, yaw, pitch float32, startIdx, endIdx int32, heightRatio float64) {
	centerX := float64(chunkX*16 + 8)
	centerZ := float64(chunkZ*16 + 8)

	var yawChange, pitchChange float32
	rng := rand.NewLCG(seed)

	const fullRange = 8*16 - 16
	if endIdx <= 0 {
		endIdx = fullRange - rng.NextInt(fullRange/4)
	}

	isRoom := startIdx == -1
	if isRoom {
		startIdx = endIdx / 2
	}

	for i := startIdx; i < endIdx; i++ {
		radius := 1.5 + math.Sin(float64(i)*math.Pi/float64(endIdx))*float64(width)
		widthMult := float64(rng.NextFloat()*0.25 + 0.75)
		hRadius := radius * widthMult
		vRadius := radius * heightRatio * widthMult

		cosPitch := math.Cos(float64(pitch))
		sinPitch := math.Sin(float64(pitch))
		x += math.Cos(float64(yaw)) * cosPitch
		y += sinPitch * 0.3
		z += math.Sin(float64(yaw)) * cosPitch

		pitch *= 0.7
		pitch += pitchChange * 0.05
		yaw += yawChange * 0.05

		pitchChange *= 0.8
		yawChange *= 0.5
		pitchChange += (rng.NextFloat() - rng.NextFloat()) * rng.NextFloat() * 2
		yawChange += (rng.NextFloat() - rng.NextFloat()) * rng.NextFloat() * 4

		if !isRoom && rng.NextInt(4) != 0 {
			continue
		}

		dx := x - centerX
		dz := z - centerZ
		remaining := float64(endIdx - i)
		checkRad := float64(width) + 2 + 16
		if dx*dx+dz*dz-remaining*remaining > checkRad*checkRad {
			return
		}

		if x < centerX-16-hRadius*2 || z < centerZ-16-hRadius*2 || x > centerX+16+hRadius*2 || z > centerZ+16+hRadius*2 {
			continue
		}

		g.carveRavineCrossSection(c, chunkX, chunkZ, x, y, z, hRadius, vRadius)

		if isRoom {
			return
		}
	}
}

func (g *VanillaGenerator) carveRavineCrossSection(c *chunk.Chunk, chunkX, chunkZ int32, x, y, z, hRadius, vRadius float64) {
	minX := maxI(int32(math.Floor(x-hRadius))-chunkX*16, 0)
	maxX := minI(int32(math.Floor(x+hRadius))-chunkX*16+1, 16)
	minY := maxI(int32(math.Floor(y-vRadius)), -63)
	maxY := minI(int32(math.Floor(y+vRadius))+1, 248)
	minZ := maxI(int32(math.Floor(z-hRadius))-chunkZ*16, 0)
	maxZ := minI(int32(math.Floor(z+hRadius))-chunkZ*16+1, 16)

	water := block.Water()
	bedrock := block.Bedrock()

	for lx := minX; lx < maxX; lx++ {
		dx := (float64(lx+chunkX*16) + 0.5 - x) / hRadius
		for lz := minZ; lz < maxZ; lz++ {
			dz := (float64(lz+chunkZ*16) + 0.5 - z) / hRadius
			if dx*dx+dz*dz >= 1 {
				continue
			}
			for ly := maxY - 1; ly >= minY; ly-- {
				dy := (float64(ly-1) + 0.5 - y) / vRadius
				if dx*dx+dz*dz+(dy*dy)/6 >= 1 {
					continue
				}
				current := c.Block(int(lx), int(ly), int(lz))
				if current == water || current == bedrock {
					continue
				}
				if ly < 10 {
					c.SetBlock(int(lx), int(ly), int(lz), block.Lava())
				} else {
					c.SetBlock(int(lx), int(ly), int(lz), block.Air())
				}
			}
		}
	}
}
