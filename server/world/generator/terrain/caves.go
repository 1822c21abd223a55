package terrain

import (
	"math"

	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

// caveChunkRange is how many chunks in every direction are checked for
// tunnel starts that might reach into the chunk being carved, since a worm
// can wander well outside the chunk it was seeded from.
const caveChunkRange = 8

// carveCaves reseeds the LCG once per candidate chunk in an 8-chunk radius
// and replays that chunk's cave starts, exactly as vanilla's MapGenCaves
// does, so caves generate identically regardless of which chunk is
// requested first.
func (g *VanillaGenerator) carveCaves(c *chunk.Chunk, chunkX, chunkZ int32) {
	for cx := chunkX - caveChunkRange; cx <= chunkX+caveChunkRange; cx++ {
		for cz := chunkZ - caveChunkRange; cz <= chunkZ+caveChunkRange; cz++ {
			seed := g.seed + int64(cx)*341873128712 + int64(cz)*132897987541
			rng := rand.NewLCG(seed)

			r1 := rng.NextInt(15) + 1
			r2 := rng.NextInt(r1) + 1
			caveCount := rng.NextInt(r2)
			if rng.NextInt(7) != 0 {
				caveCount = 0
			}

			for i := int32(0); i < caveCount; i++ {
				startX := float64(cx*16 + rng.NextInt(16))
				yBound := rng.NextInt(120) + 8
				if yBound < 1 {
					yBound = 1
				}
				startY := float64(rng.NextInt(yBound))
				startZ := float64(cz*16 + rng.NextInt(16))

				branches := int32(1)
				if rng.NextInt(4) == 0 {
					g.carveCaveRoom(c, chunkX, chunkZ, rng, startX, startY, startZ)
					branches += rng.NextInt(4)
				}

				for b := int32(0); b < branches; b++ {
					yaw := rng.NextFloat() * float32(math.Pi) * 2
					pitch := (rng.NextFloat() - 0.5) * 2 / 8
					width := rng.NextFloat()*2 + rng.NextFloat()
					if rng.NextInt(10) == 0 {
						width *= rng.NextFloat()*rng.NextFloat()*3 + 1
					}
					g.carveCaveTunnel(c, chunkX, chunkZ, rng.NextLong(), startX, startY, startZ, width, yaw, pitch, 0, 0, 1.0)
				}
			}
		}
	}
}

func (g *VanillaGenerator) carveCaveRoom(c *chunk.Chunk, chunkX, chunkZ int32, rng *rand.LCG, x, y, z float64) {
	width := 1 + rng.NextFloat()*6
	g.carveCaveTunnel(c, chunkX, chunkZ, rng.NextLong(), x, y, z, width, 0, 0, -1, -1, 0.5)
}

// carveCaveTunnel walks a polyline from (x, y, z), perturbing pitch/yaw each
// step via a low-pass random walk, carving an ellipsoid cross-section at
// every surviving step. heightRatio scales the vertical radius relative to
// the horizontal one: tunnels pass 1, and the rooms carveCaveRoom opens
// pass 0.5.
func (g *VanillaGenerator) carveCaveTunnel(c *chunk.Chunk, chunkX, chunkZ int32, seed int64, x, y, z float64, width, yaw, pitch float32, startIdx, endIdx int32, heightRatio float64) {
	centerX := float64(chunkX*16 + 8)
	centerZ := float64(chunkZ*16 + 8)

	var yawChange, pitchChange float32
	rng := rand.NewLCG(seed)

	const fullRange = 8*16 - 16
	rangeSteps := int32(fullRange)
	if endIdx <= 0 {
		endIdx = rangeSteps - rng.NextInt(rangeSteps/4)
	}

	isRoom := startIdx == -1
	if isRoom {
		startIdx = endIdx / 2
	}

	half := endIdx / 2
	if half < 1 {
		half = 1
	}
	branchPoint := rng.NextInt(half) + endIdx/4
	steepTunnel := rng.NextInt(6) == 0

	for i := startIdx; i < endIdx; i++ {
		radius := 1.5 + math.Sin(float64(i)*math.Pi/float64(endIdx))*float64(width)
		vRadius := radius * heightRatio

		cosPitch := math.Cos(float64(pitch))
		sinPitch := math.Sin(float64(pitch))
		x += math.Cos(float64(yaw)) * cosPitch
		y += sinPitch
		z += math.Sin(float64(yaw)) * cosPitch

		if steepTunnel {
			pitch *= 0.92
		} else {
			pitch *= 0.7
		}
		pitch += pitchChange * 0.1
		yaw += yawChange * 0.1

		pitchChange *= 0.9
		yawChange *= 0.75
		pitchChange += (rng.NextFloat() - rng.NextFloat()) * rng.NextFloat() * 2
		yawChange += (rng.NextFloat() - rng.NextFloat()) * rng.NextFloat() * 4

		if !isRoom && i == branchPoint && width > 1 && endIdx > 0 {
			g.carveCaveTunnel(c, chunkX, chunkZ, rng.NextLong(), x, y, z, rng.NextFloat()*0.5+0.5, yaw-float32(math.Pi)/2, pitch/3, i, endIdx, 1.0)
			g.carveCaveTunnel(c, chunkX, chunkZ, rng.NextLong(), x, y, z, rng.NextFloat()*0.5+0.5, yaw+float32(math.Pi)/2, pitch/3, i, endIdx, 1.0)
			return
		}

		if !isRoom && rng.NextInt(4) != 0 {
			continue
		}

		dx := x - centerX
		dz := z - centerZ
		remaining := float64(endIdx - i)
		checkRad := width + 2 + 16

		if dx*dx+dz*dz-remaining*remaining > float64(checkRad)*float64(checkRad) {
			return
		}

		if x < centerX-16-radius*2 || z < centerZ-16-radius*2 || x > centerX+16+radius*2 || z > centerZ+16+radius*2 {
			continue
		}

		g.carveEllipsoid(c, chunkX, chunkZ, x, y, z, radius, vRadius)

		if isRoom {
			return
		}
	}
}

func (g *VanillaGenerator) carveEllipsoid(c *chunk.Chunk, chunkX, chunkZ int32, x, y, z, radius, vRadius float64) {
	minX := maxI(int32(math.Floor(x-radius))-chunkX*16, 0)
	maxX := minI(int32(math.Floor(x+radius))-chunkX*16+1, 16)
	minY := maxI(int32(math.Floor(y-vRadius)), -63)
	maxY := minI(int32(math.Floor(y+vRadius))+1, 248)
	minZ := maxI(int32(math.Floor(z-radius))-chunkZ*16, 0)
	maxZ := minI(int32(math.Floor(z+radius))-chunkZ*16+1, 16)

	water := block.Water()
	bedrock := block.Bedrock()

	for lx := minX; lx < maxX; lx++ {
		dx := (float64(lx+chunkX*16) + 0.5 - x) / radius
		for lz := minZ; lz < maxZ; lz++ {
			dz := (float64(lz+chunkZ*16) + 0.5 - z) / radius
			if dx*dx+dz*dz >= 1 {
				continue
			}
			for ly := maxY - 1; ly >= minY; ly-- {
				dy := (float64(ly-1) + 0.5 - y) / vRadius
				if dy <= -0.7 || dx*dx+dy*dy+dz*dz >= 1 {
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

func maxI(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
