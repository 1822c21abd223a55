package terrain

import (
	"github.com/unastar-mc/unastar/server/block"
	"github.com/unastar-mc/unastar/server/world/chunk"
	"github.com/unastar-mc/unastar/server/world/generator/biome"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

// structureKind names the five placeable structure footprints.
type structureKind int

const (
	structureVillage structureKind = iota
	structureDesertPyramid
	structureSwampHut
	structureIgloo
	structureJungleTemple
)

// structureConfig gives each structure kind its region size (in chunks) and
// a salt that keeps every type's jitter sequence independent even though
// they all derive from the same world seed.
type structureConfig struct {
	regionSize int32
	salt       int64
}

var structureConfigs = map[structureKind]structureConfig{
	structureVillage:       {regionSize: 32, salt: 10387312},
	structureDesertPyramid: {regionSize: 27, salt: 14357617},
	structureSwampHut:      {regionSize: 24, salt: 14357852},
	structureIgloo:         {regionSize: 28, salt: 14357618},
	structureJungleTemple:  {regionSize: 30, salt: 14357619},
}

// structurePos is the single candidate chunk+block position a region can
// place its structure at.
type structurePos struct {
	chunkX, chunkZ int32
	x, z           int32
}

// floorDiv is Euclidean floor division (Rust's div_euclid), needed because
// region coordinates must not skip a value at zero when chunk coords go
// negative.
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// structurePosition derives the one candidate chunk a region may place its
// structure in: jitter the region's origin chunk by an LCG draw seeded from
// world seed XOR type salt XOR region coordinates.
func structurePosition(cfg structureConfig, seed int64, regionX, regionZ int32) structurePos {
	lcgSeed := seed ^ cfg.salt ^ int64(regionX)*341873128712 ^ int64(regionZ)*132897987541
	rng := rand.NewLCG(lcgSeed)
	jitterX := rng.NextInt(cfg.regionSize)
	jitterZ := rng.NextInt(cfg.regionSize)
	chunkX := regionX*cfg.regionSize + jitterX
	chunkZ := regionZ*cfg.regionSize + jitterZ
	return structurePos{
		chunkX: chunkX,
		chunkZ: chunkZ,
		x:      chunkX*16 + 8,
		z:      chunkZ*16 + 8,
	}
}

func (g *VanillaGenerator) structurePositionFor(kind structureKind, chunkX, chunkZ int32) structurePos {
	cfg := structureConfigs[kind]
	regionX := floorDiv(chunkX, cfg.regionSize)
	regionZ := floorDiv(chunkZ, cfg.regionSize)
	return structurePosition(cfg, g.seed, regionX, regionZ)
}

// hasStructureInChunk reports whether a village's jittered position lands
// in this exact chunk and its terrain gates pass, used to suppress tree
// placement so trees don't grow through a village plaza.
func (g *VanillaGenerator) hasStructureInChunk(chunkX, chunkZ int32) bool {
	pos := g.structurePositionFor(structureVillage, chunkX, chunkZ)
	if pos.chunkX != chunkX || pos.chunkZ != chunkZ {
		return false
	}
	h := g.heightAt(pos.x, pos.z)
	return h > SeaLevel && h < 90
}

// addStructures checks every structure kind's jittered position against
// the current chunk and, on a match with its biome/height gate satisfied,
// stamps its footprint.
func (g *VanillaGenerator) addStructures(c *chunk.Chunk, chunkX, chunkZ int32, heights [16][16]int32, biomes [16][16]biome.ID) {
	if pos := g.structurePositionFor(structureVillage, chunkX, chunkZ); pos.chunkX == chunkX && pos.chunkZ == chunkZ {
		h := g.heightAt(pos.x, pos.z)
		b := g.biomeAt(pos.x, pos.z)
		if h > SeaLevel && h < 90 && (b == biome.Plains || b == biome.Savanna || b == biome.Taiga || b == biome.Desert) {
			placeVillageWell(c, int(pos.x&15), h, int(pos.z&15))
		}
	}
	if pos := g.structurePositionFor(structureDesertPyramid, chunkX, chunkZ); pos.chunkX == chunkX && pos.chunkZ == chunkZ {
		h := g.heightAt(pos.x, pos.z)
		b := g.biomeAt(pos.x, pos.z)
		if h > SeaLevel && b == biome.Desert {
			placeDesertPyramid(c, int(pos.x&15), h, int(pos.z&15))
		}
	}
	if pos := g.structurePositionFor(structureSwampHut, chunkX, chunkZ); pos.chunkX == chunkX && pos.chunkZ == chunkZ {
		h := g.heightAt(pos.x, pos.z)
		b := g.biomeAt(pos.x, pos.z)
		if b == biome.Swamp && h >= SeaLevel {
			placeSwampHut(c, int(pos.x&15), h, int(pos.z&15))
		}
	}
	if pos := g.structurePositionFor(structureIgloo, chunkX, chunkZ); pos.chunkX == chunkX && pos.chunkZ == chunkZ {
		h := g.heightAt(pos.x, pos.z)
		b := g.biomeAt(pos.x, pos.z)
		if (b == biome.SnowyTaiga || b == biome.SnowyMountains) && h > SeaLevel {
			placeIgloo(c, int(pos.x&15), h, int(pos.z&15))
		}
	}
	if pos := g.structurePositionFor(structureJungleTemple, chunkX, chunkZ); pos.chunkX == chunkX && pos.chunkZ == chunkZ {
		h := g.heightAt(pos.x, pos.z)
		b := g.biomeAt(pos.x, pos.z)
		if b == biome.Jungle && h > SeaLevel {
			placeJungleTemple(c, int(pos.x&15), h, int(pos.z&15))
		}
	}
}

func inBounds(x, z int) bool { return x >= 0 && x < 16 && z >= 0 && z < 16 }

// placeVillageWell stamps the classic 5x5 cobblestone well vanilla villages
// anchor their plaza around: a sunken basin of water, a three-block
// cobblestone ring wall, and a capstone roof.
func placeVillageWell(c *chunk.Chunk, cx int, groundY int32, cz int) {
	if cx < 2 || cx > 13 || cz < 2 || cz > 13 {
		return
	}
	cobble := block.Cobblestone()
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			x, z := cx+dx, cz+dz
			c.SetBlock(x, int(groundY-1), z, cobble)
			c.SetBlock(x, int(groundY), z, cobble)
		}
	}
	for yOff := int32(1); yOff <= 3; yOff++ {
		for dx := -2; dx <= 2; dx++ {
			for dz := -2; dz <= 2; dz++ {
				if abs(float64(dx)) == 2 || abs(float64(dz)) == 2 {
					c.SetBlock(cx+dx, int(groundY+yOff), cz+dz, cobble)
				}
			}
		}
	}
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			c.SetBlock(cx+dx, int(groundY+4), cz+dz, cobble)
		}
	}
	water := block.Water()
	air := block.Air()
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			c.SetBlock(cx+dx, int(groundY), cz+dz, water)
			for yOff := int32(1); yOff <= 3; yOff++ {
				c.SetBlock(cx+dx, int(groundY+yOff), cz+dz, air)
			}
		}
	}
}

// placeDesertPyramid stamps a four-level stepped sandstone pyramid with a
// hollow interior and a north-facing entrance.
func placeDesertPyramid(c *chunk.Chunk, cx int, groundY int32, cz int) {
	if cx < 4 || cx > 11 || cz < 4 || cz > 11 {
		return
	}
	sandstone := block.Sandstone()
	for dx := -4; dx <= 4; dx++ {
		for dz := -4; dz <= 4; dz++ {
			c.SetBlock(cx+dx, int(groundY-1), cz+dz, sandstone)
			c.SetBlock(cx+dx, int(groundY), cz+dz, sandstone)
		}
	}
	for level := int32(0); level < 4; level++ {
		radius := 4 - int(level)
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				c.SetBlock(cx+dx, int(groundY+1+level), cz+dz, sandstone)
			}
		}
	}
	air := block.Air()
	for level := int32(1); level < 3; level++ {
		for dx := -2; dx <= 2; dx++ {
			for dz := -2; dz <= 2; dz++ {
				c.SetBlock(cx+dx, int(groundY+level), cz+dz, air)
			}
		}
	}
	entranceZ := cz - 3
	c.SetBlock(cx, int(groundY+1), entranceZ, air)
	c.SetBlock(cx, int(groundY+2), entranceZ, air)
}

// placeSwampHut stamps an oak-log-stilted cobblestone hut, the footprint vanilla's
// witch hut uses, simplified to a flat roof.
func placeSwampHut(c *chunk.Chunk, cx int, groundY int32, cz int) {
	if cx < 3 || cx > 12 || cz < 3 || cz > 12 {
		return
	}
	log := block.OakLog()
	for _, corner := range [4][2]int{{-2, -2}, {2, -2}, {-2, 2}, {2, 2}} {
		for dy := int32(0); dy < 3; dy++ {
			c.SetBlock(cx+corner[0], int(groundY+dy), cz+corner[1], log)
		}
	}
	planks := block.Cobblestone()
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			c.SetBlock(cx+dx, int(groundY+3), cz+dz, planks)
		}
	}
	air := block.Air()
	for dy := int32(4); dy < 7; dy++ {
		for _, dx := range []int{-2, 2} {
			for dz := -2; dz <= 2; dz++ {
				c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, planks)
			}
		}
		for _, dz := range []int{-2, 2} {
			for dx := -1; dx <= 1; dx++ {
				c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, planks)
			}
		}
		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, air)
			}
		}
	}
	for dx := -3; dx <= 3; dx++ {
		for dz := -3; dz <= 3; dz++ {
			if x, z := cx+dx, cz+dz; inBounds(x, z) {
				c.SetBlock(x, int(groundY+7), z, planks)
			}
		}
	}
}

// placeIgloo stamps a simple snow-block dome.
func placeIgloo(c *chunk.Chunk, cx int, groundY int32, cz int) {
	if cx < 3 || cx > 12 || cz < 3 || cz > 12 {
		return
	}
	snow := block.SnowBlock()
	air := block.Air()
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			for dy := int32(0); dy < 3; dy++ {
				if abs(float64(dx)) == 2 || abs(float64(dz)) == 2 || dy == 2 {
					c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, snow)
				} else {
					c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, air)
				}
			}
		}
	}
}

// placeJungleTemple stamps a simplified cobblestone block temple,
// standing in for the multi-room vanilla structure.
func placeJungleTemple(c *chunk.Chunk, cx int, groundY int32, cz int) {
	if cx < 3 || cx > 12 || cz < 3 || cz > 12 {
		return
	}
	cobble := block.Cobblestone()
	air := block.Air()
	for dx := -3; dx <= 3; dx++ {
		for dz := -3; dz <= 3; dz++ {
			for dy := int32(0); dy < 6; dy++ {
				onWall := abs(float64(dx)) == 3 || abs(float64(dz)) == 3 || dy == 0 || dy == 5
				if onWall {
					c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, cobble)
				} else {
					c.SetBlock(cx+dx, int(dy)+int(groundY), cz+dz, air)
				}
			}
		}
	}
}
