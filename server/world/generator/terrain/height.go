package terrain

import "github.com/unastar-mc/unastar/server/world/generator/biome"

// heightAt computes the per-column surface height: a base offset from
// continentalness, ruggedness modulation from weirdness tempered by
// erosion, a narrow river carve, and a high-frequency detail term, clamped
// to [-60, 300].
func (g *VanillaGenerator) heightAt(x, z int32) int32 {
	v := g.climate.Sample(x, SeaLevel, z, SeaLevel)
	cont := float64(v[biome.Continentalness]) / 10000
	erosion := float64(v[biome.Erosion]) / 10000
	weirdness := float64(v[biome.Weirdness]) / 10000

	height := float64(SeaLevel)

	switch {
	case cont < -0.5:
		height += cont * 30
	case cont < -0.2:
		height += cont * 15
	case cont < 0.1:
		height += cont * 5
	default:
		height += cont * 20
	}

	ruggedness := abs(weirdness)
	erosionFactor := 1 - erosion
	if erosionFactor < 0.1 {
		erosionFactor = 0.1
	}

	switch {
	case cont > 0.3 && weirdness > 0.5:
		height += ruggedness * 60 * erosionFactor
	case cont > 0.3:
		height += ruggedness * 30 * erosionFactor
	default:
		height += ruggedness * 10 * erosionFactor
	}

	fx, fz := float64(x), float64(z)
	river := abs(g.riverNoise.Sample(fx*0.0015, 0, fz*0.0015))
	if height > float64(SeaLevel)-5 && river < 0.04 {
		depth := (0.04 - river) / 0.04
		height -= depth * 15
		if height < float64(SeaLevel-5) {
			height = float64(SeaLevel - 5)
		}
	}

	detail := g.detailNoise.Sample(fx*0.04, 0, fz*0.04)
	height += detail * 2

	return clamp32(int32(height), -60, 300)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
