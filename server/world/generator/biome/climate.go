// Package biome implements the six-parameter climate vector and the
// nearest-neighbor biome lookup table built on top of it.
package biome

import (
	"github.com/unastar-mc/unastar/server/world/generator/noise"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

// Dimension indexes a single axis of a Vector.
type Dimension int

const (
	Temperature Dimension = iota
	Humidity
	Continentalness
	Erosion
	Weirdness
	Depth
	dimensionCount
)

// Vector is a six-dimensional climate sample stored as integers: the five
// noise axes are scaled by 10000, and Depth holds 2*(seaLevel-y).
type Vector [int(dimensionCount)]int64

// Sampler produces a climate Vector at any block position. The five
// noise-driven axes are sampled from independent double-Perlin networks;
// Depth is derived algebraically from Y and does not need a noise network.
type Sampler struct {
	temperature     *noise.DoublePerlin
	humidity        *noise.DoublePerlin
	continentalness *noise.DoublePerlin
	erosion         *noise.DoublePerlin
	weirdness       *noise.DoublePerlin
}

// Hard-coded sampling scales, one per noise-driven axis. These mirror the
// coarse-to-fine frequency split vanilla's climate parameters use: humidity
// and temperature vary slowly across thousands of blocks, weirdness varies
// over hundreds.
const (
	temperatureScale     = 0.0025
	humidityScale        = 0.0025
	continentalnessScale = 0.0009
	erosionScale         = 0.0009
	weirdnessScale       = 0.0037
)

// NewSampler builds a Sampler whose five networks are all forked from the
// same world seed, each seeded with worldSeed plus a distinct salt (1-5), so
// two worlds sharing a seed produce identical climates.
func NewSampler(worldSeed int64) *Sampler {
	mk := func(salt int64, octaves int, omin int) *noise.DoublePerlin {
		src := rand.NewSource(worldSeed + salt)
		amps := make([]float64, octaves)
		for i := range amps {
			amps[i] = 1
		}
		return noise.NewDoublePerlin(src, amps, omin)
	}
	return &Sampler{
		temperature:     mk(1, 2, -10),
		humidity:        mk(2, 2, -8),
		continentalness: mk(3, 2, -9),
		erosion:         mk(4, 2, -9),
		weirdness:       mk(5, 1, -7),
	}
}

// Sample returns the climate Vector at world position (x, y, z). Depth is
// computed from y relative to sea level, independent of any noise network.
func (s *Sampler) Sample(x, y, z int32, seaLevel int32) Vector {
	fx, fy, fz := float64(x), float64(y), float64(z)
	var v Vector
	v[Temperature] = scale(s.temperature.Sample(fx*temperatureScale, 0, fz*temperatureScale))
	v[Humidity] = scale(s.humidity.Sample(fx*humidityScale, 0, fz*humidityScale))
	v[Continentalness] = scale(s.continentalness.Sample(fx*continentalnessScale, 0, fz*continentalnessScale))
	v[Erosion] = scale(s.erosion.Sample(fx*erosionScale, 0, fz*erosionScale))
	v[Weirdness] = scale(s.weirdness.Sample(fx*weirdnessScale, 0, fz*weirdnessScale))
	v[Depth] = int64((seaLevel - int32(fy)) * 2)
	return v
}

func scale(v float64) int64 {
	return int64(v * 10000)
}
