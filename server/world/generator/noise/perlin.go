// Package noise implements the deterministic noise primitives vanilla
// terrain generation is built from: 3D Perlin noise, stacked octaves,
// double-Perlin, and 2D/3D simplex noise. Every generator
// here is seeded from a rand.Source and reproduces the Java reference
// implementation's output bit-for-bit, including the exact order in which
// random draws are consumed during construction.
package noise

import (
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

// Perlin is a single octave of classic 3D Perlin noise. The permutation
// table is stored as int32 (rather than byte) so a future SIMD gather path
// can read it directly; sample4 below is the portable scalar fallback the
// spec explicitly permits when no portable SIMD is available.
type Perlin struct {
	perm [257]int32
	a, b, c float64

	// Amplitude and Lacunarity are applied by the caller (Octave); Perlin
	// itself always samples at unit frequency/amplitude.
	Amplitude  float64
	Lacunarity float64

	// Precomputed Y-axis terms for the common case of sampling at the
	// octave's fixed Y (e.g. 2D sampling, where y == 0 every call).
	h2 int32
	d2 float64
	t2 float64
}

// NewPerlin constructs a Perlin noise layer from rng, consuming exactly the
// draws vanilla's PerlinNoise(Random) constructor does: three doubles for
// the coordinate offsets, then a Fisher-Yates shuffle of the identity
// permutation using rng.NextInt.
func NewPerlin(rng *rand.Source) *Perlin {
	p := &Perlin{
		a: rng.NextDouble() * 256,
		b: rng.NextDouble() * 256,
		c: rng.NextDouble() * 256,

		Amplitude:  1,
		Lacunarity: 1,
	}
	for i := range 256 {
		p.perm[i] = int32(i)
	}
	for i := 0; i < 256; i++ {
		j := int(rng.NextInt(uint32(256-i))) + i
		p.perm[i], p.perm[j] = p.perm[j], p.perm[i]
	}
	p.perm[256] = p.perm[0]

	i2 := floor(p.b)
	d2 := p.b - i2
	p.h2 = int32(i2) & 255
	p.d2 = d2
	p.t2 = smoothstep(d2)
	return p
}

func floor(v float64) float64 {
	i := float64(int64(v))
	if v < i {
		return i - 1
	}
	return i
}

func smoothstep(d float64) float64 {
	return d * d * d * (d*(d*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// Sample returns the Perlin noise value at (x, y, z), the classic
// trilinear Hermite interpolation of 8 corner gradients.
func (p *Perlin) Sample(x, y, z float64) float64 {
	d2, h2, t2 := p.d2, p.h2, p.t2
	if y != 0 {
		y += p.b
		i2 := floor(y)
		d2 = y - i2
		h2 = int32(i2) & 255
		t2 = smoothstep(d2)
	}

	d1 := x + p.a
	d3 := z + p.c
	i1 := floor(d1)
	i3 := floor(d3)
	d1 -= i1
	d3 -= i3
	h1 := int32(i1) & 255
	h3 := int32(i3) & 255
	t1 := smoothstep(d1)
	t3 := smoothstep(d3)

	perm := &p.perm
	a1 := (perm[h1] + h2) & 255
	b1 := (perm[(h1+1)&255] + h2) & 255
	a2 := (perm[a1] + h3) & 255
	a3 := (perm[(a1+1)&255] + h3) & 255
	b2 := (perm[b1] + h3) & 255
	b3 := (perm[(b1+1)&255] + h3) & 255

	l1 := gradDot(perm[a2]&15, d1, d2, d3)
	l2 := gradDot(perm[b2]&15, d1-1, d2, d3)
	l3 := gradDot(perm[a3]&15, d1, d2-1, d3)
	l4 := gradDot(perm[b3]&15, d1-1, d2-1, d3)
	l5 := gradDot(perm[(a2+1)&255]&15, d1, d2, d3-1)
	l6 := gradDot(perm[(b2+1)&255]&15, d1-1, d2, d3-1)
	l7 := gradDot(perm[(a3+1)&255]&15, d1, d2-1, d3-1)
	l8 := gradDot(perm[(b3+1)&255]&15, d1-1, d2-1, d3-1)

	l1 = lerp(t1, l1, l2)
	l3 = lerp(t1, l3, l4)
	l5 = lerp(t1, l5, l6)
	l7 = lerp(t1, l7, l8)

	l1 = lerp(t2, l1, l3)
	l5 = lerp(t2, l5, l7)

	return lerp(t3, l1, l5)
}

// Sample2D samples at y == 0, the common "flat" case used by most surface
// height noises.
func (p *Perlin) Sample2D(x, z float64) float64 {
	return p.Sample(x, 0, z)
}

// Sample4 samples four (x, z) pairs sharing a single Y, the portable scalar
// fallback for an AVX2 four-wide gather path. It must stay numerically
// identical (within 1e-10) to four individual Sample calls; a plain loop
// trivially satisfies that.
func (p *Perlin) Sample4(x [4]float64, y float64, z [4]float64) [4]float64 {
	return [4]float64{
		p.Sample(x[0], y, z[0]),
		p.Sample(x[1], y, z[1]),
		p.Sample(x[2], y, z[2]),
		p.Sample(x[3], y, z[3]),
	}
}

// gradDot computes the dot product of the gradient selected by idx (masked
// to [0,16) by the caller) with (x, y, z). The branchless u/v selection
// with sign bits matches Ken Perlin's improved noise gradient table; the
// `& 15` mask upstream of this call is load-bearing: omitting it makes
// gradients repeat every 8 indices and erases Z-axis variation entirely.
func gradDot(idx int32, x, y, z float64) float64 {
	var u float64
	if idx < 8 {
		u = x
	} else {
		u = y
	}
	var v float64
	switch {
	case idx < 4:
		v = y
	case idx == 12 || idx == 14:
		v = x
	default:
		v = z
	}
	if idx&1 != 0 {
		u = -u
	}
	if idx&2 != 0 {
		v = -v
	}
	return u + v
}
