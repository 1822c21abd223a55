package noise

import "github.com/unastar-mc/unastar/server/world/generator/rand"

// doublePerlinScale gives, for small octave counts, the `(5/3) *
// len/(len+1)`-style normalization table vanilla uses so that summing two
// independently-sampled octave stacks produces output in the same rough
// range as a single one.
var doublePerlinScale = map[int]float64{
	1: 5.0 / 3.0 * 1.0 / 2.0,
	2: 5.0 / 3.0 * 2.0 / 3.0,
	3: 5.0 / 3.0 * 3.0 / 4.0,
	4: 5.0 / 3.0 * 4.0 / 5.0,
	5: 5.0 / 3.0 * 5.0 / 6.0,
	6: 5.0 / 3.0 * 6.0 / 7.0,
	8: 5.0 / 3.0 * 8.0 / 9.0,
}

// DoublePerlin samples two Octave stacks at frequency F and F*(337/331),
// summing and rescaling the result.
type DoublePerlin struct {
	a, b  *Octave
	scale float64
}

// NewDoublePerlin builds a DoublePerlin generator. amplitudes and omin are
// forwarded to both underlying Octave stacks.
func NewDoublePerlin(shared *rand.Source, amplitudes []float64, omin int) *DoublePerlin {
	a := NewOctave(shared, amplitudes, omin)
	b := NewOctave(shared, amplitudes, omin)
	scale := doublePerlinScale[len(amplitudes)]
	if scale == 0 {
		scale = 5.0 / 3.0 * float64(len(amplitudes)) / float64(len(amplitudes)+1)
	}
	return &DoublePerlin{a: a, b: b, scale: scale}
}

const doublePerlinFactor = 337.0 / 331.0

// Sample returns the combined, rescaled noise value at (x, y, z).
func (d *DoublePerlin) Sample(x, y, z float64) float64 {
	v1 := d.a.Sample(x, y, z)
	v2 := d.b.Sample(x*doublePerlinFactor, y*doublePerlinFactor, z*doublePerlinFactor)
	return (v1 + v2) * d.scale
}

// Sample4 is the four-wide counterpart of Sample.
func (d *DoublePerlin) Sample4(x [4]float64, y float64, z [4]float64) [4]float64 {
	var sx, sz [4]float64
	for i := range sx {
		sx[i] = x[i] * doublePerlinFactor
		sz[i] = z[i] * doublePerlinFactor
	}
	v1 := d.a.Sample4(x, y, z)
	v2 := d.b.Sample4(sx, y*doublePerlinFactor, sz)
	var out [4]float64
	for i := range out {
		out[i] = (v1[i] + v2[i]) * d.scale
	}
	return out
}
