package noise

import "github.com/unastar-mc/unastar/server/world/generator/rand"

// octaveSeed holds the fixed 128-bit "octave_<n>" MD5-derived mixing
// constants vanilla uses to seed each Perlin layer of an octave stack,
// indexed from octave_-12 (index 0) through octave_0 (index 12). These
// match cubiomes' md5_octave_n table and are part of the determinism
// contract: any other constants produce different, non-vanilla terrain.
var octaveSeed = [13][2]uint64{
	{0xb198de63a8012672, 0x7b84cad43ef7b5a8}, // octave_-12
	{0x0fd787bfbc403ec3, 0x74a4a31ca21b48b8}, // octave_-11
	{0x36d326eed40efeb2, 0x5be9ce18223c636a}, // octave_-10
	{0x082fe255f8be6631, 0x4e96119e22dedc81}, // octave_-9
	{0x0ef68ec68504005e, 0x48b6bf93a2789640}, // octave_-8
	{0xf11268128982754f, 0x257a1d670430b0aa}, // octave_-7
	{0xe51c98ce7d1de664, 0x5f9478a733040c45}, // octave_-6
	{0x6d7b49e7e429850a, 0x2e3063c622a24777}, // octave_-5
	{0xbd90d5377ba1b762, 0xc07317d419a7548d}, // octave_-4
	{0x53d39c6752dac858, 0xbcd1c5a80ab65b3e}, // octave_-3
	{0xb4a24d7a84e7677b, 0x023ff9668e89b5c4}, // octave_-2
	{0xdffa22b534c5f608, 0xb9b67517d3665ca9}, // octave_-1
	{0xd50708086cef4d7c, 0x6e1651ecc7f43309}, // octave_0
}

// persistInit gives, for a given octave count, the initial persistence
// amplitude factor: persist_init[len]. Matches vanilla's table for the
// lengths terrain generation actually uses (up to 16 octaves).
var persistInit = map[int]float64{
	1: 1.0, 2: 2.0 / 3.0, 3: 4.0 / 7.0, 4: 8.0 / 15.0,
	5: 16.0 / 31.0, 6: 32.0 / 63.0, 8: 128.0 / 255.0,
	10: 512.0 / 1023.0, 16: 32768.0 / 65535.0,
}

// Octave is a stack of Perlin layers with descending amplitude and
// ascending lacunarity ("1/f noise"): lacunarity doubles per octave,
// persistence halves, and amplitude is `configuredAmplitude *
// persistInit[len]`.
type Octave struct {
	layers []*Perlin
}

// NewOctave builds an Octave stack. amplitudes holds a per-octave amplitude
// multiplier (most callers pass a slice of 1.0s and rely on the persistence
// falloff); omin is the index into octaveSeed the first (lowest-frequency)
// layer starts at, i.e. -omin is how many octaves below octave_0 this stack
// begins.
func NewOctave(shared *rand.Source, amplitudes []float64, omin int) *Octave {
	n := len(amplitudes)
	persistence := persistInit[n]
	if persistence == 0 {
		persistence = 1
	}
	amplitude := persistence
	lacunarity := 1.0

	o := &Octave{layers: make([]*Perlin, 0, n)}
	for i := 0; i < n; i++ {
		if amplitudes[i] == 0 {
			o.layers = append(o.layers, nil)
		} else {
			idx := 12 + omin + i
			seed := octaveSeed[idx]
			src := rand.ForkWithHash(shared, seed[0], seed[1])
			p := NewPerlin(src)
			p.Amplitude = amplitudes[i] * amplitude
			p.Lacunarity = lacunarity
			o.layers = append(o.layers, p)
		}
		amplitude *= 0.5
		lacunarity *= 2
	}
	return o
}

// Sample sums every non-nil layer's contribution, each layer sampling at
// its own lacunarity-scaled frequency and scaled by its own amplitude.
func (o *Octave) Sample(x, y, z float64) float64 {
	var total float64
	for _, l := range o.layers {
		if l == nil {
			continue
		}
		freq := l.Lacunarity
		total += l.Sample(wrap(x*freq), wrap(y*freq), wrap(z*freq)) * l.Amplitude
	}
	return total
}

// Sample4 is the four-wide counterpart of Sample, sharing Y across lanes.
func (o *Octave) Sample4(x [4]float64, y float64, z [4]float64) [4]float64 {
	var total [4]float64
	for _, l := range o.layers {
		if l == nil {
			continue
		}
		freq := l.Lacunarity
		var wx, wz [4]float64
		for i := range wx {
			wx[i] = wrap(x[i] * freq)
			wz[i] = wrap(z[i] * freq)
		}
		s := l.Sample4(wx, wrap(y*freq), wz)
		for i := range total {
			total[i] += s[i] * l.Amplitude
		}
	}
	return total
}

// wrap folds a coordinate into Perlin's 2^25 wraparound window, matching
// vanilla's `maintainPrecision` to avoid floating point error far from the
// origin.
func wrap(v float64) float64 {
	const bound = 33554432.0 // 2^25
	return v - floor(v/bound+0.5)*bound
}
