package noise

import "github.com/unastar-mc/unastar/server/world/generator/rand"

// Simplex implements Java-compatible 2D and 3D simplex noise, used by the
// river-carve and weirdness-adjacent noises of terrain synthesis. It shares the 16-entry gradient table and F2/G2/F3/G3
// constants of the vanilla reference implementation.
type Simplex struct {
	perm [512]int32

	// xo, yo, zo mirror the coordinate-offset fields vanilla's SimplexNoise
	// inherits from its Perlin base class. Nothing in get_value_2d/3d reads
	// them; they exist only so construction consumes the same three random
	// draws a shared base constructor would.
	xo, yo, zo float64
}

var simplexGradient = [16][3]int32{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

const (
	simplexF2 = 0.3660254037844386
	simplexG2 = 0.21132486540518713
	simplexF3 = 0.3333333333333333
	simplexG3 = 0.16666666666666666
)

// NewSimplex constructs a Simplex generator from rng, consuming three
// doubles for the coordinate offsets then a Fisher-Yates shuffle that
// replicates the exact (slightly unusual) index arithmetic of vanilla's
// SimplexNoise constructor, including the 512-entry permutation wraparound.
func NewSimplex(rng *rand.Source) *Simplex {
	s := &Simplex{
		xo: rng.NextDouble() * 256,
		yo: rng.NextDouble() * 256,
		zo: rng.NextDouble() * 256,
	}
	for i := 0; i < 256; i++ {
		s.perm[i] = int32(i)
	}
	for i := 0; i < 256; i++ {
		j := int(rng.NextInt(uint32(256 - i)))
		k := s.perm[i]
		s.perm[i] = s.perm[j+i]
		s.perm[j+i] = k
	}
	return s
}

func (s *Simplex) p(i int32) int32 {
	return s.perm[i&0xFF]
}

func dot3(g [3]int32, x, y, z float64) float64 {
	return float64(g[0])*x + float64(g[1])*y + float64(g[2])*z
}

func (s *Simplex) cornerNoise3D(gradIdx int32, x, y, z, falloff float64) float64 {
	h := falloff - x*x - y*y - z*z
	if h < 0 {
		return 0
	}
	h *= h
	return h * h * dot3(simplexGradient[gradIdx%12], x, y, z)
}

// Value2D returns the 2D simplex noise value at (x, y).
func (s *Simplex) Value2D(x, y float64) float64 {
	f := (x + y) * simplexF2
	i := int32(floor(x + f))
	j := int32(floor(y + f))

	g := float64(i+j) * simplexG2
	h := float64(i) - g
	k := float64(j) - g
	l := x - h
	m := y - k

	var n, o int32
	if l > m {
		n, o = 1, 0
	} else {
		n, o = 0, 1
	}

	p := l - float64(n) + simplexG2
	q := m - float64(o) + simplexG2
	r := l - 1 + 2*simplexG2
	sC := m - 1 + 2*simplexG2

	t := i & 0xFF
	u := j & 0xFF
	v := s.p(t+s.p(u)) % 12
	w := s.p(t+n+s.p(u+o)) % 12
	xIdx := s.p(t+1+s.p(u+1)) % 12

	c0 := s.cornerNoise3D(v, l, m, 0, 0.5)
	c1 := s.cornerNoise3D(w, p, q, 0, 0.5)
	c2 := s.cornerNoise3D(xIdx, r, sC, 0, 0.5)

	return 70 * (c0 + c1 + c2)
}

// Value3D returns the 3D simplex noise value at (x, y, z).
func (s *Simplex) Value3D(x, y, z float64) float64 {
	h := (x + y + z) * simplexF3
	i := int32(floor(x + h))
	j := int32(floor(y + h))
	k := int32(floor(z + h))

	m := float64(i+j+k) * simplexG3
	n := float64(i) - m
	o := float64(j) - m
	p := float64(k) - m
	q := x - n
	r := y - o
	sC := z - p

	var t, u, v, w, xOff, yOff int32
	switch {
	case q >= r && r >= sC:
		t, u, v, w, xOff, yOff = 1, 0, 0, 1, 1, 0
	case q >= r && q >= sC:
		t, u, v, w, xOff, yOff = 1, 0, 0, 1, 0, 1
	case q >= r:
		t, u, v, w, xOff, yOff = 0, 0, 1, 1, 0, 1
	case r < sC:
		t, u, v, w, xOff, yOff = 0, 0, 1, 0, 1, 1
	case q < sC:
		t, u, v, w, xOff, yOff = 0, 1, 0, 0, 1, 1
	default:
		t, u, v, w, xOff, yOff = 0, 1, 0, 1, 1, 0
	}

	zOff := q - float64(t) + simplexG3
	aa := r - float64(u) + simplexG3
	ab := sC - float64(v) + simplexG3

	ac := q - float64(w) + 2*simplexG3
	ad := r - float64(xOff) + 2*simplexG3
	ae := sC - float64(yOff) + 2*simplexG3

	af := q - 1 + 0.5
	ag := r - 1 + 0.5
	ah := sC - 1 + 0.5

	ai := i & 0xFF
	aj := j & 0xFF
	ak := k & 0xFF

	al := s.p(ai+s.p(aj+s.p(ak))) % 12
	am := s.p(ai+t+s.p(aj+u+s.p(ak+v))) % 12
	an := s.p(ai+w+s.p(aj+xOff+s.p(ak+yOff))) % 12
	ao := s.p(ai+1+s.p(aj+1+s.p(ak+1))) % 12

	c0 := s.cornerNoise3D(al, q, r, sC, 0.6)
	c1 := s.cornerNoise3D(am, zOff, aa, ab, 0.6)
	c2 := s.cornerNoise3D(an, ac, ad, ae, 0.6)
	c3 := s.cornerNoise3D(ao, af, ag, ah, 0.6)

	return 32 * (c0 + c1 + c2 + c3)
}
