package chunk

// paletteSize is the number of bits used per index into a palette. Valid
// values are 0 (singleton palette, no index array) and the widths in
// {1,2,3,4,5,6,8,16} that the wire format supports; 0 is also used as the
// sentinel "no multi-value palette" when reading a storage layer.
type paletteSize byte

// validSizes lists, in ascending order, the bit widths the wire format is
// willing to emit. fittingSize picks the smallest one that can index a
// palette of the given length.
var validSizes = [...]paletteSize{1, 2, 3, 4, 5, 6, 8, 16}

// fittingSize returns the smallest paletteSize able to represent paletteLen
// distinct values. A palette of zero or one entries needs no index array.
func fittingSize(paletteLen int) paletteSize {
	if paletteLen <= 1 {
		return 0
	}
	for _, s := range validSizes {
		if paletteLen <= 1<<uint(s) {
			return s
		}
	}
	return 16
}

// valid reports whether p is 0 (singleton, no index array) or one of the
// widths in validSizes. uint32s divides 32 by p, so callers must check
// valid before calling it: a width above 32 leaves indicesPerWord at 0 and
// divides by it.
func (p paletteSize) valid() bool {
	if p == 0 {
		return true
	}
	for _, s := range validSizes {
		if p == s {
			return true
		}
	}
	return false
}

// uint32s returns the number of little-endian 32-bit words the wire format
// packs the 4096 indices of a subchunk layer into, for this bit width.
// p must satisfy valid(); callers decoding untrusted bytes must check that
// before calling this.
func (p paletteSize) uint32s() int {
	if p == 0 {
		return 0
	}
	indicesPerWord := 32 / int(p)
	return (4096 + indicesPerWord - 1) / indicesPerWord
}

// palette is the ordered set of runtime block (or biome) ids a
// PalettedStorage indexes into. A palette of length 1 is a singleton and is
// stored on the wire without an index array.
type palette struct {
	values []uint32
}

// newPalette creates a palette from an initial runtime id.
func newPalette(first uint32) *palette {
	return &palette{values: []uint32{first}}
}

// Len returns the number of distinct values in the palette.
func (p *palette) Len() int {
	return len(p.values)
}

// Value returns the runtime id stored at palette index i.
func (p *palette) Value(i uint16) uint32 {
	return p.values[i]
}

// Add appends val to the palette, growing it by one entry, and returns the
// index the value was added at. The caller must already have verified val
// is not present via Index.
func (p *palette) Add(val uint32) uint16 {
	p.values = append(p.values, val)
	return uint16(len(p.values) - 1)
}

// Index returns the palette index of val and true if the palette already
// holds it. Palettes stay small in practice (a handful of block states per
// subchunk layer), so linear search beats the overhead of a map.
func (p *palette) Index(val uint32) (uint16, bool) {
	for i, v := range p.values {
		if v == val {
			return uint16(i), true
		}
	}
	return 0, false
}

// Size reports the paletteSize (bits per index) this palette currently
// needs on the wire.
func (p *palette) Size() paletteSize {
	return fittingSize(len(p.values))
}
