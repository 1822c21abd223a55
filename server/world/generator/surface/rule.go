package surface

// Rule decides a block for ctx's position, or reports no opinion so the
// caller falls through to the next rule (or the pre-existing block).
type Rule interface {
	Apply(ctx *Context) (block uint32, ok bool)
}

// BlockRule always yields Block.
type BlockRule struct {
	Block uint32
}

func NewBlockRule(block uint32) BlockRule { return BlockRule{Block: block} }

func (r BlockRule) Apply(*Context) (uint32, bool) { return r.Block, true }

// SequenceRule tries each child in order and yields the first match.
type SequenceRule struct {
	Rules []Rule
}

func NewSequenceRule(rules ...Rule) SequenceRule { return SequenceRule{Rules: rules} }

func (r SequenceRule) Apply(ctx *Context) (uint32, bool) {
	for _, child := range r.Rules {
		if b, ok := child.Apply(ctx); ok {
			return b, true
		}
	}
	return 0, false
}

// TestRule guards a child rule behind a condition.
type TestRule struct {
	Condition Condition
	Then      Rule
}

func NewTestRule(cond Condition, then Rule) TestRule { return TestRule{Condition: cond, Then: then} }

func (r TestRule) Apply(ctx *Context) (uint32, bool) {
	if !r.Condition.Test(ctx) {
		return 0, false
	}
	return r.Then.Apply(ctx)
}

// BandlandsRule paints the striped terracotta palette badlands use,
// choosing a color band from a seeded position hash rather than a single
// fixed block so a badlands cliff face shows horizontal striping.
type BandlandsRule struct {
	Seed    int64
	Palette []uint32
}

func NewBandlandsRule(seed int64, palette []uint32) BandlandsRule {
	return BandlandsRule{Seed: seed, Palette: palette}
}

func (r BandlandsRule) Apply(ctx *Context) (uint32, bool) {
	if len(r.Palette) == 0 {
		return 0, false
	}
	h := uint64(r.Seed) + uint64(ctx.Y)*0x9E3779B97F4A7C15
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	idx := int(h % uint64(len(r.Palette)))
	return r.Palette[idx], true
}
