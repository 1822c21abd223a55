package surface

import (
	"testing"

	"github.com/unastar-mc/unastar/server/world/generator/biome"
	"github.com/unastar-mc/unastar/server/world/generator/noise"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

func baseCtx() Context {
	return Context{MinY: -64, MaxY: 320, Biome: biome.Plains}
}

func TestBlockRuleAlwaysMatches(t *testing.T) {
	r := NewBlockRule(5)
	b, ok := r.Apply(&Context{})
	if !ok || b != 5 {
		t.Fatalf("got (%d, %v)", b, ok)
	}
}

func TestSequenceRuleFirstMatchWins(t *testing.T) {
	r := NewSequenceRule(
		NewTestRule(SingleBiome(biome.Desert), NewBlockRule(1)),
		NewBlockRule(2),
	)
	ctx := baseCtx()
	ctx.Biome = biome.Forest
	b, ok := r.Apply(&ctx)
	if !ok || b != 2 {
		t.Fatalf("expected fallback block 2, got (%d, %v)", b, ok)
	}

	ctx.Biome = biome.Desert
	b, ok = r.Apply(&ctx)
	if !ok || b != 1 {
		t.Fatalf("expected desert block 1, got (%d, %v)", b, ok)
	}
}

func TestStoneDepthCheckFloor(t *testing.T) {
	c := StoneDepthCheck{Offset: 2, SurfaceType: Floor}
	ctx := baseCtx()
	ctx.StoneDepth = 1
	if !c.Test(&ctx) {
		t.Fatal("expected depth 1 within offset 2")
	}
	ctx.StoneDepth = 5
	if c.Test(&ctx) {
		t.Fatal("expected depth 5 outside offset 2")
	}
}

func TestStoneDepthCheckAddSurfaceDepth(t *testing.T) {
	c := StoneDepthCheck{Offset: 0, AddSurfaceDepth: true, SurfaceType: Floor}
	ctx := baseCtx()
	ctx.SurfaceDepth = 3
	ctx.StoneDepth = 3
	if !c.Test(&ctx) {
		t.Fatal("expected stone depth within surface-depth-padded offset")
	}
}

func TestYCheckAnchors(t *testing.T) {
	c := YCheck{Anchor: AboveBottomAnchor(10)}
	ctx := baseCtx()
	ctx.Y = ctx.MinY + 10
	if !c.Test(&ctx) {
		t.Fatal("expected y at anchor to pass")
	}
	ctx.Y = ctx.MinY + 9
	if c.Test(&ctx) {
		t.Fatal("expected y below anchor to fail")
	}
}

func TestWaterCheck(t *testing.T) {
	c := WaterCheck{Offset: -1}
	ctx := baseCtx()
	ctx.WaterHeight = 62
	ctx.Y = 61
	if !c.Test(&ctx) {
		t.Fatal("expected y one below water height with offset -1 to pass")
	}
	ctx.Y = 59
	if c.Test(&ctx) {
		t.Fatal("expected y well below water height to fail")
	}
}

func TestNoiseThresholdDeterministic(t *testing.T) {
	n := noise.NewDoublePerlin(rand.NewSource(1), []float64{1, 1}, -4)
	c := NoiseThreshold{Noise: n, MinThreshold: -2, MaxThreshold: 2}
	ctx := baseCtx()
	ctx.X, ctx.Y, ctx.Z = 10, 0, 10
	if !c.Test(&ctx) {
		t.Fatal("expected sample within wide threshold band")
	}
}

func TestVerticalGradientBounds(t *testing.T) {
	n := noise.NewDoublePerlin(rand.NewSource(2), []float64{1, 1}, -4)
	g := NewVerticalGradient(10, 20, n)
	ctx := baseCtx()
	ctx.Y = 5
	if !g.Test(&ctx) {
		t.Fatal("expected always-true below TrueAtAndBelow")
	}
	ctx.Y = 25
	if g.Test(&ctx) {
		t.Fatal("expected always-false above FalseAtAndAbove")
	}
}

func TestSteepAndHole(t *testing.T) {
	ctx := baseCtx()
	ctx.Slope = 5
	if !(Steep{}).Test(&ctx) {
		t.Fatal("expected steep slope to pass")
	}
	ctx.Slope = 1
	if (Steep{}).Test(&ctx) {
		t.Fatal("expected shallow slope to fail")
	}

	ctx.WaterHeight = ctx.MinY
	if !(Hole{}).Test(&ctx) {
		t.Fatal("expected dry column to be a hole")
	}
	ctx.WaterHeight = 60
	if (Hole{}).Test(&ctx) {
		t.Fatal("expected wet column to not be a hole")
	}
}

func TestAbovePreliminarySurface(t *testing.T) {
	ctx := baseCtx()
	ctx.PreliminarySurfaceHeight = 64
	ctx.Y = 70
	if !(AbovePreliminarySurface{}).Test(&ctx) {
		t.Fatal("expected y above preliminary surface to pass")
	}
	ctx.Y = 50
	if (AbovePreliminarySurface{}).Test(&ctx) {
		t.Fatal("expected y below preliminary surface to fail")
	}
}

func TestNot(t *testing.T) {
	ctx := baseCtx()
	c := Not{Inner: SingleBiome(biome.Desert)}
	ctx.Biome = biome.Plains
	if !c.Test(&ctx) {
		t.Fatal("expected Not(desert) to pass for plains")
	}
	ctx.Biome = biome.Desert
	if c.Test(&ctx) {
		t.Fatal("expected Not(desert) to fail for desert")
	}
}

func TestBandlandsRuleCyclesPalette(t *testing.T) {
	r := NewBandlandsRule(42, []uint32{10, 11, 12})
	seen := map[uint32]bool{}
	ctx := baseCtx()
	for y := int32(0); y < 50; y++ {
		ctx.Y = y
		b, ok := r.Apply(&ctx)
		if !ok {
			t.Fatal("expected bandlands rule to always match")
		}
		seen[b] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected bandlands palette to vary across y")
	}
}

func TestColumnWalkerTracksStoneDepth(t *testing.T) {
	rule := NewTestRule(StoneDepthCheck{Offset: 1, SurfaceType: Floor}, NewBlockRule(99))
	w := NewColumnWalker(rule, baseCtx())

	if _, ok := w.Step(64, true); !ok {
		t.Fatal("expected depth 1 to match offset 1")
	}
	if _, ok := w.Step(63, true); ok {
		t.Fatal("expected depth 2 to exceed offset 1")
	}
}

func TestColumnWalkerResetsOnNonStone(t *testing.T) {
	rule := NewTestRule(StoneDepthCheck{Offset: 0, SurfaceType: Floor}, NewBlockRule(7))
	w := NewColumnWalker(rule, baseCtx())

	w.Step(70, false)
	if _, ok := w.Step(69, true); !ok {
		t.Fatal("expected first stone block after non-stone to have depth 1")
	}
	if _, ok := w.Step(68, true); ok {
		t.Fatal("expected second consecutive stone block to exceed offset 0")
	}
	w.Step(67, false)
	if _, ok := w.Step(66, true); !ok {
		t.Fatal("expected depth to reset after a non-stone block")
	}
}

func TestBuildVanillaSurfaceRuleDeterministic(t *testing.T) {
	a := BuildVanillaSurfaceRule(100)
	b := BuildVanillaSurfaceRule(100)

	ctx1 := baseCtx()
	ctx1.Biome = biome.Desert
	ctx1.StoneDepth = 0
	ctx2 := ctx1

	r1, ok1 := a.Apply(&ctx1)
	r2, ok2 := b.Apply(&ctx2)
	if ok1 != ok2 || r1 != r2 {
		t.Fatalf("expected deterministic rule tree, got (%d,%v) vs (%d,%v)", r1, ok1, r2, ok2)
	}
}
