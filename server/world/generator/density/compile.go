package density

import (
	"fmt"
	"math"

	"github.com/unastar-mc/unastar/server/world/generator/noise"
)

// Expr is one compiled node: a closure over its already-compiled
// dependencies, evaluated against an EvalContext. This is this package's
// substitute for a reference pipeline's generated straight-line functions:
// Go has no runtime code generation, so composition happens once (in
// Compile) and the resulting closure tree is what actually runs per
// block.
type Expr func(ctx *EvalContext) float64

// Compiled holds every compiled root and the bookkeeping needed to fill a
// FlatCacheGrid before sampling a chunk.
type Compiled struct {
	roots           map[string]Expr
	flatCacheOrder  []NodeID
	flatCacheInner  map[NodeID]Expr
	findTopSurface  map[string]findTopSurfaceSpec
	noises          map[string]*noise.DoublePerlin
	endIslandsNoise *noise.Simplex
}

type findTopSurfaceSpec struct {
	inner          Expr
	minY, maxY, step int32
}

// Compile builds closures for every root in g. noises supplies the named
// DoublePerlin networks referenced by "noise" nodes; endIslandsNoise
// backs "end_islands" nodes and may be nil if the configuration has none.
func Compile(g *Graph, noises map[string]*noise.DoublePerlin, endIslandsNoise *noise.Simplex) (*Compiled, error) {
	c := &Compiled{
		roots:          map[string]Expr{},
		flatCacheInner: map[NodeID]Expr{},
		findTopSurface: map[string]findTopSurfaceSpec{},
		noises:         noises,
		endIslandsNoise: endIslandsNoise,
	}
	memo := map[NodeID]Expr{}

	var compile func(n *Node) Expr
	compile = func(n *Node) Expr {
		if n == nil {
			return func(*EvalContext) float64 { return 0 }
		}
		if e, ok := memo[n.ID]; ok {
			return e
		}
		e := c.compileNode(n, compile)
		memo[n.ID] = e
		return e
	}

	for name, root := range g.Roots {
		if root.Kind == KindFindTopSurface {
			inner := compile(root.Input)
			c.findTopSurface[name] = findTopSurfaceSpec{
				inner: inner,
				minY:  root.FindTopSurfaceMinY,
				maxY:  root.FindTopSurfaceMaxY,
				step:  root.FindTopSurfaceStep,
			}
		}
		c.roots[name] = compile(root)
	}
	return c, nil
}

func (c *Compiled) compileNode(n *Node, compile func(*Node) Expr) Expr {
	switch n.Kind {
	case KindConstant:
		v := n.Constant
		return func(*EvalContext) float64 { return v }

	case KindBinary:
		lhs, rhs := compile(n.Lhs), compile(n.Rhs)
		switch n.BinOp {
		case Mul:
			return func(ctx *EvalContext) float64 { return lhs(ctx) * rhs(ctx) }
		case Min:
			return func(ctx *EvalContext) float64 { return math.Min(lhs(ctx), rhs(ctx)) }
		case Max:
			return func(ctx *EvalContext) float64 { return math.Max(lhs(ctx), rhs(ctx)) }
		default:
			return func(ctx *EvalContext) float64 { return lhs(ctx) + rhs(ctx) }
		}

	case KindUnary:
		in := compile(n.Input)
		switch n.UnOp {
		case Square:
			return func(ctx *EvalContext) float64 { v := in(ctx); return v * v }
		case Cube:
			return func(ctx *EvalContext) float64 { v := in(ctx); return v * v * v }
		case Neg:
			return func(ctx *EvalContext) float64 { return -in(ctx) }
		case HalfNegative:
			return func(ctx *EvalContext) float64 { v := in(ctx); if v < 0 { return v * 0.5 }; return v }
		case QuarterNegative:
			return func(ctx *EvalContext) float64 { v := in(ctx); if v < 0 { return v * 0.25 }; return v }
		case Squeeze:
			return func(ctx *EvalContext) float64 {
				v := in(ctx)
				clamped := math.Max(-1, math.Min(1, v))
				return clamped/2 - clamped*clamped*clamped/24
			}
		default:
			return func(ctx *EvalContext) float64 { return math.Abs(in(ctx)) }
		}

	case KindNoise:
		src := c.noises[n.NoiseKey]
		xz, y := n.XZScale, n.YScale
		return func(ctx *EvalContext) float64 {
			if src == nil {
				return 0
			}
			return src.Sample(ctx.X*xz, ctx.Y*y, ctx.Z*xz)
		}

	case KindShiftedNoise:
		src := c.noises[n.NoiseKey]
		xz, y := n.XZScale, n.YScale
		sx, sy, sz := compile(n.ShiftX), compile(n.ShiftY), compile(n.ShiftZ)
		return func(ctx *EvalContext) float64 {
			if src == nil {
				return 0
			}
			return src.Sample((ctx.X+sx(ctx))*xz, (ctx.Y+sy(ctx))*y, (ctx.Z+sz(ctx))*xz)
		}

	case KindShiftA:
		src := c.noises[n.NoiseKey]
		return func(ctx *EvalContext) float64 {
			if src == nil {
				return 0
			}
			return src.Sample(ctx.X*0.25, 0, ctx.Z*0.25)
		}

	case KindShiftB:
		src := c.noises[n.NoiseKey]
		return func(ctx *EvalContext) float64 {
			if src == nil {
				return 0
			}
			return src.Sample(ctx.Z*0.25, 0, ctx.X*0.25)
		}

	case KindClamp:
		in := compile(n.Input)
		lo, hi := n.Min, n.Max
		return func(ctx *EvalContext) float64 { return math.Max(lo, math.Min(hi, in(ctx))) }

	case KindRangeChoice:
		in, whenIn, whenOut := compile(n.Input), compile(n.WhenIn), compile(n.WhenOut)
		lo, hi := n.Min, n.Max
		return func(ctx *EvalContext) float64 {
			v := in(ctx)
			if v >= lo && v < hi {
				return whenIn(ctx)
			}
			return whenOut(ctx)
		}

	case KindYClampedGradient:
		fromY, toY, fromVal, toVal := float64(n.FromY), float64(n.ToY), n.FromValue, n.ToValue
		return func(ctx *EvalContext) float64 {
			if ctx.Y <= fromY {
				return fromVal
			}
			if ctx.Y >= toY {
				return toVal
			}
			frac := (ctx.Y - fromY) / (toY - fromY)
			return fromVal + frac*(toVal-fromVal)
		}

	case KindSpline:
		inputExpr := compile(n.Spline.Input)
		return compileSpline(n.Spline, inputExpr, compile)

	case KindWeirdScaledSampler:
		src := c.noises[n.NoiseKey]
		in := compile(n.Input)
		mapping := n.MappingKind
		return func(ctx *EvalContext) float64 {
			if src == nil {
				return 0
			}
			rarity := rarityValueMapper(mapping, in(ctx))
			return math.Abs(src.Sample(ctx.X/rarity, ctx.Y/rarity, ctx.Z/rarity)) * rarity
		}

	case KindFlatCache:
		inner := compile(n.Input)
		c.flatCacheInner[n.ID] = inner
		c.flatCacheOrder = append(c.flatCacheOrder, n.ID)
		id := n.ID
		return func(ctx *EvalContext) float64 {
			if ctx.Flat != nil {
				return ctx.Flat.Lookup(id, ctx.X, ctx.Z)
			}
			return inner(ctx)
		}

	case KindCache2D:
		inner := compile(n.Input)
		id := n.ID
		return func(ctx *EvalContext) float64 {
			if ctx.Column != nil {
				return ctx.Column.Get(id, func() float64 { return inner(ctx) })
			}
			return inner(ctx)
		}

	case KindCacheOnce:
		inner := compile(n.Input)
		id := n.ID
		return func(ctx *EvalContext) float64 {
			return ctx.once(id, func() float64 { return inner(ctx) })
		}

	case KindInterpolated:
		// A full implementation would evaluate this on a coarser cell
		// grid (4-block horizontal, 8-block vertical) and lerp between
		// cell corners. Cell-grid interpolation is not implemented; this
		// passes the inner value through unchanged, which is exact at
		// cell corners and only loses the lerp smoothing in between.
		return compile(n.Input)

	case KindBlendDensity:
		// No legacy (pre-1.18) chunk blending is implemented, so alpha is
		// always 1 and offset is always 0: blend_density is a no-op.
		return compile(n.Input)

	case KindBlendAlpha:
		return func(*EvalContext) float64 { return 1 }

	case KindBlendOffset:
		return func(*EvalContext) float64 { return 0 }

	case KindOldBlendedNoise:
		src := c.noises[n.NoiseKey]
		xzScale := n.XZScale * n.OldBlendedXZFactor
		yScale := n.YScale * n.OldBlendedYFactor
		smear := n.OldBlendedSmearScaleMultiplier
		return func(ctx *EvalContext) float64 {
			if src == nil {
				return 0
			}
			return src.Sample(ctx.X*xzScale, ctx.Y*yScale, ctx.Z*xzScale) * smear
		}

	case KindEndIslands:
		simplex := c.endIslandsNoise
		return func(ctx *EvalContext) float64 {
			if simplex == nil {
				return -1
			}
			distance := math.Hypot(ctx.X, ctx.Z)
			falloff := 100 - distance*8
			detail := simplex.Value2D(ctx.X*0.1, ctx.Z*0.1) * 40
			return math.Min(falloff, detail) / 128
		}

	case KindFindTopSurface:
		inner := compile(n.Input)
		minY, maxY, step := n.FindTopSurfaceMinY, n.FindTopSurfaceMaxY, n.FindTopSurfaceStep
		return func(ctx *EvalContext) float64 {
			return findTopSurfaceY(inner, ctx, minY, maxY, step)
		}

	default:
		return func(*EvalContext) float64 { return 0 }
	}
}

// rarityValueMapper reproduces the shape (not the exact tables) of
// vanilla's two weird_scaled_sampler rarity curves: type1 (caves) rises
// slowly below zero and steeply above it (0.5 at -1, 1 at 0, 3 at 1),
// type2 (tunnels) is linear from 0.5 at -1 to 1 at 1.
// The precise piecewise tables live in WeirdScaledSampler.RarityValueMapper
// and were not available in the reference pack; this keeps the monotonic,
// clamped shape the compiler contract needs.
func rarityValueMapper(mapping string, v float64) float64 {
	v = math.Max(-1, math.Min(1, v))
	if mapping == "type2" {
		return 0.75 + 0.25*v
	}
	if v < 0 {
		return 1 + v*0.5
	}
	return 1 + v*2
}

func findTopSurfaceY(inner Expr, ctx *EvalContext, minY, maxY, step int32) float64 {
	if step <= 0 {
		step = 1
	}
	probe := func(y int32) float64 {
		c := *ctx
		c.Y = float64(y)
		c.onceCache = nil
		return inner(&c)
	}

	prevY := maxY
	prevDensity := probe(prevY)
	for y := maxY - step; y >= minY; y -= step {
		d := probe(y)
		if d > 0 && prevDensity <= 0 {
			lo, hi := y, prevY
			for hi-lo > 1 {
				mid := (lo + hi) / 2
				if probe(mid) > 0 {
					lo = mid
				} else {
					hi = mid
				}
			}
			return float64(lo)
		}
		prevY = y
		prevDensity = d
	}
	return float64(minY)
}

// Root looks up a compiled root by name.
func (c *Compiled) Root(name string) (Expr, bool) {
	e, ok := c.roots[name]
	return e, ok
}

// MustRoot panics if name is not a compiled root; useful at generator
// construction time where a missing root is a configuration bug.
func (c *Compiled) MustRoot(name string) Expr {
	e, ok := c.roots[name]
	if !ok {
		panic(fmt.Sprintf("density: no root named %q", name))
	}
	return e
}
