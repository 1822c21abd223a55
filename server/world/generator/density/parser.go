package density

import (
	"encoding/json"
	"fmt"
)

// Source is the raw JSON document: a map of named node definitions plus a
// map of root names (final_density, preliminary_surface_level, and so
// on) to either a reference into define or an inline node.
type Source struct {
	Define map[string]json.RawMessage `json:"define"`
	Roots  map[string]json.RawMessage `json:"roots"`
}

type nodeSpec struct {
	Type string `json:"type"`

	Value float64 `json:"value"`

	Op   string            `json:"op"`
	Args []json.RawMessage `json:"args"`

	Input json.RawMessage `json:"input"`

	Noise   string  `json:"noise"`
	XZScale float64 `json:"xz_scale"`
	YScale  float64 `json:"y_scale"`

	ShiftX json.RawMessage `json:"shift_x"`
	ShiftY json.RawMessage `json:"shift_y"`
	ShiftZ json.RawMessage `json:"shift_z"`

	Min             float64         `json:"min"`
	Max             float64         `json:"max"`
	WhenInRange     json.RawMessage `json:"when_in_range"`
	WhenOutOfRange  json.RawMessage `json:"when_out_of_range"`

	FromY     int32   `json:"from_y"`
	ToY       int32   `json:"to_y"`
	FromValue float64 `json:"from_value"`
	ToValue   float64 `json:"to_value"`

	Points []splinePointSpec `json:"points"`

	Mapping string `json:"mapping"`

	MinY int32 `json:"min_y"`
	MaxY int32 `json:"max_y"`
	Step int32 `json:"step"`

	XZFactor            float64 `json:"xz_factor"`
	YFactor             float64 `json:"y_factor"`
	SmearScaleMultiplier float64 `json:"smear_scale_multiplier"`
}

type splinePointSpec struct {
	Location        float64         `json:"location"`
	Value           json.RawMessage `json:"value"`
	LeftDerivative  float64         `json:"left_derivative"`
	RightDerivative float64         `json:"right_derivative"`
}

// Graph is the fully resolved, analyzed density-function DAG for one
// worldgen configuration.
type Graph struct {
	nodes []*Node
	Roots map[string]*Node
}

type builder struct {
	define   map[string]json.RawMessage
	byName   map[string]*Node
	visiting map[string]bool
	order    []*Node
	anonSeq  int
}

// Parse builds a Graph from src, resolving every reference and rejecting
// dangling refs (ErrUnresolvedRef) or back-edges (ErrCycle).
func Parse(src *Source) (*Graph, error) {
	b := &builder{
		define:   src.Define,
		byName:   map[string]*Node{},
		visiting: map[string]bool{},
	}

	roots := map[string]*Node{}
	for name, raw := range src.Roots {
		n, err := b.resolveRef(raw)
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", name, err)
		}
		roots[name] = n
	}

	g := &Graph{nodes: b.order, Roots: roots}
	g.analyze()
	return g, nil
}

func (b *builder) resolveRef(raw json.RawMessage) (*Node, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return b.resolveName(name)
	}
	b.anonSeq++
	return b.build(fmt.Sprintf("$anon%d", b.anonSeq), raw)
}

func (b *builder) resolveName(name string) (*Node, error) {
	if n, ok := b.byName[name]; ok {
		return n, nil
	}
	if b.visiting[name] {
		return nil, fmt.Errorf("%w: %s", ErrCycle, name)
	}
	raw, ok := b.define[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, name)
	}
	return b.build(name, raw)
}

func (b *builder) build(name string, raw json.RawMessage) (*Node, error) {
	b.visiting[name] = true
	defer delete(b.visiting, name)

	var spec nodeSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}

	n := &Node{Name: name}

	var err error
	switch spec.Type {
	case "constant":
		n.Kind = KindConstant
		n.Constant = spec.Value

	case "binary":
		n.Kind = KindBinary
		n.BinOp = parseBinaryOp(spec.Op)
		if len(spec.Args) != 2 {
			return nil, fmt.Errorf("node %q: binary requires exactly 2 args", name)
		}
		if n.Lhs, err = b.resolveRef(spec.Args[0]); err != nil {
			return nil, err
		}
		if n.Rhs, err = b.resolveRef(spec.Args[1]); err != nil {
			return nil, err
		}

	case "unary":
		n.Kind = KindUnary
		n.UnOp = parseUnaryOp(spec.Op)
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	case "noise":
		n.Kind = KindNoise
		n.NoiseKey, n.XZScale, n.YScale = spec.Noise, spec.XZScale, spec.YScale

	case "shifted_noise":
		n.Kind = KindShiftedNoise
		n.NoiseKey, n.XZScale, n.YScale = spec.Noise, spec.XZScale, spec.YScale
		if n.ShiftX, err = b.resolveRef(spec.ShiftX); err != nil {
			return nil, err
		}
		if n.ShiftY, err = b.resolveRef(spec.ShiftY); err != nil {
			return nil, err
		}
		if n.ShiftZ, err = b.resolveRef(spec.ShiftZ); err != nil {
			return nil, err
		}

	case "shift_a":
		n.Kind = KindShiftA
		n.NoiseKey = spec.Noise

	case "shift_b":
		n.Kind = KindShiftB
		n.NoiseKey = spec.Noise

	case "clamp":
		n.Kind = KindClamp
		n.Min, n.Max = spec.Min, spec.Max
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	case "range_choice":
		n.Kind = KindRangeChoice
		n.Min, n.Max = spec.Min, spec.Max
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}
		if n.WhenIn, err = b.resolveRef(spec.WhenInRange); err != nil {
			return nil, err
		}
		if n.WhenOut, err = b.resolveRef(spec.WhenOutOfRange); err != nil {
			return nil, err
		}

	case "y_clamped_gradient":
		n.Kind = KindYClampedGradient
		n.FromY, n.ToY, n.FromValue, n.ToValue = spec.FromY, spec.ToY, spec.FromValue, spec.ToValue

	case "spline":
		n.Kind = KindSpline
		sd := &SplineDef{}
		if sd.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}
		for _, ps := range spec.Points {
			sp := SplinePoint{Location: ps.Location, LeftDerivative: ps.LeftDerivative, RightDerivative: ps.RightDerivative}
			var constVal float64
			if jsonErr := json.Unmarshal(ps.Value, &constVal); jsonErr == nil {
				sp.Constant = constVal
			} else {
				if sp.Nested, err = b.resolveRef(ps.Value); err != nil {
					return nil, err
				}
			}
			sd.Points = append(sd.Points, sp)
		}
		n.Spline = sd

	case "weird_scaled_sampler":
		n.Kind = KindWeirdScaledSampler
		n.NoiseKey, n.MappingKind = spec.Noise, spec.Mapping
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	case "flat_cache":
		n.Kind = KindFlatCache
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}
		n.IsFlatCache = true

	case "cache_2d":
		n.Kind = KindCache2D
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}
		n.IsCache2D = true

	case "cache_once":
		n.Kind = KindCacheOnce
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	case "interpolated":
		n.Kind = KindInterpolated
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	case "blend_density":
		n.Kind = KindBlendDensity
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	case "blend_alpha":
		n.Kind = KindBlendAlpha

	case "blend_offset":
		n.Kind = KindBlendOffset

	case "old_blended_noise":
		n.Kind = KindOldBlendedNoise
		n.NoiseKey, n.XZScale, n.YScale = spec.Noise, spec.XZScale, spec.YScale
		n.OldBlendedXZFactor, n.OldBlendedYFactor = spec.XZFactor, spec.YFactor
		n.OldBlendedSmearScaleMultiplier = spec.SmearScaleMultiplier

	case "end_islands":
		n.Kind = KindEndIslands

	case "find_top_surface":
		n.Kind = KindFindTopSurface
		n.FindTopSurfaceMinY, n.FindTopSurfaceMaxY, n.FindTopSurfaceStep = spec.MinY, spec.MaxY, spec.Step
		if n.Input, err = b.resolveRef(spec.Input); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("node %q: unknown type %q", name, spec.Type)
	}

	b.byName[name] = n
	// Assigned once every child has been appended, so each node's ID is
	// its own index in b.order.
	n.ID = NodeID(len(b.order))
	b.order = append(b.order, n)
	return n, nil
}

func parseBinaryOp(op string) BinaryOp {
	switch op {
	case "mul":
		return Mul
	case "min":
		return Min
	case "max":
		return Max
	default:
		return Add
	}
}

func parseUnaryOp(op string) UnaryOp {
	switch op {
	case "square":
		return Square
	case "cube":
		return Cube
	case "neg":
		return Neg
	case "half_negative":
		return HalfNegative
	case "quarter_negative":
		return QuarterNegative
	case "squeeze":
		return Squeeze
	default:
		return Abs
	}
}

// analyze fills in UsageCount for every node reachable from a root. The
// cache flags were already set while building flat_cache/cache_2d nodes.
func (g *Graph) analyze() {
	var visit func(n *Node)
	seen := map[NodeID]bool{}
	visit = func(n *Node) {
		if n == nil || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		for _, dep := range n.dependencies() {
			dep.UsageCount++
			visit(dep)
		}
	}
	for _, root := range g.Roots {
		visit(root)
	}
}

func (n *Node) dependencies() []*Node {
	var deps []*Node
	add := func(d *Node) {
		if d != nil {
			deps = append(deps, d)
		}
	}
	add(n.Lhs)
	add(n.Rhs)
	add(n.Input)
	add(n.ShiftX)
	add(n.ShiftY)
	add(n.ShiftZ)
	add(n.WhenIn)
	add(n.WhenOut)
	if n.Spline != nil {
		add(n.Spline.Input)
		for _, p := range n.Spline.Points {
			add(p.Nested)
		}
	}
	return deps
}
