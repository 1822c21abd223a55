// Package density compiles a JSON-described density-function graph into
// composed Go closures: one per root, sharing flat-cache (per-chunk,
// Y-independent) and cache_2d (per-column) memoization. The reference
// pipeline this mirrors emits generated source from the same graph at
// build time; Go has no equivalent of that build-time code generation
// step, so this package produces the same "flat, memoized straight-line
// evaluation" shape at runtime instead, building the closures once per
// world and reusing them across every chunk.
package density

// NodeID identifies one node in the compiled graph. Ids are assigned in
// build order and are stable for the lifetime of a Graph.
type NodeID int32

// Kind tags which variant a Node is.
type Kind int

const (
	KindConstant Kind = iota
	KindBinary
	KindUnary
	KindNoise
	KindShiftedNoise
	KindShiftA
	KindShiftB
	KindClamp
	KindRangeChoice
	KindYClampedGradient
	KindSpline
	KindWeirdScaledSampler
	KindFlatCache
	KindCache2D
	KindCacheOnce
	KindInterpolated
	KindBlendDensity
	KindBlendAlpha
	KindBlendOffset
	KindOldBlendedNoise
	KindEndIslands
	KindFindTopSurface
)

// BinaryOp selects a binary node's operation.
type BinaryOp int

const (
	Add BinaryOp = iota
	Mul
	Min
	Max
)

// UnaryOp selects a unary node's operation.
type UnaryOp int

const (
	Abs UnaryOp = iota
	Square
	Cube
	Neg
	HalfNegative
	QuarterNegative
	Squeeze
)

// Node is the tagged-variant record for one density-function node. Only
// the fields relevant to Kind are populated; the rest are zero.
type Node struct {
	ID   NodeID
	Name string
	Kind Kind

	Constant float64

	BinOp BinaryOp
	Lhs   *Node
	Rhs   *Node

	UnOp  UnaryOp
	Input *Node

	NoiseKey     string
	XZScale      float64
	YScale       float64
	ShiftX       *Node
	ShiftY       *Node
	ShiftZ       *Node

	Min, Max float64
	WhenIn   *Node
	WhenOut  *Node

	FromY, ToY       int32
	FromValue, ToValue float64

	Spline *SplineDef

	MappingKind string

	FindTopSurfaceMinY, FindTopSurfaceMaxY, FindTopSurfaceStep int32

	OldBlendedXZFactor           float64
	OldBlendedYFactor            float64
	OldBlendedSmearScaleMultiplier float64

	// The cache flags are set as the graph builder builds flat_cache and
	// cache_2d nodes; UsageCount is filled in by analyze after every root
	// has been resolved.
	UsageCount  int
	IsFlatCache bool
	IsCache2D   bool
}

// SplineDef is a spline node's control-point table.
type SplineDef struct {
	Input  *Node
	Points []SplinePoint
}

// SplinePoint is one control point. Value is either a constant (Nested
// nil) or another density function (Nested non-nil), mirroring vanilla's
// recursive CubicSpline definition.
type SplinePoint struct {
	Location                  float64
	Constant                  float64
	Nested                    *Node
	LeftDerivative            float64
	RightDerivative           float64
}

func (p SplinePoint) isConstant() bool { return p.Nested == nil }
