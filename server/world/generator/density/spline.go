package density

// hermiteCoeffs is one pre-baked cubic-Hermite segment in power-basis
// form: value(t) = a + b*t + c*t^2 + d*t^3, t = (x-x0)/(x1-x0).
type hermiteCoeffs struct {
	x0, x1     float64
	a, b, c, d float64
}

func buildHermiteCoeffs(x0, x1, p0, p1, m0, m1 float64) hermiteCoeffs {
	dx := x1 - x0
	sm0 := m0 * dx
	sm1 := m1 * dx
	return hermiteCoeffs{
		x0: x0, x1: x1,
		a: p0,
		b: sm0,
		c: -3*p0 - 2*sm0 + 3*p1 - sm1,
		d: 2*p0 + sm0 - 2*p1 + sm1,
	}
}

func evalHermite(h hermiteCoeffs, x float64) float64 {
	t := (x - h.x0) / (h.x1 - h.x0)
	return h.a + t*(h.b+t*(h.c+t*h.d))
}

// compileSpline builds the Expr for a spline node, choosing a pre-baked
// segment table evaluated by binary search when every control point is a
// constant, or an inline Hermite cascade that evaluates nested control
// points live otherwise.
func compileSpline(sd *SplineDef, inputExpr Expr, compileChild func(*Node) Expr) Expr {
	n := len(sd.Points)
	locations := make([]float64, n)
	leftDer := make([]float64, n)
	rightDer := make([]float64, n)
	constVals := make([]float64, n)
	nestedExprs := make([]Expr, n)
	allConstant := true

	for i, p := range sd.Points {
		locations[i] = p.Location
		leftDer[i] = p.LeftDerivative
		rightDer[i] = p.RightDerivative
		if p.isConstant() {
			constVals[i] = p.Constant
		} else {
			allConstant = false
			nestedExprs[i] = compileChild(p.Nested)
		}
	}

	if n == 0 {
		return func(*EvalContext) float64 { return 0 }
	}

	if allConstant {
		segments := make([]hermiteCoeffs, 0, n-1)
		for i := 0; i < n-1; i++ {
			segments = append(segments, buildHermiteCoeffs(
				locations[i], locations[i+1],
				constVals[i], constVals[i+1],
				rightDer[i], leftDer[i+1],
			))
		}
		return func(ctx *EvalContext) float64 {
			x := inputExpr(ctx)
			return evalBakedSpline(locations, constVals, segments, x)
		}
	}

	valueAt := func(ctx *EvalContext, i int) float64 {
		if nestedExprs[i] != nil {
			return nestedExprs[i](ctx)
		}
		return constVals[i]
	}

	return func(ctx *EvalContext) float64 {
		x := inputExpr(ctx)
		if n == 1 || x <= locations[0] {
			return valueAt(ctx, 0)
		}
		if x >= locations[n-1] {
			return valueAt(ctx, n-1)
		}
		lo, hi := segmentBounds(locations, x)
		p0 := valueAt(ctx, lo)
		p1 := valueAt(ctx, hi)
		h := buildHermiteCoeffs(locations[lo], locations[hi], p0, p1, rightDer[lo], leftDer[hi])
		return evalHermite(h, x)
	}
}

func evalBakedSpline(locations, values []float64, segments []hermiteCoeffs, x float64) float64 {
	n := len(locations)
	if x <= locations[0] {
		return values[0]
	}
	if x >= locations[n-1] {
		return values[n-1]
	}
	lo, _ := segmentBounds(locations, x)
	return evalHermite(segments[lo], x)
}

// segmentBounds binary-searches the sorted locations for the segment
// [lo, hi] (adjacent indices) containing x.
func segmentBounds(locations []float64, x float64) (lo, hi int) {
	lo, hi = 0, len(locations)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if locations[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, hi
}
