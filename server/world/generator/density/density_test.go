package density

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/unastar-mc/unastar/server/world/generator/noise"
	"github.com/unastar-mc/unastar/server/world/generator/rand"
)

func mustParse(t *testing.T, doc string) *Graph {
	t.Helper()
	var src Source
	if err := json.Unmarshal([]byte(doc), &src); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	g, err := Parse(&src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return g
}

func TestParseConstantAndBinary(t *testing.T) {
	g := mustParse(t, `{
		"define": {
			"a": {"type": "constant", "value": 2},
			"b": {"type": "constant", "value": 3}
		},
		"roots": {
			"sum": {"type": "binary", "op": "add", "args": ["a", "b"]}
		}
	}`)

	c, err := Compile(g, nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	v, ok := c.NewStandaloneColumn(0, 0).Sample("sum", 0)
	if !ok || v != 5 {
		t.Fatalf("expected 5, got (%v, %v)", v, ok)
	}
}

func TestParseUnresolvedRef(t *testing.T) {
	var src Source
	json.Unmarshal([]byte(`{"define": {}, "roots": {"x": "missing"}}`), &src)
	_, err := Parse(&src)
	if !errors.Is(err, ErrUnresolvedRef) {
		t.Fatalf("expected ErrUnresolvedRef, got %v", err)
	}
}

func TestParseCycle(t *testing.T) {
	var src Source
	json.Unmarshal([]byte(`{
		"define": {
			"a": {"type": "binary", "op": "add", "args": ["b", {"type":"constant","value":1}]},
			"b": {"type": "binary", "op": "add", "args": ["a", {"type":"constant","value":1}]}
		},
		"roots": {"x": "a"}
	}`), &src)
	_, err := Parse(&src)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestUsageCountAndCacheFlags(t *testing.T) {
	g := mustParse(t, `{
		"define": {
			"shared": {"type": "flat_cache", "input": {"type": "constant", "value": 7}}
		},
		"roots": {
			"x": {"type": "binary", "op": "add", "args": ["shared", "shared"]}
		}
	}`)
	shared := g.byNameForTest("shared")
	if !shared.IsFlatCache {
		t.Fatal("expected shared node to be flagged flat-cache")
	}
	if shared.UsageCount != 2 {
		t.Fatalf("expected usage count 2, got %d", shared.UsageCount)
	}
}

func (g *Graph) byNameForTest(name string) *Node {
	for _, n := range g.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func TestFlatCacheFillsAndIsDeterministic(t *testing.T) {
	g := mustParse(t, `{
		"define": {
			"base": {"type": "noise", "noise": "test", "xz_scale": 1, "y_scale": 1}
		},
		"roots": {
			"cached": {"type": "flat_cache", "input": "base"}
		}
	}`)
	n := noise.NewDoublePerlin(rand.NewSource(1), []float64{1, 1}, -4)
	c, err := Compile(g, map[string]*noise.DoublePerlin{"test": n}, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	cc := c.NewChunkContext(0, 0)
	a, _ := cc.Column(5, 5).Sample("cached", 0)
	b, _ := cc.Column(5, 5).Sample("cached", 100)
	if a != b {
		t.Fatalf("expected flat-cache value to be Y-independent, got %v vs %v", a, b)
	}
}

func TestCache2DMemoizesPerColumn(t *testing.T) {
	g := mustParse(t, `{
		"define": {
			"expensive": {"type": "constant", "value": 9}
		},
		"roots": {
			"cached": {"type": "cache_2d", "input": "expensive"}
		}
	}`)
	c, err := Compile(g, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cur := c.NewStandaloneColumn(0, 0)
	a, _ := cur.Sample("cached", 10)
	b, _ := cur.Sample("cached", 200)
	if a != 9 || b != 9 {
		t.Fatalf("expected constant 9 from cache_2d, got %v, %v", a, b)
	}
	// The column context holds the memoized value under the cache_2d node's ID.
	if v, ok := cur.col.values[g.Roots["cached"].ID]; !ok || v != 9 {
		t.Fatalf("expected cache_2d value memoized in the column context, got (%v, %v)", v, ok)
	}
}

func TestClampAndRangeChoice(t *testing.T) {
	g := mustParse(t, `{
		"define": {
			"v": {"type": "constant", "value": 50},
			"clamped": {"type": "clamp", "input": "v", "min": 0, "max": 10},
			"choice": {
				"type": "range_choice", "input": "v", "min": 0, "max": 10,
				"when_in_range": {"type": "constant", "value": 1},
				"when_out_of_range": {"type": "constant", "value": 2}
			}
		},
		"roots": {"clamped": "clamped", "choice": "choice"}
	}`)
	c, _ := Compile(g, nil, nil)
	cur := c.NewStandaloneColumn(0, 0)
	v, _ := cur.Sample("clamped", 0)
	if v != 10 {
		t.Fatalf("expected clamp to 10, got %v", v)
	}
	ch, _ := cur.Sample("choice", 0)
	if ch != 2 {
		t.Fatalf("expected out-of-range branch, got %v", ch)
	}
}

func TestYClampedGradient(t *testing.T) {
	g := mustParse(t, `{
		"roots": {
			"g": {"type": "y_clamped_gradient", "from_y": 0, "to_y": 10, "from_value": 0, "to_value": 100}
		}
	}`)
	c, _ := Compile(g, nil, nil)
	cur := c.NewStandaloneColumn(0, 0)
	low, _ := cur.Sample("g", -5)
	mid, _ := cur.Sample("g", 5)
	high, _ := cur.Sample("g", 50)
	if low != 0 || high != 100 {
		t.Fatalf("expected clamped endpoints, got low=%v high=%v", low, high)
	}
	if mid != 50 {
		t.Fatalf("expected midpoint interpolation, got %v", mid)
	}
}

func TestSplineConstantPoints(t *testing.T) {
	g := mustParse(t, `{
		"roots": {
			"s": {
				"type": "spline",
				"input": {"type": "constant", "value": 5},
				"points": [
					{"location": 0, "value": 0, "left_derivative": 0, "right_derivative": 0},
					{"location": 10, "value": 100, "left_derivative": 0, "right_derivative": 0}
				]
			}
		}
	}`)
	c, _ := Compile(g, nil, nil)
	cur := c.NewStandaloneColumn(0, 0)
	v, ok := cur.Sample("s", 0)
	if !ok {
		t.Fatal("expected sample ok")
	}
	if v < 0 || v > 100 {
		t.Fatalf("expected interpolated value in range, got %v", v)
	}
}

func TestSplineNestedPoints(t *testing.T) {
	g := mustParse(t, `{
		"define": {
			"innerA": {"type": "constant", "value": 1},
			"innerB": {"type": "constant", "value": 2}
		},
		"roots": {
			"s": {
				"type": "spline",
				"input": {"type": "constant", "value": 3},
				"points": [
					{"location": 0, "value": {"type": "constant", "value": 10}, "left_derivative": 0, "right_derivative": 0},
					{"location": 10, "value": "innerB", "left_derivative": 0, "right_derivative": 0}
				]
			}
		}
	}`)
	c, err := Compile(g, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cur := c.NewStandaloneColumn(0, 0)
	v, ok := cur.Sample("s", 0)
	if !ok {
		t.Fatal("expected sample ok")
	}
	if v < 0 {
		t.Fatalf("expected blended nested value, got %v", v)
	}
}

func TestFindTopSurface(t *testing.T) {
	// density = 50 - y, so surface should land near y=50.
	g := mustParse(t, `{
		"define": {
			"d": {
				"type": "binary", "op": "add",
				"args": [
					{"type": "constant", "value": 50},
					{"type": "unary", "op": "neg", "input": {"type": "y_clamped_gradient", "from_y": -100, "to_y": 100, "from_value": -100, "to_value": 100}}
				]
			}
		},
		"roots": {
			"surface": {"type": "find_top_surface", "input": "d", "min_y": -64, "max_y": 200, "step": 1}
		}
	}`)
	c, err := Compile(g, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cur := c.NewStandaloneColumn(0, 0)
	y, ok := cur.FindTopSurface("surface")
	if !ok {
		t.Fatal("expected find_top_surface root")
	}
	if y < 45 || y > 55 {
		t.Fatalf("expected surface near y=50, got %v", y)
	}
}

func TestEndIslandsUsesSimplex(t *testing.T) {
	s := noise.NewSimplex(rand.NewSource(3))
	g := mustParse(t, `{"roots": {"e": {"type": "end_islands"}}}`)
	c, err := Compile(g, nil, s)
	if err != nil {
		t.Fatal(err)
	}
	cur := c.NewStandaloneColumn(0, 0)
	near, _ := cur.Sample("e", 0)
	cur2 := c.NewStandaloneColumn(1000, 1000)
	far, _ := cur2.Sample("e", 0)
	if near <= far {
		t.Fatalf("expected density to fall off with distance, near=%v far=%v", near, far)
	}
}

func TestSample4SharesColumn(t *testing.T) {
	g := mustParse(t, `{"roots": {"k": {"type": "constant", "value": 4}}}`)
	c, _ := Compile(g, nil, nil)
	out, ok := c.NewStandaloneColumn(0, 0).Sample4("k", 0)
	if !ok {
		t.Fatal("expected ok")
	}
	for _, v := range out {
		if v != 4 {
			t.Fatalf("expected constant 4 across all four lanes, got %v", out)
		}
	}
}
