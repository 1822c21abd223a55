package biome

// ID names the seventeen terrain biomes terrain synthesis and the surface
// rule evaluator distinguish.
type ID int

const (
	Ocean ID = iota
	Plains
	Desert
	WindsweptHills
	Forest
	Taiga
	Swamp
	River
	Beach
	BirchForest
	DarkForest
	SnowyTaiga
	Savanna
	Jungle
	Meadow
	FlowerForest
	SnowyMountains
)

// BedrockID maps a terrain ID to the Bedrock protocol's biome registry id,
// used for the chunk's per-section biome palette and the legacy
// whole-chunk biome byte.
func (b ID) BedrockID() uint32 {
	switch b {
	case Ocean:
		return 0
	case Plains:
		return 1
	case Desert:
		return 2
	case WindsweptHills:
		return 3
	case Forest:
		return 4
	case Taiga:
		return 5
	case Swamp:
		return 6
	case River:
		return 7
	case Beach:
		return 16
	case BirchForest:
		return 27
	case DarkForest:
		return 29
	case SnowyTaiga:
		return 30
	case Savanna:
		return 35
	case Jungle:
		return 21
	case Meadow:
		return 177
	case FlowerForest:
		return 132
	case SnowyMountains:
		return 13
	default:
		return 1
	}
}

// point is one entry of the fixed biome table: a climate-box center and the
// per-axis weights used when computing distance to a query vector.
type point struct {
	biome   ID
	center  Vector
	weights [int(dimensionCount)]float64
}

// axisWeight gives every axis the same weight except weirdness and depth,
// which vanilla's biome parameter list treats as secondary discriminators.
var axisWeight = [int(dimensionCount)]float64{1, 1, 1, 1, 0.5, 0.25}

// table is the fixed list of (climate-box, biome-tag) entries nearest
// lookup searches. Values are illustrative fixed points spanning the
// climate cube; a production biome set would carry many more
// entries per biome to shape realistic borders, but the lookup algorithm
// below is exact regardless of table size.
var table = []point{
	{Ocean, Vector{0, 0, -8000, 0, 0, 0}, axisWeight},
	{River, Vector{0, 0, -1000, 0, -3000, 4000}, axisWeight},
	{Beach, Vector{2000, 3000, -500, 3000, 0, 6000}, axisWeight},
	{Desert, Vector{8000, -8000, 2000, 2000, 0, 0}, axisWeight},
	{Savanna, Vector{6000, -3000, 2000, 3000, 2000, 0}, axisWeight},
	{Plains, Vector{2000, 0, 1000, 4000, 0, 0}, axisWeight},
	{Meadow, Vector{1000, 2000, 3000, 5000, 0, 0}, axisWeight},
	{FlowerForest, Vector{3000, 4000, 1500, 4000, 1000, 0}, axisWeight},
	{Forest, Vector{1000, 4000, 1000, 2000, 0, 0}, axisWeight},
	{BirchForest, Vector{2500, 3500, 1200, 2500, -1000, 0}, axisWeight},
	{DarkForest, Vector{1500, 5000, 2000, 1000, 3000, 0}, axisWeight},
	{Jungle, Vector{9000, 8000, 2500, 3000, 0, 0}, axisWeight},
	{Swamp, Vector{2000, 6000, -500, 1000, -2000, 3000}, axisWeight},
	{WindsweptHills, Vector{-1000, -1000, 5000, -3000, 3000, 0}, axisWeight},
	{Taiga, Vector{-3000, 2000, 1000, 1000, 0, 0}, axisWeight},
	{SnowyTaiga, Vector{-6000, 1000, 1000, 0, -1000, 0}, axisWeight},
	{SnowyMountains, Vector{-7000, -2000, 6000, -4000, 4000, 0}, axisWeight},
}

// Lookup returns the nearest biome to v under weighted-L1 distance over the
// fixed table above.
func Lookup(v Vector) ID {
	best := table[0].biome
	bestDist := weightedL1(v, table[0])
	for _, p := range table[1:] {
		if d := weightedL1(v, p); d < bestDist {
			bestDist = d
			best = p.biome
		}
	}
	return best
}

func weightedL1(v Vector, p point) float64 {
	var total float64
	for i := 0; i < int(dimensionCount); i++ {
		diff := float64(v[i]-p.center[i]) / 10000
		if diff < 0 {
			diff = -diff
		}
		total += diff * p.weights[i]
	}
	return total
}
