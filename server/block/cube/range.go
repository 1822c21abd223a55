// Package cube holds the world coordinate model shared by the chunk codec
// and the terrain generator: the vertical Range a dimension spans and the
// block Pos addressing within it.
package cube

// Range represents the vertical range of a dimension, from the bottom-most
// Y value through the top-most Y value, inclusive on both ends: Range[0]
// is the minimum Y, Range[1] the maximum Y.
type Range [2]int

// Overworld is the standard -64..320 vertical range used throughout this
// module's tests and default generator configuration.
var Overworld = Range{-64, 319}

// Height returns the number of blocks the range spans vertically.
func (r Range) Height() int {
	return r[1] - r[0] + 1
}

// Min returns the minimum Y value of the range.
func (r Range) Min() int {
	return r[0]
}

// Max returns the maximum Y value of the range.
func (r Range) Max() int {
	return r[1]
}

// Pos holds the coordinates of a block. The Y coordinate is bound only by
// the range of int, not by the more practical (and expected) -64 to 320.
type Pos [3]int

// X returns the X coordinate of the block position.
func (p Pos) X() int { return p[0] }

// Y returns the Y coordinate of the block position.
func (p Pos) Y() int { return p[1] }

// Z returns the Z coordinate of the block position.
func (p Pos) Z() int { return p[2] }
