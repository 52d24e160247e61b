package gms

import "math"

// gridDims describes the cell resolution of one image's lattice.
type gridDims struct {
	width  int
	height int
}

func (g gridDims) cells() int {
	return g.width * g.height
}

// scaled returns the right-grid resolution for a scale-ratio hypothesis.
// Dimensions truncate toward zero, matching the original GMS quantization.
func (g gridDims) scaled(ratio float64) gridDims {
	return gridDims{
		width:  int(float64(g.width) * ratio),
		height: int(float64(g.height) * ratio),
	}
}

// point is a keypoint normalized into the unit square of its source image.
type point struct {
	x, y float64
}

// offsetVariant selects one of the four lattice alignments applied to the
// left grid. Shifting by half a cell in x, y, or both cancels quantization
// bias for points near cell boundaries.
type offsetVariant int

const (
	offsetNone offsetVariant = iota
	offsetX
	offsetY
	offsetXY
	numOffsetVariants
)

// cellIndex maps a normalized point to its linear cell index under the given
// lattice offset, or invalidCell when the shifted position leaves the grid.
func cellIndex(p point, g gridDims, variant offsetVariant) int {
	fx := p.x * float64(g.width)
	fy := p.y * float64(g.height)
	if variant == offsetX || variant == offsetXY {
		fx += 0.5
	}
	if variant == offsetY || variant == offsetXY {
		fy += 0.5
	}
	x := int(math.Floor(fx))
	y := int(math.Floor(fy))
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return invalidCell
	}
	return x + y*g.width
}
