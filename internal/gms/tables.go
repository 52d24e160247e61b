package gms

// rotationPatterns holds the eight 3x3 neighborhood permutations used to
// align neighbor comparisons under an unknown relative rotation between the
// two images. Entries are 1-based positions within a row-major 3x3 block;
// pattern 0 is the identity.
var rotationPatterns = [8][9]int{
	{1, 2, 3, 4, 5, 6, 7, 8, 9},
	{4, 1, 2, 7, 5, 3, 8, 9, 6},
	{7, 4, 1, 8, 5, 2, 9, 6, 3},
	{8, 7, 4, 9, 5, 1, 6, 3, 2},
	{9, 8, 7, 6, 5, 4, 3, 2, 1},
	{6, 9, 8, 3, 5, 7, 2, 1, 4},
	{3, 6, 9, 2, 5, 8, 1, 4, 7},
	{2, 3, 6, 1, 5, 9, 4, 7, 8},
}

// scaleRatios holds the five relative-scale hypotheses applied to the right
// grid resolution.
var scaleRatios = [5]float64{1.0, 1.0 / 2, 1.0 / sqrt2, sqrt2, 2.0}

const sqrt2 = 1.4142135623730951

// invalidCell marks a grid position outside the lattice, and a left cell
// that collected no votes. rejectedCell marks a left cell whose best pairing
// failed the consensus threshold. Both exclude every match that maps into
// the cell from the inlier set.
const (
	invalidCell  = -1
	rejectedCell = -2
)
