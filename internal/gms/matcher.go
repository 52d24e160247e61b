// Package gms implements Grid-based Motion Statistics match verification.
//
// The engine separates geometrically consistent correspondences from
// spurious ones without fitting a geometric model: both images are
// partitioned into uniform grids, votes are accumulated per cell pair, and a
// cell pairing is accepted when its 3x3-neighborhood vote consensus exceeds
// an adaptive threshold. A bounded sweep over scale and rotation hypotheses
// tolerates unknown relative scale and rotation between the images.
package gms

import (
	"fmt"

	"github.com/MeKo-Tech/gridmatch/internal/match"
)

// Config holds the caller-supplied parameters of the verification engine.
type Config struct {
	// GridWidth and GridHeight set the left image's cell resolution.
	GridWidth  int
	GridHeight int

	// Alpha scales the adaptive consensus threshold; larger values demand
	// stronger agreement before a cell pairing is accepted.
	Alpha float64

	// WithScale and WithRotation widen the hypothesis search to the five
	// relative-scale ratios and the eight rotation patterns respectively.
	WithScale    bool
	WithRotation bool

	// Workers bounds trial parallelism during the hypothesis sweep.
	// Values <= 1 run the sweep sequentially. Results are identical either
	// way; the reduction keeps the sequential enumeration order.
	Workers int
}

// DefaultConfig returns the parameters recommended by the GMS paper.
func DefaultConfig() Config {
	return Config{
		GridWidth:  15,
		GridHeight: 15,
		Alpha:      6.0,
		Workers:    1,
	}
}

// Validate reports configuration errors before any computation starts.
func (c Config) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.Alpha <= 0 {
		return fmt.Errorf("alpha must be positive, got %v", c.Alpha)
	}
	return nil
}

// Matcher runs GMS verification for one pair of images. All inputs are
// captured immutably at construction; one Matcher owns its scratch buffers
// and is not shared across image pairs.
type Matcher struct {
	cfg Config

	queryPoints []point
	trainPoints []point
	pairs       [][2]int

	leftGrid      gridDims
	leftNeighbors neighborTable
}

// NewMatcher normalizes the keypoints, captures the correspondences, and
// prepares the left grid. The matches are expected to hold one best
// candidate per query point.
func NewMatcher(
	queryKps []match.KeyPoint, querySize match.ImageSize,
	trainKps []match.KeyPoint, trainSize match.ImageSize,
	matches []match.Match, cfg Config,
) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if querySize.Width <= 0 || querySize.Height <= 0 {
		return nil, fmt.Errorf("invalid query image size %dx%d", querySize.Width, querySize.Height)
	}
	if trainSize.Width <= 0 || trainSize.Height <= 0 {
		return nil, fmt.Errorf("invalid train image size %dx%d", trainSize.Width, trainSize.Height)
	}

	pairs := make([][2]int, len(matches))
	for i, m := range matches {
		if m.QueryIdx < 0 || m.QueryIdx >= len(queryKps) {
			return nil, fmt.Errorf("match %d: query index %d out of range [0,%d)", i, m.QueryIdx, len(queryKps))
		}
		if m.TrainIdx < 0 || m.TrainIdx >= len(trainKps) {
			return nil, fmt.Errorf("match %d: train index %d out of range [0,%d)", i, m.TrainIdx, len(trainKps))
		}
		pairs[i] = [2]int{m.QueryIdx, m.TrainIdx}
	}

	leftGrid := gridDims{width: cfg.GridWidth, height: cfg.GridHeight}
	return &Matcher{
		cfg:           cfg,
		queryPoints:   normalizePoints(queryKps, querySize),
		trainPoints:   normalizePoints(trainKps, trainSize),
		pairs:         pairs,
		leftGrid:      leftGrid,
		leftNeighbors: buildNeighborTable(leftGrid),
	}, nil
}

// normalizePoints maps pixel keypoints into the unit square.
func normalizePoints(kps []match.KeyPoint, size match.ImageSize) []point {
	pts := make([]point, len(kps))
	w := float64(size.Width)
	h := float64(size.Height)
	for i, kp := range kps {
		pts[i] = point{x: kp.X / w, y: kp.Y / h}
	}
	return pts
}

// NumMatches returns the number of correspondences under verification.
func (m *Matcher) NumMatches() int {
	return len(m.pairs)
}
