// Package testutil provides deterministic synthetic inputs for the
// correspondence filters: match sets in which a known subset follows one
// consistent affine motion and the rest is random clutter.
package testutil

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/gridmatch/internal/match"
)

// SyntheticParams controls the generated match set. The first Structured
// matches follow the affine transform; the remaining Random matches pair
// uniformly random points on both sides.
type SyntheticParams struct {
	Structured int
	Random     int

	// Structured query points are drawn around Clusters cluster centers
	// with gaussian spread ClusterSigma (pixels), so coherent matches
	// concentrate their votes into a handful of cell pairs.
	Clusters     int
	ClusterSigma float64

	Width  int
	Height int

	// Affine is the 2x3 transform taking query pixels to train pixels.
	// Nil selects DefaultAffine.
	Affine *mat.Dense

	// Noise is the half-width of uniform pixel jitter added to structured
	// train points.
	Noise float64

	Seed int64
}

// DefaultSyntheticParams matches the scenario used across the engine tests:
// 640x480 images, 80 structured and 20 random correspondences.
func DefaultSyntheticParams() SyntheticParams {
	return SyntheticParams{
		Structured:   80,
		Random:       20,
		Clusters:     8,
		ClusterSigma: 6.0,
		Width:        640,
		Height:       480,
		Noise:        1.5,
		Seed:         42,
	}
}

// DefaultAffine returns a mild similarity-like motion: slight shrink, slight
// shear, and a small translation, keeping transformed points inside the
// image for interior sources.
func DefaultAffine() *mat.Dense {
	return mat.NewDense(2, 3, []float64{
		0.9, 0.04, 25.0,
		-0.04, 0.9, 15.0,
	})
}

// GenerateMatchSet builds a deterministic synthetic match set. Matches are
// identity pairings (query i to train i); the structured block comes first.
func GenerateMatchSet(p SyntheticParams) *match.MatchSet {
	if p.Affine == nil {
		p.Affine = DefaultAffine()
	}
	rng := rand.New(rand.NewSource(p.Seed)) //nolint:gosec // deterministic test data

	n := p.Structured + p.Random
	set := &match.MatchSet{
		QueryKeyPoints: make([]match.KeyPoint, 0, n),
		TrainKeyPoints: make([]match.KeyPoint, 0, n),
		QuerySize:      match.ImageSize{Width: p.Width, Height: p.Height},
		TrainSize:      match.ImageSize{Width: p.Width, Height: p.Height},
		Matches:        make([]match.Match, 0, n),
	}

	// Keep structured sources away from the borders so the transformed
	// points stay on the image.
	marginX := float64(p.Width) * 0.15
	marginY := float64(p.Height) * 0.15

	// Clusters <= 0 spreads structured sources uniformly instead.
	var centers []match.KeyPoint
	for i := 0; i < p.Clusters; i++ {
		centers = append(centers, match.KeyPoint{
			X: marginX + rng.Float64()*(float64(p.Width)-2*marginX),
			Y: marginY + rng.Float64()*(float64(p.Height)-2*marginY),
		})
	}

	for i := 0; i < p.Structured; i++ {
		var q match.KeyPoint
		if len(centers) > 0 {
			c := centers[i%len(centers)]
			q = match.KeyPoint{
				X: clamp(c.X+rng.NormFloat64()*p.ClusterSigma, 0, float64(p.Width)-1),
				Y: clamp(c.Y+rng.NormFloat64()*p.ClusterSigma, 0, float64(p.Height)-1),
			}
		} else {
			q = match.KeyPoint{
				X: marginX + rng.Float64()*(float64(p.Width)-2*marginX),
				Y: marginY + rng.Float64()*(float64(p.Height)-2*marginY),
			}
		}
		t := applyAffine(p.Affine, q)
		t.X = clamp(t.X+jitter(rng, p.Noise), 0, float64(p.Width)-1)
		t.Y = clamp(t.Y+jitter(rng, p.Noise), 0, float64(p.Height)-1)
		appendPair(set, q, t, rng.Float64()*0.3)
	}

	for i := 0; i < p.Random; i++ {
		q := match.KeyPoint{
			X: rng.Float64() * float64(p.Width-1),
			Y: rng.Float64() * float64(p.Height-1),
		}
		t := match.KeyPoint{
			X: rng.Float64() * float64(p.Width-1),
			Y: rng.Float64() * float64(p.Height-1),
		}
		appendPair(set, q, t, 0.4+rng.Float64()*0.6)
	}

	return set
}

func appendPair(set *match.MatchSet, q, t match.KeyPoint, dist float64) {
	idx := len(set.QueryKeyPoints)
	set.QueryKeyPoints = append(set.QueryKeyPoints, q)
	set.TrainKeyPoints = append(set.TrainKeyPoints, t)
	set.Matches = append(set.Matches, match.Match{QueryIdx: idx, TrainIdx: idx, Distance: dist})
}

// applyAffine maps a query point through the 2x3 transform.
func applyAffine(a *mat.Dense, q match.KeyPoint) match.KeyPoint {
	src := mat.NewVecDense(3, []float64{q.X, q.Y, 1})
	var dst mat.VecDense
	dst.MulVec(a, src)
	return match.KeyPoint{X: dst.AtVec(0), Y: dst.AtVec(1)}
}

func jitter(rng *rand.Rand, noise float64) float64 {
	if noise <= 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * noise
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
