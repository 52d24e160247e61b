// Package pruner separates true from false putative correspondences. It
// dispatches between the supported pruning methods: Lowe's ratio test over
// k-NN candidates and grid-based motion statistics over single best matches.
package pruner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/gridmatch/internal/common"
	"github.com/MeKo-Tech/gridmatch/internal/gms"
	"github.com/MeKo-Tech/gridmatch/internal/match"
)

// Method identifies a pruning algorithm.
type Method string

const (
	MethodRatio Method = "ratio"
	MethodGMS   Method = "gms"
)

// ParseMethod converts a user-supplied method name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodRatio:
		return MethodRatio, nil
	case MethodGMS:
		return MethodGMS, nil
	default:
		return "", fmt.Errorf("unknown pruning method %q (want ratio or gms)", s)
	}
}

// Config selects and parameterizes the pruning method.
type Config struct {
	Method Method

	// Ratio is the ratio-test threshold on nearest/second-nearest
	// descriptor distance.
	Ratio float64

	// GMS parameterizes the grid-based verification engine.
	GMS gms.Config
}

// DefaultConfig selects GMS with its recommended 15x15 grid and alpha 6;
// the ratio threshold defaults to 0.8.
func DefaultConfig() Config {
	return Config{
		Method: MethodGMS,
		Ratio:  0.8,
		GMS:    gms.DefaultConfig(),
	}
}

// Result holds the pruning outcome. Mask and Scores align with the
// evaluated best-match list; Matches holds only the kept entries.
type Result struct {
	Matches []match.Match
	Mask    []bool
	Scores  []float64
	Inliers int
}

// Prune runs the configured method over the match set.
func Prune(set *match.MatchSet, cfg Config) (*Result, error) {
	if set == nil {
		return nil, errors.New("nil match set")
	}
	defer common.Track("prune")()
	switch cfg.Method {
	case MethodRatio:
		return pruneByRatio(set, cfg.Ratio)
	case MethodGMS:
		return pruneByGMS(set, cfg.GMS)
	default:
		return nil, fmt.Errorf("unknown pruning method %q", cfg.Method)
	}
}

// pruneByGMS verifies the single best matches with the grid engine.
func pruneByGMS(set *match.MatchSet, cfg gms.Config) (*Result, error) {
	best := set.BestMatches()

	m, err := gms.NewMatcher(set.QueryKeyPoints, set.QuerySize, set.TrainKeyPoints, set.TrainSize, best, cfg)
	if err != nil {
		return nil, fmt.Errorf("configuring gms matcher: %w", err)
	}

	mask, inliers := m.InlierMask()
	res := &Result{
		Matches: make([]match.Match, 0, inliers),
		Mask:    mask,
		Scores:  make([]float64, 0, inliers),
		Inliers: inliers,
	}
	for i, in := range mask {
		if in {
			res.Matches = append(res.Matches, best[i])
			res.Scores = append(res.Scores, 1.0)
		}
	}

	slog.Debug("GMS pruning complete",
		"matches", len(best),
		"inliers", inliers,
		"with_scale", cfg.WithScale,
		"with_rotation", cfg.WithRotation)
	return res, nil
}
