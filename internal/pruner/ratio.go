package pruner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/gridmatch/internal/match"
)

// pruneByRatio applies Lowe's ratio test: a best candidate survives when its
// descriptor distance is below ratio times the second-best distance.
func pruneByRatio(set *match.MatchSet, ratio float64) (*Result, error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, fmt.Errorf("ratio must lie in (0,1), got %v", ratio)
	}
	if len(set.Candidates) == 0 {
		return nil, errors.New("ratio test requires k-NN candidates")
	}

	res := &Result{
		Mask: make([]bool, len(set.Candidates)),
	}
	for i, cands := range set.Candidates {
		if len(cands) < 2 {
			return nil, fmt.Errorf("candidate list %d has %d entries, ratio test needs at least 2", i, len(cands))
		}
		score := cands[0].Distance / cands[1].Distance
		if score < ratio {
			res.Mask[i] = true
			res.Matches = append(res.Matches, cands[0])
			res.Scores = append(res.Scores, score)
			res.Inliers++
		}
	}

	slog.Debug("ratio pruning complete",
		"candidates", len(set.Candidates),
		"inliers", res.Inliers,
		"ratio", ratio)
	return res, nil
}
