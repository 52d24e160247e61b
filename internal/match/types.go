// Package match defines the data model shared between the feature-matching
// collaborators and the correspondence filters: keypoints in pixel space,
// putative matches, and the JSON document that carries them.
package match

import (
	"errors"
	"fmt"
)

// KeyPoint is a feature point in pixel coordinates of its source image.
type KeyPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ImageSize holds the pixel dimensions of a source image.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Match is a putative correspondence between a query and a train keypoint,
// as produced by a descriptor matcher.
type Match struct {
	QueryIdx int     `json:"query_idx"`
	TrainIdx int     `json:"train_idx"`
	Distance float64 `json:"distance"`
}

// MatchSet is the document exchanged with the matching collaborator: the two
// keypoint lists with their image sizes, plus either single best matches or
// k-nearest-neighbor candidate lists per query point.
type MatchSet struct {
	QueryKeyPoints []KeyPoint `json:"query_keypoints"`
	TrainKeyPoints []KeyPoint `json:"train_keypoints"`
	QuerySize      ImageSize  `json:"query_size"`
	TrainSize      ImageSize  `json:"train_size"`

	// Matches holds one best match per query point.
	Matches []Match `json:"matches,omitempty"`

	// Candidates holds k-NN candidate matches per query point, ordered by
	// ascending descriptor distance. Used by the ratio test.
	Candidates [][]Match `json:"candidates,omitempty"`
}

// Validate checks internal consistency of the set: positive image sizes and
// all match indices within the keypoint lists.
func (s *MatchSet) Validate() error {
	if s.QuerySize.Width <= 0 || s.QuerySize.Height <= 0 {
		return fmt.Errorf("invalid query image size %dx%d", s.QuerySize.Width, s.QuerySize.Height)
	}
	if s.TrainSize.Width <= 0 || s.TrainSize.Height <= 0 {
		return fmt.Errorf("invalid train image size %dx%d", s.TrainSize.Width, s.TrainSize.Height)
	}
	if len(s.Matches) == 0 && len(s.Candidates) == 0 {
		return errors.New("match set contains neither matches nor candidates")
	}
	for i, m := range s.Matches {
		if err := s.checkIndices(m); err != nil {
			return fmt.Errorf("match %d: %w", i, err)
		}
	}
	for i, cands := range s.Candidates {
		for j, m := range cands {
			if err := s.checkIndices(m); err != nil {
				return fmt.Errorf("candidate %d/%d: %w", i, j, err)
			}
		}
	}
	return nil
}

func (s *MatchSet) checkIndices(m Match) error {
	if m.QueryIdx < 0 || m.QueryIdx >= len(s.QueryKeyPoints) {
		return fmt.Errorf("query index %d out of range [0,%d)", m.QueryIdx, len(s.QueryKeyPoints))
	}
	if m.TrainIdx < 0 || m.TrainIdx >= len(s.TrainKeyPoints) {
		return fmt.Errorf("train index %d out of range [0,%d)", m.TrainIdx, len(s.TrainKeyPoints))
	}
	return nil
}

// BestMatches returns one match per query point: Matches when present,
// otherwise the first (nearest) candidate of each non-empty candidate list.
func (s *MatchSet) BestMatches() []Match {
	if len(s.Matches) > 0 {
		return s.Matches
	}
	best := make([]Match, 0, len(s.Candidates))
	for _, cands := range s.Candidates {
		if len(cands) > 0 {
			best = append(best, cands[0])
		}
	}
	return best
}
