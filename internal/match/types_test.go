package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSet() *MatchSet {
	return &MatchSet{
		QueryKeyPoints: []KeyPoint{{X: 1, Y: 2}, {X: 3, Y: 4}},
		TrainKeyPoints: []KeyPoint{{X: 5, Y: 6}, {X: 7, Y: 8}},
		QuerySize:      ImageSize{Width: 100, Height: 80},
		TrainSize:      ImageSize{Width: 120, Height: 90},
		Matches: []Match{
			{QueryIdx: 0, TrainIdx: 1, Distance: 0.3},
			{QueryIdx: 1, TrainIdx: 0, Distance: 0.5},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, validSet().Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*MatchSet)
	}{
		{"zero query width", func(s *MatchSet) { s.QuerySize.Width = 0 }},
		{"negative train height", func(s *MatchSet) { s.TrainSize.Height = -1 }},
		{"no matches or candidates", func(s *MatchSet) { s.Matches = nil }},
		{"query index out of range", func(s *MatchSet) { s.Matches[0].QueryIdx = 2 }},
		{"negative train index", func(s *MatchSet) { s.Matches[1].TrainIdx = -1 }},
		{"bad candidate index", func(s *MatchSet) {
			s.Candidates = [][]Match{{{QueryIdx: 0, TrainIdx: 5}}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSet()
			tc.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestBestMatchesPrefersMatches(t *testing.T) {
	s := validSet()
	s.Candidates = [][]Match{{{QueryIdx: 0, TrainIdx: 0, Distance: 0.1}}}

	best := s.BestMatches()
	assert.Equal(t, s.Matches, best)
}

func TestBestMatchesFromCandidates(t *testing.T) {
	s := validSet()
	s.Matches = nil
	s.Candidates = [][]Match{
		{{QueryIdx: 0, TrainIdx: 1, Distance: 0.2}, {QueryIdx: 0, TrainIdx: 0, Distance: 0.7}},
		{},
		{{QueryIdx: 1, TrainIdx: 0, Distance: 0.4}},
	}

	best := s.BestMatches()
	require.Len(t, best, 2)
	assert.Equal(t, Match{QueryIdx: 0, TrainIdx: 1, Distance: 0.2}, best[0])
	assert.Equal(t, Match{QueryIdx: 1, TrainIdx: 0, Distance: 0.4}, best[1])
}
