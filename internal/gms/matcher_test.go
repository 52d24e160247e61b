package gms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/gridmatch/internal/match"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.GridWidth = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.GridHeight = -3
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Alpha = 0
	assert.Error(t, bad.Validate())
}

func TestNewMatcherRejectsBadInputs(t *testing.T) {
	kps := []match.KeyPoint{{X: 10, Y: 10}}
	size := match.ImageSize{Width: 100, Height: 100}
	matches := []match.Match{{QueryIdx: 0, TrainIdx: 0}}

	_, err := NewMatcher(kps, match.ImageSize{}, kps, size, matches, DefaultConfig())
	assert.Error(t, err)

	_, err = NewMatcher(kps, size, kps, match.ImageSize{Width: 100}, matches, DefaultConfig())
	assert.Error(t, err)

	_, err = NewMatcher(kps, size, kps, size, []match.Match{{QueryIdx: 1, TrainIdx: 0}}, DefaultConfig())
	assert.Error(t, err)

	_, err = NewMatcher(kps, size, kps, size, []match.Match{{QueryIdx: 0, TrainIdx: -1}}, DefaultConfig())
	assert.Error(t, err)
}

func TestNormalizePoints(t *testing.T) {
	pts := normalizePoints(
		[]match.KeyPoint{{X: 50, Y: 25}, {X: 0, Y: 0}, {X: 99, Y: 49}},
		match.ImageSize{Width: 100, Height: 50},
	)
	require.Len(t, pts, 3)
	assert.InDelta(t, 0.5, pts[0].x, 1e-12)
	assert.InDelta(t, 0.5, pts[0].y, 1e-12)
	assert.Equal(t, point{0, 0}, pts[1])
	assert.InDelta(t, 0.99, pts[2].x, 1e-12)
	assert.InDelta(t, 0.98, pts[2].y, 1e-12)
}

func TestInlierMaskEmptyInput(t *testing.T) {
	kps := []match.KeyPoint{{X: 10, Y: 10}}
	size := match.ImageSize{Width: 100, Height: 100}

	m, err := NewMatcher(kps, size, kps, size, nil, DefaultConfig())
	require.NoError(t, err)

	mask, count := m.InlierMask()
	assert.Empty(t, mask)
	assert.Zero(t, count)
}

func TestInlierMaskLengthInvariant(t *testing.T) {
	kps := []match.KeyPoint{{X: 10, Y: 10}, {X: 50, Y: 50}, {X: 90, Y: 90}}
	size := match.ImageSize{Width: 100, Height: 100}
	matches := []match.Match{
		{QueryIdx: 0, TrainIdx: 0},
		{QueryIdx: 1, TrainIdx: 1},
		{QueryIdx: 2, TrainIdx: 2},
	}

	for _, cfg := range []Config{
		DefaultConfig(),
		{GridWidth: 15, GridHeight: 15, Alpha: 6, WithScale: true, WithRotation: true, Workers: 4},
	} {
		m, err := NewMatcher(kps, size, kps, size, matches, cfg)
		require.NoError(t, err)
		mask, count := m.InlierMask()
		assert.Len(t, mask, len(matches))

		popcount := 0
		for _, in := range mask {
			if in {
				popcount++
			}
		}
		assert.Equal(t, popcount, count)
	}
}

func TestNumMatches(t *testing.T) {
	kps := []match.KeyPoint{{X: 10, Y: 10}, {X: 20, Y: 20}}
	size := match.ImageSize{Width: 100, Height: 100}
	matches := []match.Match{{QueryIdx: 0, TrainIdx: 1}, {QueryIdx: 1, TrainIdx: 0}}

	m, err := NewMatcher(kps, size, kps, size, matches, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumMatches())
}
