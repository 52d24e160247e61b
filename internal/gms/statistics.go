package gms

import "github.com/MeKo-Tech/gridmatch/internal/mempool"

// motionStatistics is the vote histogram between left and right grid cells
// for one lattice-offset pass, together with per-left-cell population
// counts. It is trial-local scratch: cleared between the four offset passes,
// never shared across concurrently running trials. Buffers come from the
// shared pool and must be released after the trial.
type motionStatistics struct {
	leftCells  int
	rightCells int
	votes      []int32 // leftCells*rightCells, row-major by left cell
	pop        []int32 // matches counted per left cell
}

func newMotionStatistics(leftCells, rightCells int) *motionStatistics {
	return &motionStatistics{
		leftCells:  leftCells,
		rightCells: rightCells,
		votes:      mempool.GetInt32(leftCells * rightCells),
		pop:        mempool.GetInt32(leftCells),
	}
}

func (s *motionStatistics) release() {
	mempool.PutInt32(s.votes)
	mempool.PutInt32(s.pop)
	s.votes = nil
	s.pop = nil
}

// reset zeroes the histogram for the next offset pass without reallocating.
func (s *motionStatistics) reset() {
	for i := range s.votes {
		s.votes[i] = 0
	}
	for i := range s.pop {
		s.pop[i] = 0
	}
}

func (s *motionStatistics) at(left, right int) int32 {
	return s.votes[left*s.rightCells+right]
}

func (s *motionStatistics) row(left int) []int32 {
	return s.votes[left*s.rightCells : (left+1)*s.rightCells]
}

// accumulate runs one lattice-offset pass over all correspondences: each
// match with a valid cell on both sides contributes one vote to its
// (left, right) cell pair and one count to its left cell's population.
// Every match's cell pair is recorded in pairLeft/pairRight; the right cell
// is computed only on the unshifted pass and reused by the shifted ones.
func (s *motionStatistics) accumulate(
	m *Matcher, rightGrid gridDims, variant offsetVariant,
	pairLeft, pairRight []int32,
) {
	for i, pr := range m.pairs {
		left := cellIndex(m.queryPoints[pr[0]], m.leftGrid, variant)
		pairLeft[i] = int32(left)

		if variant == offsetNone {
			pairRight[i] = int32(cellIndex(m.trainPoints[pr[1]], rightGrid, offsetNone))
		}
		right := int(pairRight[i])

		if left < 0 || right < 0 {
			continue
		}
		s.votes[left*s.rightCells+right]++
		s.pop[left]++
	}
}
