package gms

import (
	"sync"

	"github.com/MeKo-Tech/gridmatch/internal/mempool"
)

// trialSpec identifies one (scale, rotation) hypothesis of the sweep.
type trialSpec struct {
	order    int
	scaleIdx int
	rotIdx   int
}

// InlierMask runs the hypothesis sweep and returns the inlier mask of the
// best-scoring trial together with its inlier count. The mask is aligned
// 1:1 with the matches passed to NewMatcher; zero matches yield an empty
// mask, not an error.
func (m *Matcher) InlierMask() ([]bool, int) {
	n := len(m.pairs)
	if n == 0 {
		return []bool{}, 0
	}

	trials := m.enumerateTrials()
	masks := make([][]bool, len(trials))
	counts := make([]int, len(trials))

	if m.cfg.Workers > 1 && len(trials) > 1 {
		m.runTrialsParallel(trials, masks, counts)
	} else {
		for _, t := range trials {
			masks[t.order], counts[t.order] = m.runTrial(t)
		}
	}

	// Max-by-score fold in enumeration order; first-seen wins ties, which
	// keeps the parallel path bit-identical to the sequential one.
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return masks[best], counts[best]
}

// enumerateTrials lists the hypotheses in scale-major, rotation-minor order.
// Disabled flags pin their dimension to scale 1.0 / the identity rotation.
func (m *Matcher) enumerateTrials() []trialSpec {
	scales := 1
	if m.cfg.WithScale {
		scales = len(scaleRatios)
	}
	rotations := 1
	if m.cfg.WithRotation {
		rotations = len(rotationPatterns)
	}

	trials := make([]trialSpec, 0, scales*rotations)
	for s := 0; s < scales; s++ {
		for r := 0; r < rotations; r++ {
			trials = append(trials, trialSpec{order: len(trials), scaleIdx: s, rotIdx: r})
		}
	}
	return trials
}

// runTrialsParallel dispatches trials to a bounded worker pool. Every trial
// writes only its own slot, so results land race-free in enumeration order.
func (m *Matcher) runTrialsParallel(trials []trialSpec, masks [][]bool, counts []int) {
	workers := m.cfg.Workers
	if workers > len(trials) {
		workers = len(trials)
	}

	jobs := make(chan trialSpec, len(trials))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				masks[t.order], counts[t.order] = m.runTrial(t)
			}
		}()
	}
	for _, t := range trials {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
}

// runTrial evaluates one hypothesis: rebuild the right grid for the scale,
// run the four lattice-offset passes under the fixed rotation pattern, and
// OR-combine their per-match decisions into the trial mask.
func (m *Matcher) runTrial(t trialSpec) ([]bool, int) {
	rightGrid := m.leftGrid.scaled(scaleRatios[t.scaleIdx])
	rightNeighbors := buildNeighborTable(rightGrid)
	rotation := rotationPatterns[t.rotIdx]

	n := len(m.pairs)
	stats := newMotionStatistics(m.leftGrid.cells(), rightGrid.cells())
	cellPairs := mempool.GetInt32(m.leftGrid.cells())
	pairLeft := mempool.GetInt32(n)
	pairRight := mempool.GetInt32(n)
	defer func() {
		stats.release()
		mempool.PutInt32(cellPairs)
		mempool.PutInt32(pairLeft)
		mempool.PutInt32(pairRight)
	}()

	mask := make([]bool, n)
	for variant := offsetNone; variant < numOffsetVariants; variant++ {
		stats.reset()
		stats.accumulate(m, rightGrid, variant, pairLeft, pairRight)
		verifyCellPairs(stats, cellPairs, m.leftNeighbors, rightNeighbors, rotation, m.cfg.Alpha)

		// A match accepted by any of the four passes stays an inlier.
		for i := range m.pairs {
			left := pairLeft[i]
			right := pairRight[i]
			if left < 0 || right < 0 {
				continue
			}
			if cellPairs[left] == right {
				mask[i] = true
			}
		}
	}

	count := 0
	for _, in := range mask {
		if in {
			count++
		}
	}
	return mask, count
}
