package gms

import "math"

// verifyCellPairs decides, for every left cell, whether its best-matching
// right cell carries enough neighborhood consensus to be trusted.
//
// For each left cell with votes, the right cell with the most direct votes
// is selected (strict comparison, so the lowest index wins ties). The score
// then aggregates votes over the 3x3 neighborhoods of both cells, with the
// right-side neighborhood walked through the active rotation pattern, and is
// compared against alpha*sqrt(mean population of the contributing left
// cells). cellPairs receives the accepted right cell, rejectedCell on a
// failed threshold, or invalidCell when the cell saw no votes.
func verifyCellPairs(
	stats *motionStatistics,
	cellPairs []int32,
	leftNeighbors, rightNeighbors neighborTable,
	rotation [9]int,
	alpha float64,
) {
	for i := 0; i < stats.leftCells; i++ {
		if stats.pop[i] == 0 {
			cellPairs[i] = invalidCell
			continue
		}

		// pop[i] > 0 implies at least one vote in the row, so best is
		// always assigned.
		best := 0
		var bestVotes int32
		for j, v := range stats.row(i) {
			if v > bestVotes {
				best = j
				bestVotes = v
			}
		}

		nbLeft := leftNeighbors[i]
		nbRight := rightNeighbors[best]

		var score int32
		var popSum int32
		valid := 0
		for k := 0; k < 9; k++ {
			ll := nbLeft[k]
			rr := nbRight[rotation[k]-1]
			if ll == invalidCell || rr == invalidCell {
				continue
			}
			score += stats.at(ll, rr)
			popSum += stats.pop[ll]
			valid++
		}

		// A pairing that cannot be cross-checked against any neighbor pair
		// has no consensus evidence and is rejected.
		if valid == 0 {
			cellPairs[i] = rejectedCell
			continue
		}

		threshold := alpha * math.Sqrt(float64(popSum)/float64(valid))
		if float64(score) < threshold {
			cellPairs[i] = rejectedCell
			continue
		}
		cellPairs[i] = int32(best)
	}
}
