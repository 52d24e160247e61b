package gms

// neighborTable stores, for every cell of a grid, the row-major 3x3 block of
// cell indices around it (self at position 4). Slots that fall outside the
// grid hold invalidCell.
type neighborTable [][9]int

// buildNeighborTable computes the 3x3 neighborhoods for all cells of a grid.
func buildNeighborTable(g gridDims) neighborTable {
	table := make(neighborTable, g.cells())
	for idx := range table {
		table[idx] = neighbors9(idx, g)
	}
	return table
}

// neighbors9 returns the 3x3 neighborhood of one cell.
func neighbors9(idx int, g gridDims) [9]int {
	var nb [9]int
	for i := range nb {
		nb[i] = invalidCell
	}

	cx := idx % g.width
	cy := idx / g.width
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x := cx + dx
			y := cy + dy
			if x < 0 || x >= g.width || y < 0 || y >= g.height {
				continue
			}
			nb[(dy+1)*3+(dx+1)] = x + y*g.width
		}
	}
	return nb
}
