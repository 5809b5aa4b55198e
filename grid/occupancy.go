package grid

// occupancy tracks which grid positions have been claimed during placement.
type occupancy struct {
	cols    int
	claimed []bool
	perRow  []int
}

func newOccupancy(rows, cols int) *occupancy {
	return &occupancy{
		cols:    cols,
		claimed: make([]bool, rows*cols),
		perRow:  make([]int, rows),
	}
}

func (o *occupancy) isClaimed(r, c int) bool {
	return o.claimed[r*o.cols+c]
}

// rowTouched reports whether any position in row r is claimed.
func (o *occupancy) rowTouched(r int) bool {
	return o.perRow[r] > 0
}

func (o *occupancy) claim(r, c int) {
	i := r*o.cols + c
	if !o.claimed[i] {
		o.claimed[i] = true
		o.perRow[r]++
	}
}
