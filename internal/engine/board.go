package engine

import "presentpack/internal/model"

// board tracks cell occupancy during a single region search. It is
// exclusively owned by one search; place and unplace must pair in
// strict LIFO order.
type board struct {
	width  int
	height int
	taken  []bool       // row-major occupancy grid
	filled []model.Cell // occupied cells in placement order
}

func newBoard(width, height int) *board {
	return &board{
		width:  width,
		height: height,
		taken:  make([]bool, width*height),
	}
}

func (b *board) idx(row, col int) int {
	return row*b.width + col
}

// used returns the number of occupied cells.
func (b *board) used() int {
	return len(b.filled)
}

// canPlace reports whether every cell of the orientation, translated
// to the given origin, lies inside the board and is unoccupied. No
// side effects.
func (b *board) canPlace(cells []model.Cell, row, col int) bool {
	for _, c := range cells {
		r, cl := row+c.Row, col+c.Col
		if r < 0 || r >= b.height || cl < 0 || cl >= b.width {
			return false
		}
		if b.taken[b.idx(r, cl)] {
			return false
		}
	}
	return true
}

// place marks the translated cells as occupied. The caller must have
// verified canPlace first; place does not re-check and corrupts the
// board if the precondition is violated.
func (b *board) place(cells []model.Cell, row, col int) {
	for _, c := range cells {
		cell := model.Cell{Row: row + c.Row, Col: col + c.Col}
		b.taken[b.idx(cell.Row, cell.Col)] = true
		b.filled = append(b.filled, cell)
	}
}

// unplace removes exactly the cells inserted by the matching place
// call. Placements must unwind in reverse chronological order.
func (b *board) unplace(cells []model.Cell, row, col int) {
	for _, c := range cells {
		b.taken[b.idx(row+c.Row, col+c.Col)] = false
	}
	b.filled = b.filled[:len(b.filled)-len(cells)]
}

// candidates returns the free cells 4-adjacent to at least one
// occupied cell. Restricting placement origins to this frontier keeps
// the branching factor small; it is valid for connected tiles packed
// into an empty rectangle.
func (b *board) candidates() []model.Cell {
	seen := make(map[model.Cell]bool, len(b.filled))
	var out []model.Cell
	deltas := [4]model.Cell{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}
	for _, c := range b.filled {
		for _, d := range deltas {
			n := model.Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
			if n.Row < 0 || n.Row >= b.height || n.Col < 0 || n.Col >= b.width {
				continue
			}
			if b.taken[b.idx(n.Row, n.Col)] || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
