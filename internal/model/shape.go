package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyShape is returned when a shape definition contains no cells.
// A zero-cell tile has no meaningful placement semantics.
var ErrEmptyShape = errors.New("shape has no cells")

// Cell is a grid coordinate. Row grows downward, Col grows to the right.
type Cell struct {
	Row int
	Col int
}

// Shape is an immutable polyomino: a set of cell offsets normalized so
// the minimum row and minimum column are both zero. Identity is
// structural: two shapes with the same offset set are the same shape.
type Shape struct {
	cells []Cell // unique, sorted row-major
}

// NewShape builds a normalized shape from the given cells. Duplicate
// cells collapse into one. An empty cell set is rejected with
// ErrEmptyShape.
func NewShape(cells []Cell) (Shape, error) {
	if len(cells) == 0 {
		return Shape{}, ErrEmptyShape
	}
	return normalize(cells), nil
}

// normalize translates the cells so the minimum row and column are zero,
// deduplicates, and sorts row-major. Idempotent.
func normalize(cells []Cell) Shape {
	minRow, minCol := cells[0].Row, cells[0].Col
	for _, c := range cells[1:] {
		if c.Row < minRow {
			minRow = c.Row
		}
		if c.Col < minCol {
			minCol = c.Col
		}
	}

	seen := make(map[Cell]bool, len(cells))
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		n := Cell{Row: c.Row - minRow, Col: c.Col - minCol}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Row < out[j].Row ||
			(out[i].Row == out[j].Row && out[i].Col < out[j].Col)
	})
	return Shape{cells: out}
}

// Size returns the number of cells in the shape.
func (s Shape) Size() int {
	return len(s.cells)
}

// Cells returns a copy of the shape's cell offsets in row-major order.
func (s Shape) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Key returns a canonical string for the offset set, usable as a map
// key for structural deduplication.
func (s Shape) Key() string {
	var b strings.Builder
	for i, c := range s.cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d,%d", c.Row, c.Col)
	}
	return b.String()
}

// Equal reports whether two shapes have the same offset set.
func (s Shape) Equal(other Shape) bool {
	if len(s.cells) != len(other.cells) {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// BoundingBox returns the height and width of the shape's bounding box.
func (s Shape) BoundingBox() (height, width int) {
	for _, c := range s.cells {
		if c.Row+1 > height {
			height = c.Row + 1
		}
		if c.Col+1 > width {
			width = c.Col + 1
		}
	}
	return height, width
}

// Rotate returns the shape rotated 90 degrees clockwise, renormalized.
// Transformation: (r, c) -> (c, -r).
func (s Shape) Rotate() Shape {
	rotated := make([]Cell, len(s.cells))
	for i, c := range s.cells {
		rotated[i] = Cell{Row: c.Col, Col: -c.Row}
	}
	return normalize(rotated)
}

// FlipHorizontal returns the shape mirrored left-to-right, renormalized.
// Transformation: (r, c) -> (r, -c).
func (s Shape) FlipHorizontal() Shape {
	flipped := make([]Cell, len(s.cells))
	for i, c := range s.cells {
		flipped[i] = Cell{Row: c.Row, Col: -c.Col}
	}
	return normalize(flipped)
}

// Orientations returns the distinct shapes reachable by quarter-turn
// rotations combined with an optional horizontal flip, each
// renormalized. The identity orientation comes first and duplicates
// arising from shape symmetry are collapsed, so the result always has
// between 1 and 8 members.
func (s Shape) Orientations() []Shape {
	seen := make(map[string]bool, 8)
	out := make([]Shape, 0, 8)
	for _, flip := range []bool{false, true} {
		cur := s
		if flip {
			cur = s.FlipHorizontal()
		}
		for step := 0; step < 4; step++ {
			if key := cur.Key(); !seen[key] {
				seen[key] = true
				out = append(out, cur)
			}
			cur = cur.Rotate()
		}
	}
	return out
}

// String renders the shape as '#' and '.' rows.
func (s Shape) String() string {
	height, width := s.BoundingBox()
	rows := make([][]byte, height)
	for r := range rows {
		rows[r] = []byte(strings.Repeat(".", width))
	}
	for _, c := range s.cells {
		rows[c.Row][c.Col] = '#'
	}
	lines := make([]string, height)
	for r := range rows {
		lines[r] = string(rows[r])
	}
	return strings.Join(lines, "\n")
}
