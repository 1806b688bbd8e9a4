// Package model defines the domain types for polyomino packing:
// shapes with their symmetry group, target regions, placements, and
// evaluation results.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Region is a rectangular target area plus the required tile counts
// indexed by shape ID. It is read-only for the lifetime of an
// evaluation.
type Region struct {
	ID       string `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Required []int  `json:"required"` // Required[i] copies of shape i
}

func NewRegion(width, height int, required []int) Region {
	return Region{
		ID:       uuid.New().String()[:8],
		Width:    width,
		Height:   height,
		Required: required,
	}
}

// Area returns the number of cells in the region.
func (r Region) Area() int {
	return r.Width * r.Height
}

// TileCount returns the total number of required tiles.
func (r Region) TileCount() int {
	total := 0
	for _, n := range r.Required {
		total += n
	}
	return total
}

// DemandCells returns the total cell count of all required tiles.
// Counts for shape IDs missing from the catalog contribute nothing.
func (r Region) DemandCells(shapes map[int]Shape) int {
	total := 0
	for id, n := range r.Required {
		if n <= 0 {
			continue
		}
		if shape, ok := shapes[id]; ok {
			total += n * shape.Size()
		}
	}
	return total
}

// Label returns a short human-readable description, e.g. "12x5 [1 0 2]".
func (r Region) Label() string {
	counts := make([]string, len(r.Required))
	for i, n := range r.Required {
		counts[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%dx%d [%s]", r.Width, r.Height, strings.Join(counts, " "))
}

// Outcome is the three-valued answer for one region. Budget exhaustion
// is kept distinct from a proven non-fit so callers can audit which
// regions were actually decided; the boolean surface maps Unknown to
// "does not fit".
type Outcome int

const (
	DoesNotFit Outcome = iota
	Fits
	Unknown // search budget exhausted without a proof either way
)

func (o Outcome) String() string {
	switch o {
	case Fits:
		return "fits"
	case DoesNotFit:
		return "does not fit"
	default:
		return "unknown"
	}
}

// Resolution records which stage of the pipeline answered a region.
type Resolution string

const (
	ResolvedByGridBound Resolution = "grid-bound"     // trivial disjoint-grid admission
	ResolvedByCapacity  Resolution = "capacity-bound" // total demand exceeds region area
	ResolvedBySearch    Resolution = "search"         // exhaustive backtracking
	ResolvedByBudget    Resolution = "budget"         // deadline hit before a proof
)

// Placement records one tile fixed at an origin in region coordinates:
// the orientation's (0,0) offset sits at (Row, Col).
type Placement struct {
	ShapeID     int   `json:"shape_id"`
	Orientation Shape `json:"-"`
	Row         int   `json:"row"`
	Col         int   `json:"col"`
}

// RegionResult is the detailed answer for a single region. Placements
// is populated only when the search itself proved the fit; regions
// admitted by an analytic bound carry none.
type RegionResult struct {
	Region     Region
	Outcome    Outcome
	ResolvedBy Resolution
	Placements []Placement
	Elapsed    time.Duration
}

// Fits reports the boolean feasibility answer. Unknown counts as false.
func (r RegionResult) Fits() bool {
	return r.Outcome == Fits
}

// EvalResult aggregates the per-region results of one evaluation run.
type EvalResult struct {
	Results []RegionResult
}

// FitCount returns the number of regions whose tiles all fit.
func (e EvalResult) FitCount() int {
	count := 0
	for _, r := range e.Results {
		if r.Fits() {
			count++
		}
	}
	return count
}

// Settings holds solver configuration.
type Settings struct {
	TimeBudget time.Duration // per-region search budget
	Workers    int           // concurrent region evaluations
}

func DefaultSettings() Settings {
	return Settings{
		TimeBudget: 5 * time.Second,
		Workers:    1,
	}
}
