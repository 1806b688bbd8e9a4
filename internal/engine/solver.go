// Package engine decides whether a multiset of polyomino tiles can be
// packed into a rectangular region. It combines analytic bounds with a
// depth-first backtracking search over (shape, orientation, origin)
// choices, under a per-region time budget.
package engine

import (
	"sort"
	"sync"
	"time"

	"presentpack/internal/model"
)

// Solver runs region feasibility evaluations.
type Solver struct {
	settings model.Settings
}

func New(settings model.Settings) *Solver {
	return &Solver{settings: settings}
}

// Fits reports whether all tiles required by the region can be placed
// without overlap and inside the bounds. A region whose search budget
// runs out is reported as not fitting.
func (s *Solver) Fits(region model.Region, shapes map[int]model.Shape) bool {
	return s.Evaluate(region, shapes).Fits()
}

// Evaluate runs the full pipeline for one region: analytic bounds
// first, then backtracking search if neither bound decides.
func (s *Solver) Evaluate(region model.Region, shapes map[int]model.Shape) model.RegionResult {
	start := time.Now()

	if outcome, resolution, ok := quickOutcome(region, shapes); ok {
		return model.RegionResult{
			Region:     region,
			Outcome:    outcome,
			ResolvedBy: resolution,
			Elapsed:    time.Since(start),
		}
	}

	sr := newSearch(region, shapes, start.Add(s.settings.TimeBudget))
	outcome := sr.run()

	resolution := model.ResolvedBySearch
	if outcome == model.Unknown {
		resolution = model.ResolvedByBudget
	}
	return model.RegionResult{
		Region:     region,
		Outcome:    outcome,
		ResolvedBy: resolution,
		Placements: sr.placements,
		Elapsed:    time.Since(start),
	}
}

// EvaluateAll evaluates every region and returns the aggregate result.
// Each search owns its board and task list, so regions are spread
// across the configured number of workers. Results keep the input
// order.
func (s *Solver) EvaluateAll(regions []model.Region, shapes map[int]model.Shape) model.EvalResult {
	results := make([]model.RegionResult, len(regions))

	workers := s.settings.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.Evaluate(regions[i], shapes)
			}
		}()
	}
	for i := range regions {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return model.EvalResult{Results: results}
}

// search holds the state for one region's backtracking run.
type search struct {
	board       *board
	tasks       []int            // shape IDs in placement order
	suffixNeed  []int            // suffixNeed[i] = cells demanded by tasks[i:]
	orients     map[int][]model.Shape
	orientCells map[int][][]model.Cell // orientation offsets, flattened once
	deadline    time.Time
	timedOut    bool
	placements  []model.Placement
}

func newSearch(region model.Region, shapes map[int]model.Shape, deadline time.Time) *search {
	sr := &search{
		board:       newBoard(region.Width, region.Height),
		orients:     make(map[int][]model.Shape),
		orientCells: make(map[int][][]model.Cell),
		deadline:    deadline,
	}

	for id, n := range region.Required {
		if n <= 0 {
			continue
		}
		shape, ok := shapes[id]
		if !ok {
			continue
		}
		if _, cached := sr.orients[id]; !cached {
			orientations := shape.Orientations()
			cells := make([][]model.Cell, len(orientations))
			for i, o := range orientations {
				cells[i] = o.Cells()
			}
			sr.orients[id] = orientations
			sr.orientCells[id] = cells
		}
		for i := 0; i < n; i++ {
			sr.tasks = append(sr.tasks, id)
		}
	}

	// Fewer-orientation shapes first reduces branching near the root.
	sort.SliceStable(sr.tasks, func(i, j int) bool {
		ni, nj := len(sr.orients[sr.tasks[i]]), len(sr.orients[sr.tasks[j]])
		if ni != nj {
			return ni < nj
		}
		return sr.tasks[i] < sr.tasks[j]
	})

	sr.suffixNeed = make([]int, len(sr.tasks)+1)
	for i := len(sr.tasks) - 1; i >= 0; i-- {
		sr.suffixNeed[i] = sr.suffixNeed[i+1] + shapes[sr.tasks[i]].Size()
	}

	return sr
}

// run drives the search and maps its termination mode onto the
// three-valued outcome: a completed placement proves Fits, an
// exhausted search space proves DoesNotFit, and a deadline hit
// anywhere in the tree leaves the instance Unknown.
func (sr *search) run() model.Outcome {
	if sr.placeFrom(0) {
		return model.Fits
	}
	if sr.timedOut {
		return model.Unknown
	}
	return model.DoesNotFit
}

// placeFrom attempts to place tasks[i:] onto the board. On success the
// completed placements are left in place; on failure the board is
// restored to its state at entry.
func (sr *search) placeFrom(i int) bool {
	if i == len(sr.tasks) {
		return true
	}

	// Deadline is polled cooperatively, so overrun past the nominal
	// budget is bounded by one placement attempt.
	if !time.Now().Before(sr.deadline) {
		sr.timedOut = true
		return false
	}

	// Not enough free cells for the remaining tiles, even ignoring
	// shape constraints.
	if sr.board.width*sr.board.height-sr.board.used() < sr.suffixNeed[i] {
		return false
	}

	id := sr.tasks[i]

	// The first tile is anchored at the origin: translating any packing
	// of an empty rectangle is still a packing, so one anchor suffices.
	var origins []model.Cell
	if i == 0 {
		origins = []model.Cell{{Row: 0, Col: 0}}
	} else {
		origins = sr.board.candidates()
	}

	for oi, cells := range sr.orientCells[id] {
		for _, origin := range origins {
			if !sr.board.canPlace(cells, origin.Row, origin.Col) {
				continue
			}
			sr.board.place(cells, origin.Row, origin.Col)
			sr.placements = append(sr.placements, model.Placement{
				ShapeID:     id,
				Orientation: sr.orients[id][oi],
				Row:         origin.Row,
				Col:         origin.Col,
			})
			if sr.placeFrom(i + 1) {
				return true
			}
			sr.placements = sr.placements[:len(sr.placements)-1]
			sr.board.unplace(cells, origin.Row, origin.Col)
		}
	}
	return false
}
