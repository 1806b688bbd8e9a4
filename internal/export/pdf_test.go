package export

import (
	"os"
	"path/filepath"
	"testing"

	"presentpack/internal/model"
)

// mustShape builds a shape from '#'/'.' rows, failing the test on error.
func mustShape(t *testing.T, rows ...string) model.Shape {
	t.Helper()
	var cells []model.Cell
	for r, row := range rows {
		for c, ch := range row {
			if ch == '#' {
				cells = append(cells, model.Cell{Row: r, Col: c})
			}
		}
	}
	s, err := model.NewShape(cells)
	if err != nil {
		t.Fatalf("building shape: %v", err)
	}
	return s
}

// buildTestResult creates a realistic evaluation result for testing:
// one search-proved fit with a layout, one bound-resolved admission,
// and one rejection.
func buildTestResult(t *testing.T) model.EvalResult {
	t.Helper()
	corner := mustShape(t, "##", "#.")
	square := mustShape(t, "##", "##")

	return model.EvalResult{Results: []model.RegionResult{
		{
			Region:     model.NewRegion(4, 4, []int{1, 1}),
			Outcome:    model.Fits,
			ResolvedBy: model.ResolvedBySearch,
			Placements: []model.Placement{
				{ShapeID: 0, Orientation: corner, Row: 0, Col: 0},
				{ShapeID: 1, Orientation: square, Row: 2, Col: 2},
			},
		},
		{
			Region:     model.NewRegion(10, 10, []int{2, 0}),
			Outcome:    model.Fits,
			ResolvedBy: model.ResolvedByGridBound,
		},
		{
			Region:     model.NewRegion(2, 2, []int{0, 3}),
			Outcome:    model.DoesNotFit,
			ResolvedBy: model.ResolvedByCapacity,
		},
	}}
}

func testShapes(t *testing.T) map[int]model.Shape {
	t.Helper()
	return map[int]model.Shape{
		0: mustShape(t, "##", "#."),
		1: mustShape(t, "##", "##"),
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")

	if err := ExportPDF(path, buildTestResult(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	// A valid PDF with 4 pages (3 regions + summary) should be a reasonable size
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportPDF(path, model.EvalResult{})
	if err == nil {
		t.Fatal("expected an error for an empty result")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty result")
	}
}

func TestExportPDF_ManyRegions(t *testing.T) {
	// The summary table truncates rather than overflowing the page.
	dir := t.TempDir()
	path := filepath.Join(dir, "many.pdf")

	var results []model.RegionResult
	for i := 0; i < 40; i++ {
		results = append(results, model.RegionResult{
			Region:     model.NewRegion(3, 3, []int{1}),
			Outcome:    model.Fits,
			ResolvedBy: model.ResolvedByGridBound,
		})
	}

	if err := ExportPDF(path, model.EvalResult{Results: results}); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("PDF file missing or empty: %v", err)
	}
}
