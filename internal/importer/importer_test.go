package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const exampleInput = `0:
###
##.
##.

4:
###
#..
###

5:
###
.#.
###

4x4: 0 0 0 0 2 0
12x5: 1 0 1 0 2 2
12x5: 1 0 1 0 3 2
`

// ─── Native Notation Tests ─────────────────────────────────

func TestImportText_ParsesShapesAndRegions(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader(exampleInput))

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(result.Shapes))
	}
	if len(result.Regions) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(result.Regions))
	}

	for _, id := range []int{0, 4, 5} {
		shape, ok := result.Shapes[id]
		if !ok {
			t.Fatalf("shape %d missing", id)
		}
		if shape.Size() != 7 {
			t.Errorf("shape %d: expected 7 cells, got %d", id, shape.Size())
		}
	}

	r := result.Regions[1]
	if r.Width != 12 || r.Height != 5 {
		t.Errorf("expected 12x5, got %dx%d", r.Width, r.Height)
	}
	if len(r.Required) != 6 || r.Required[0] != 1 || r.Required[4] != 2 {
		t.Errorf("unexpected required counts: %v", r.Required)
	}
	if r.ID == "" {
		t.Error("region should get an ID")
	}
}

func TestImportText_ShapeCellsHonorDots(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("0:\n##.\n.##\n"))

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	shape, ok := result.Shapes[0]
	if !ok {
		t.Fatal("shape 0 missing")
	}
	if shape.Size() != 4 {
		t.Errorf("expected 4 cells, got %d", shape.Size())
	}
	if shape.String() != "##.\n.##" {
		t.Errorf("unexpected cells:\n%s", shape.String())
	}
}

func TestImportText_EmptyShapeBlock(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("0:\n\n3x3: 1\n"))

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Shape 0") {
		t.Errorf("error should name the shape: %s", result.Errors[0])
	}
	if len(result.Regions) != 1 {
		t.Error("valid region should still be imported")
	}
}

func TestImportText_UnrecognizedLine(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("what is this\n"))

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
}

func TestImportText_NegativeCount(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("3x3: 1 -2\n"))

	if len(result.Regions) != 0 {
		t.Error("region with negative counts should be rejected")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
}

func TestImportText_Empty(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader(""))
	if len(result.Errors) == 0 {
		t.Error("expected an error for empty input")
	}
}

func TestImportText_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "puzzle.txt")
	if err := os.WriteFile(path, []byte(exampleInput), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportText(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Shapes) != 3 || len(result.Regions) != 3 {
		t.Errorf("expected 3 shapes and 3 regions, got %d and %d", len(result.Shapes), len(result.Regions))
	}
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("width,height,0,1\n4,4,2,0\n12,5,1,2\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("width;height;0;1\n4;4;2;0\n12;5;1;2\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("width\theight\t0\n4\t4\t2\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Width", "Height", "0", "1", "2"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Width != 0 {
		t.Errorf("expected Width at 0, got %d", mapping.Width)
	}
	if mapping.Height != 1 {
		t.Errorf("expected Height at 1, got %d", mapping.Height)
	}
	if len(mapping.Counts) != 3 {
		t.Fatalf("expected 3 count columns, got %d", len(mapping.Counts))
	}
	for i, col := range mapping.Counts {
		if col != i+2 {
			t.Errorf("expected shape %d count at column %d, got %d", i, i+2, col)
		}
	}
}

func TestDetectColumns_ShapeAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"W", "H", "shape 0", "s1", "Shape 2"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if len(mapping.Counts) != 3 {
		t.Fatalf("expected 3 count columns, got %d", len(mapping.Counts))
	}
}

func TestDetectColumns_SparseShapeColumns(t *testing.T) {
	// Only shapes 0 and 3 present: 1 and 2 map to no column.
	mapping, isHeader := DetectColumns([]string{"width", "height", "s0", "s3"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if len(mapping.Counts) != 4 {
		t.Fatalf("expected 4 count slots, got %d", len(mapping.Counts))
	}
	if mapping.Counts[1] != -1 || mapping.Counts[2] != -1 {
		t.Errorf("missing shapes should map to -1: %v", mapping.Counts)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"4", "4", "2", "0"})

	if isHeader {
		t.Fatal("numeric row should not count as a header")
	}
	if mapping.Width != 0 || mapping.Height != 1 {
		t.Errorf("expected positional width/height, got %d/%d", mapping.Width, mapping.Height)
	}
	if len(mapping.Counts) != 2 {
		t.Errorf("expected 2 positional count columns, got %d", len(mapping.Counts))
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportRegionsCSV_WithHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.csv")
	data := "width,height,0,1,2\n4,4,2,0,0\n12,5,1,0,2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportRegionsCSV(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}

	r := result.Regions[1]
	if r.Width != 12 || r.Height != 5 {
		t.Errorf("expected 12x5, got %dx%d", r.Width, r.Height)
	}
	if len(r.Required) != 3 || r.Required[2] != 2 {
		t.Errorf("unexpected required counts: %v", r.Required)
	}
}

func TestImportRegionsCSV_Positional(t *testing.T) {
	result := ImportRegionsCSVFromReader(strings.NewReader("4,4,2\n6,3,0\n"), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}
	if result.Regions[0].Required[0] != 2 {
		t.Errorf("unexpected counts: %v", result.Regions[0].Required)
	}
}

func TestImportRegionsCSV_InvalidRows(t *testing.T) {
	result := ImportRegionsCSVFromReader(strings.NewReader("4,4,2\nnope,4,1\n0,5,1\n"), ',')

	if len(result.Regions) != 1 {
		t.Errorf("expected only the valid row, got %d regions", len(result.Regions))
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", result.Errors)
	}
}

func TestImportRegionsCSV_MissingFile(t *testing.T) {
	result := ImportRegionsCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

func TestImportRegionsCSV_SemicolonWarning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.csv")
	data := "width;height;0\n4;4;2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportRegionsCSV(path)
	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 region, got %d (errors: %v)", len(result.Regions), result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a delimiter warning, got %v", result.Warnings)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func TestImportRegionsExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"width", "height", "0", "1"},
		{4, 4, 2, 0},
		{12, 5, 1, 2},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ImportRegionsExcel(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}
	if result.Regions[1].Required[1] != 2 {
		t.Errorf("unexpected counts: %v", result.Regions[1].Required)
	}
}

func TestImportRegionsExcel_MissingFile(t *testing.T) {
	result := ImportRegionsExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}
