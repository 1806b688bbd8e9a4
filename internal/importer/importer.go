// Package importer loads shape catalogs and packing regions. The
// native text notation carries both shapes and regions in one file;
// region lists can additionally come from CSV (with automatic
// delimiter detection) or Excel, with case-insensitive header
// recognition and flexible column mapping.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"presentpack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Shapes   map[int]model.Shape
	Regions  []model.Region
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the
// data. Counts[i] is the column holding the required count of shape i.
type ColumnMapping struct {
	Width  int
	Height int
	Counts []int
}

// headerAliases maps canonical column names to their accepted aliases
// (all lowercase).
var headerAliases = map[string][]string{
	"width":  {"width", "w", "cols", "columns", "x"},
	"height": {"height", "h", "rows", "y"},
}

// shapeHeaderPattern matches per-shape count columns such as "0",
// "s3", "shape 2", or "count 1".
var shapeHeaderPattern = regexp.MustCompile(`^(?:s|shape\s*|count\s*)?(\d+)$`)

var (
	shapeHeaderLine = regexp.MustCompile(`^(\d+):$`)
	regionLine      = regexp.MustCompile(`^(\d+)x(\d+):\s*(.+)$`)
)

// ImportText imports shapes and regions from a file in the native
// notation: numbered shape blocks of '#'/'.' rows, and region lines of
// the form "WIDTHxHEIGHT: count count ...".
func ImportText(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()
	return ImportTextFromReader(f)
}

// ImportTextFromReader is ImportText over an arbitrary reader.
func ImportTextFromReader(r io.Reader) ImportResult {
	result := ImportResult{Shapes: make(map[int]model.Shape)}

	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read input: %v", err))
		return result
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := shapeHeaderLine.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])

			var cells []model.Cell
			row := 0
			for i+1 < len(lines) {
				body := strings.TrimSpace(lines[i+1])
				if body == "" || !isShapeRow(body) {
					break
				}
				for col, ch := range body {
					if ch == '#' {
						cells = append(cells, model.Cell{Row: row, Col: col})
					}
				}
				row++
				i++
			}

			shape, err := model.NewShape(cells)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Shape %d: %v", id, err))
				continue
			}
			if _, dup := result.Shapes[id]; dup {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Shape %d redefined, keeping latest definition", id))
			}
			result.Shapes[id] = shape
			continue
		}

		if m := regionLine.FindStringSubmatch(line); m != nil {
			width, _ := strconv.Atoi(m[1])
			height, _ := strconv.Atoi(m[2])

			region, errMsg := parseRegionCounts(width, height, strings.Fields(m[3]), fmt.Sprintf("Line %d", i+1))
			if errMsg != "" {
				result.Errors = append(result.Errors, errMsg)
				continue
			}
			result.Regions = append(result.Regions, region)
			continue
		}

		result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Unrecognized syntax '%s'", i+1, line))
	}

	if len(result.Shapes) == 0 && len(result.Regions) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "File is empty")
	}
	return result
}

// isShapeRow reports whether a line consists solely of shape glyphs.
func isShapeRow(line string) bool {
	for _, ch := range line {
		if ch != '#' && ch != '.' {
			return false
		}
	}
	return true
}

// parseRegionCounts validates dimensions and count fields and builds a
// Region. Returns the region and an empty string, or an error message.
func parseRegionCounts(width, height int, fields []string, rowLabel string) (model.Region, string) {
	if width <= 0 || height <= 0 {
		return model.Region{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel)
	}

	required := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return model.Region{}, fmt.Sprintf("%s: Invalid count '%s'", rowLabel, field)
		}
		if n < 0 {
			return model.Region{}, fmt.Sprintf("%s: Counts must not be negative", rowLabel)
		}
		required[i] = n
	}
	return model.NewRegion(width, height, required), ""
}

// DetectCSVDelimiter determines the most likely CSV delimiter by
// trying comma, semicolon, tab, and pipe. The delimiter producing the
// most consistent multi-column split across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases; columns headed
// by a shape index ("0", "s1", "shape 2") become count columns in
// index order. Returns the mapping and true if a header was detected,
// or a positional mapping (width, height, then one count column per
// remaining field) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Width: -1, Height: -1}

	countCols := make(map[int]int) // shape id -> column index
	maxShape := -1
	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "width":
						if mapping.Width == -1 {
							mapping.Width = i
						}
					case "height":
						if mapping.Height == -1 {
							mapping.Height = i
						}
					}
				}
			}
		}
		if m := shapeHeaderPattern.FindStringSubmatch(normalized); m != nil && normalized != "" {
			// A bare number only counts as a header cell when some other
			// cell already looked like one; otherwise this is a data row.
			if m[1] != normalized || isHeader || hasAliasCell(row) {
				id, _ := strconv.Atoi(m[1])
				if _, dup := countCols[id]; !dup {
					countCols[id] = i
					if id > maxShape {
						maxShape = id
					}
				}
			}
		}
	}

	if !isHeader {
		mapping = ColumnMapping{Width: 0, Height: 1}
		for i := 2; i < len(row); i++ {
			mapping.Counts = append(mapping.Counts, i)
		}
		return mapping, false
	}

	mapping.Counts = make([]int, maxShape+1)
	for i := range mapping.Counts {
		mapping.Counts[i] = -1
	}
	for id, col := range countCols {
		mapping.Counts[id] = col
	}
	return mapping, true
}

// hasAliasCell reports whether any cell in the row matches a known
// width/height alias.
func hasAliasCell(row []string) bool {
	for _, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					return true
				}
			}
		}
	}
	return false
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Region from a row using the given column mapping.
// Returns the region and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Region, string) {
	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Region{}, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return model.Region{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Region{}, fmt.Sprintf("%s: Missing height value", rowLabel)
	}
	height, err := strconv.Atoi(heightStr)
	if err != nil {
		return model.Region{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr)
	}

	fields := make([]string, len(mapping.Counts))
	for i, col := range mapping.Counts {
		field := getCell(row, col)
		if field == "" {
			field = "0"
		}
		fields[i] = field
	}
	return parseRegionCounts(width, height, fields, rowLabel)
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportRegionsCSV imports regions from a CSV file. It automatically
// detects the delimiter and maps columns by header names. Supports
// comma, semicolon, tab, and pipe delimiters.
func ImportRegionsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportRegionsCSVFromReader imports regions from a CSV reader with a
// specific delimiter. Useful for testing or when the delimiter is
// already known.
func ImportRegionsCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportRegionsExcel imports regions from an Excel (.xlsx) file. Reads
// the first sheet and auto-detects column mapping from headers.
func ImportRegionsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel
// data. It detects headers, maps columns, and parses each row into
// regions.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
		if len(mapping.Counts) == 0 {
			result.Warnings = append(result.Warnings, "No shape count columns found in header")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		region, errMsg := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		result.Regions = append(result.Regions, region)
	}

	return result
}
