// Package export renders evaluation results to shareable file formats:
// a PDF layout report with one page per region, and an XLSX summary
// workbook.
package export

import (
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"presentpack/internal/model"
)

// tileColor represents an RGB color for a placed tile.
type tileColor struct {
	R, G, B int
}

// tileColors is the palette cycled over placements on a region page.
var tileColors = []tileColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 14.0
	drawAreaTop  = marginTop + headerHeight + 10.0
	maxCellSize  = 12.0
)

// ExportPDF generates a PDF document for an evaluation run. Each
// region is rendered on its own page with a grid diagram and, when the
// search produced one, the tile layout that proves the fit. A summary
// page with per-region statistics closes the document.
func ExportPDF(path string, result model.EvalResult) error {
	if len(result.Results) == 0 {
		return fmt.Errorf("no regions to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, rr := range result.Results {
		pdf.AddPage()
		renderRegionPage(pdf, rr, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderRegionPage draws a single region result on the current PDF page.
func renderRegionPage(pdf *fpdf.Fpdf, rr model.RegionResult, pageNum int) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Region %d: %d x %d cells", pageNum, rr.Region.Width, rr.Region.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Outcome: %s | Resolved by: %s | Tiles: %d | Elapsed: %s",
		rr.Outcome, rr.ResolvedBy, rr.Region.TileCount(), rr.Elapsed.Round(100*time.Microsecond))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Cell size: fit the grid in the drawing area, capped so tiny
	// regions don't blow up to full-page cells.
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	cell := math.Min(drawWidth/float64(rr.Region.Width), drawHeight/float64(rr.Region.Height))
	cell = math.Min(cell, maxCellSize)

	canvasW := float64(rr.Region.Width) * cell
	canvasH := float64(rr.Region.Height) * cell
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Region background
	pdf.SetFillColor(250, 250, 250)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Placed tiles, one filled square per covered cell
	for i, p := range rr.Placements {
		col := tileColors[i%len(tileColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		for _, c := range p.Orientation.Cells() {
			px := offsetX + float64(p.Col+c.Col)*cell
			py := offsetY + float64(p.Row+c.Row)*cell
			pdf.Rect(px, py, cell, cell, "FD")
		}
	}

	// Grid lines over everything
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.1)
	for r := 1; r < rr.Region.Height; r++ {
		y := offsetY + float64(r)*cell
		pdf.Line(offsetX, y, offsetX+canvasW, y)
	}
	for c := 1; c < rr.Region.Width; c++ {
		x := offsetX + float64(c)*cell
		pdf.Line(x, offsetY, x, offsetY+canvasH)
	}

	drawDimensionAnnotations(pdf, rr.Region, offsetX, offsetY, canvasW, canvasH)
	drawTileLegend(pdf, rr, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height cell counts outside
// the region rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, region model.Region, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d cells", region.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d cells", region.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawTileLegend renders a compact legend of placed tiles below the grid.
func drawTileLegend(pdf *fpdf.Fpdf, rr model.RegionResult, startY float64) {
	if len(rr.Placements) == 0 {
		// Bound-resolved regions carry no layout; say so instead of
		// leaving an unexplained empty grid.
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginLeft, startY)
		note := fmt.Sprintf("No layout recorded (resolved by %s)", rr.ResolvedBy)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, note, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Tiles placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range rr.Placements {
		col := tileColors[i%len(tileColors)]
		label := fmt.Sprintf("shape %d @ (%d,%d)", p.ShapeID, p.Row, p.Col)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.EvalResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Feasibility Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Regions Evaluated", fmt.Sprintf("%d", len(result.Results))},
		{"Regions That Fit", fmt.Sprintf("%d", result.FitCount())},
		{"Undecided (budget)", fmt.Sprintf("%d", countUnknown(result))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Region Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 60, 35, 45, 35}
	headers := []string{"#", "Dimensions", "Required Tiles", "Outcome", "Resolved By", "Elapsed"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, rr := range result.Results {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d x %d", rr.Region.Width, rr.Region.Height),
			fmt.Sprintf("%d", rr.Region.TileCount()),
			rr.Outcome.String(),
			string(rr.ResolvedBy),
			rr.Elapsed.Round(100 * time.Microsecond).String(),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6

		// Keep the table on the page; the XLSX export carries the full list.
		if y > pageHeight-marginBottom-10 {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(100, 5, fmt.Sprintf("... and %d more regions", len(result.Results)-i-1), "", 0, "L", false, 0, "")
			break
		}
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PresentPack - Polyomino Packing Feasibility", "", 0, "C", false, 0, "")
}

// countUnknown returns the number of regions left undecided by the budget.
func countUnknown(result model.EvalResult) int {
	total := 0
	for _, rr := range result.Results {
		if rr.Outcome == model.Unknown {
			total++
		}
	}
	return total
}
