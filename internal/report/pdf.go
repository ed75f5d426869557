// Package report renders a finished nesting run to the output formats an
// operator takes to the shop floor: a PDF sheet-layout summary, a QR-coded
// part-label sheet, and a BOM spreadsheet. Adapted from the teacher's
// internal/export (pdf.go, labels.go), generalized from the teacher's
// axis-aligned rectangle model to this engine's arbitrary polygon model.
package report

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},
	{R: 33, G: 150, B: 243},
	{R: 255, G: 152, B: 0},
	{R: 156, G: 39, B: 176},
	{R: 0, G: 188, B: 212},
	{R: 244, G: 67, B: 54},
	{R: 255, G: 235, B: 59},
	{R: 121, G: 85, B: 72},
}

const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders a completed PlacementResult as a PDF: one page per
// used sheet showing the placed outlines, followed by a summary page.
func ExportPDF(path string, result nestmodel.PlacementResult, pool nestmodel.Pool) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, sheet := range result.Sheets {
		pdf.AddPage()
		renderSheetPage(pdf, sheet, pool, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, pool)

	return pdf.OutputFileAndClose(path)
}

func renderSheetPage(pdf *fpdf.Fpdf, sheet nestmodel.SheetResult, pool nestmodel.Pool, sheetNum int) {
	min, max := sheet.Sheet.BoundingBox()
	sheetW, sheetH := max.X-min.X, max.Y-min.Y

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d (%.1f x %.1f)", sheetNum, sheetW, sheetH)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	used := sheet.UsedArea(pool)
	total := sheet.Sheet.Area()
	efficiency := 0.0
	if total > 0 {
		efficiency = 100 * used / total
	}
	stats := fmt.Sprintf("Parts: %d | Used area: %.0f | Sheet area: %.0f | Efficiency: %.1f%%",
		len(sheet.Placements), used, total, efficiency)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := 1.0
	if sheetW > 0 && sheetH > 0 {
		scale = math.Min(drawWidth/sheetW, drawHeight/sheetH)
	}

	canvasW := sheetW * scale
	canvasH := sheetH * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range sheet.Placements {
		part, ok := pool.PartByID(p.PartID)
		if !ok {
			continue
		}
		placed := geom.Rotate(p.Rotation).ApplyPolygon(part)
		placed = geom.Translate(p.Position.X, p.Position.Y).ApplyPolygon(placed)
		drawOutline(pdf, placed, partColors[i%len(partColors)], scale, offsetX-min.X*scale, offsetY-min.Y*scale)
	}

	drawPartsLegend(pdf, sheet, pool, offsetY+canvasH+5)
}

// drawOutline renders a polygon's outer ring (and holes) as a closed
// polyline, since a placed part is rarely an axis-aligned rectangle.
func drawOutline(pdf *fpdf.Fpdf, poly geom.Polygon, col partColor, scale, offsetX, offsetY float64) {
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)

	if len(poly.Outer) < 3 {
		return
	}
	points := make([]fpdf.PointType, len(poly.Outer))
	for i, v := range poly.Outer {
		points[i] = fpdf.PointType{X: offsetX + v.X*scale, Y: offsetY + v.Y*scale}
	}
	pdf.Polygon(points, "FD")

	for _, hole := range poly.Holes {
		if len(hole) < 3 {
			continue
		}
		holePoints := make([]fpdf.PointType, len(hole))
		for i, v := range hole {
			holePoints[i] = fpdf.PointType{X: offsetX + v.X*scale, Y: offsetY + v.Y*scale}
		}
		pdf.SetFillColor(210, 180, 140)
		pdf.Polygon(holePoints, "FD")
	}
}

func drawPartsLegend(pdf *fpdf.Fpdf, sheet nestmodel.SheetResult, pool nestmodel.Pool, startY float64) {
	if len(sheet.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Parts placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range sheet.Placements {
		col := partColors[i%len(partColors)]
		part, _ := pool.PartByID(p.PartID)
		label := fmt.Sprintf("part-%d (area %.0f)", p.PartID, part.Area())
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

func renderSummaryPage(pdf *fpdf.Fpdf, result nestmodel.PlacementResult, pool nestmodel.Pool) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	totalArea := result.TotalSheetArea()
	usedArea := 0.0
	placedCount := 0
	for _, s := range result.Sheets {
		usedArea += s.UsedArea(pool)
		placedCount += len(s.Placements)
	}
	efficiency := 0.0
	if totalArea > 0 {
		efficiency = 100 * usedArea / totalArea
	}

	summaryItems := []struct{ label, value string }{
		{"Total Sheets Used", fmt.Sprintf("%d", len(result.Sheets))},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", efficiency)},
		{"Total Parts Placed", fmt.Sprintf("%d", placedCount)},
		{"Unplaced Parts", fmt.Sprintf("%d", len(result.UnplacedIDs))},
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
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 35, 40, 60}
	headers := []string{"Sheet", "Dimensions", "Parts", "Efficiency", "Used / Total Area"}

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
	for i, sheet := range result.Sheets {
		xPos = marginLeft
		min, max := sheet.Sheet.BoundingBox()
		used := sheet.UsedArea(pool)
		total := sheet.Sheet.Area()
		eff := 0.0
		if total > 0 {
			eff = 100 * used / total
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.0f x %.0f", max.X-min.X, max.Y-min.Y),
			fmt.Sprintf("%d", len(sheet.Placements)),
			fmt.Sprintf("%.1f%%", eff),
			fmt.Sprintf("%.0f / %.0f", used, total),
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
	}

	if len(result.UnplacedIDs) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Parts", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, id := range result.UnplacedIDs {
			part, _ := pool.PartByID(id)
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- part-%d: area %.0f", id, part.Area())
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by deepnest-go", "", 0, "C", false, 0, "")
}
