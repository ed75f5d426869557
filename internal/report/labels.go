package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

// LabelInfo holds the data encoded into each part label's QR code.
type LabelInfo struct {
	PartID     int     `json:"partId"`
	PartName   string  `json:"name"`
	Area       float64 `json:"area"`
	SheetIndex int     `json:"sheet"`
	Rotation   float64 `json:"rotation"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels for every placed part.
func ExportLabels(path string, result nestmodel.PlacementResult, pool nestmodel.Pool) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to generate labels for")
	}

	labels := CollectLabelInfos(result, pool)
	if len(labels) == 0 {
		return fmt.Errorf("no parts placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for part %d: %w", label.PartID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%d_%d", info.PartID, info.SheetIndex, int(info.X*1000+info.Y))
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	label := info.PartName
	if label == "" {
		label = fmt.Sprintf("part-%d", info.PartID)
	}
	if pdf.GetStringWidth(label) > textW {
		for len(label) > 0 && pdf.GetStringWidth(label+"...") > textW {
			label = label[:len(label)-1]
		}
		label += "..."
	}
	pdf.CellFormat(textW, 4.5, label, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("area %.0f", info.Area), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	sheetInfo := fmt.Sprintf("Sheet %d @ (%.0f, %.0f)", info.SheetIndex, info.X, info.Y)
	pdf.CellFormat(textW, 3, sheetInfo, "", 1, "L", false, 0, "")

	if info.Rotation != 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Rotated %.0f\xb0", info.Rotation), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a placement result,
// one entry per placed part across all sheets.
func CollectLabelInfos(result nestmodel.PlacementResult, pool nestmodel.Pool) []LabelInfo {
	var labels []LabelInfo
	for sheetIdx, sheet := range result.Sheets {
		for _, p := range sheet.Placements {
			part, _ := pool.PartByID(p.PartID)
			labels = append(labels, LabelInfo{
				PartID:     p.PartID,
				PartName:   nestmodel.DescribePart(pool.NameForID(p.PartID), p.PartID),
				Area:       part.Area(),
				SheetIndex: sheetIdx + 1,
				Rotation:   p.Rotation,
				X:          p.Position.X,
				Y:          p.Position.Y,
			})
		}
	}
	return labels
}
