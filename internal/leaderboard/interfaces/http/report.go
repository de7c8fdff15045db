package http

import (
	"bytes"
	"fmt"
	"time"

	"coopweigh/internal/leaderboard/application"

	"github.com/jung-kurt/gofpdf"
)

// BuildLeaderboardPDF renders a minimal PDF for the ranked top collectors.
func BuildLeaderboardPDF(entries []application.Entry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Top Collectors")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(20, 6, "Rank", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 6, "Collector", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Total Weight (kg)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Weighings", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for i, entry := range entries {
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, entry.WorkerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", entry.TotalWeightKg), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", entry.TotalWeighings), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
