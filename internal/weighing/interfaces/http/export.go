package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apihttp "coopweigh/internal/api/http"
	"coopweigh/internal/weighing/domain"

	"github.com/xuri/excelize/v2"
)

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	measurements, err := h.service.History(r.Context(), workerID)
	if err != nil {
		apihttp.Error(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="weighings.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"id",
		"material",
		"weight_grams",
		"weight_kg",
		"bag_filled",
		"created_at",
	})
	for i := range measurements {
		m := &measurements[i]
		_ = writer.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.MaterialName,
			strconv.FormatInt(m.Weight.Grams(), 10),
			m.Weight.String(),
			strconv.FormatBool(m.BagFilled),
			m.CreatedAt.Format(time.RFC3339),
		})
	}
	writer.Flush()
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	measurements, err := h.service.History(r.Context(), workerID)
	if err != nil {
		apihttp.Error(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	data, err := buildHistoryXLSX(measurements)
	if err != nil {
		apihttp.Error(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="weighings.xlsx"`)
	_, _ = w.Write(data)
}

func buildHistoryXLSX(measurements []domain.Measurement) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "weighings"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "ID")
	_ = f.SetCellValue(sheet, "B1", "Material")
	_ = f.SetCellValue(sheet, "C1", "Weight (g)")
	_ = f.SetCellValue(sheet, "D1", "Weight (kg)")
	_ = f.SetCellValue(sheet, "E1", "Bag filled")
	_ = f.SetCellValue(sheet, "F1", "Created at")
	for i := range measurements {
		m := &measurements[i]
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.MaterialName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Weight.Grams())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Weight.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.BagFilled)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.CreatedAt.Format(time.RFC3339))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
