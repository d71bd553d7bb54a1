package handlers

import (
	"net/http"

	"moaqeb-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// Workbook downloads the office book as an xlsx workbook
func (h *ReportHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.OfficeWorkbook(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="office-book.xlsx"`)
	w.Write(data)
}
