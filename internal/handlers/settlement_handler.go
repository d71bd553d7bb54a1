package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"

	"github.com/gorilla/mux"
)

type SettlementHandler struct {
	Service *services.SettlementService
	Reports *services.ReportService
}

func NewSettlementHandler(s *services.SettlementService, reports *services.ReportService) *SettlementHandler {
	return &SettlementHandler{Service: s, Reports: reports}
}

func (h *SettlementHandler) AgentPayables(w http.ResponseWriter, r *http.Request) {
	payables, err := h.Service.AgentPayables(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payables)
}

func (h *SettlementHandler) ClientPayables(w http.ResponseWriter, r *http.Request) {
	payables, err := h.Service.ClientPayables(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payables)
}

func (h *SettlementHandler) SettleAgent(w http.ResponseWriter, r *http.Request) {
	agentID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.SettleAgent(r.Context(), currentUser(r), agentID, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *SettlementHandler) SettleClient(w http.ResponseWriter, r *http.Request) {
	clientID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.SettleClientRefunds(r.Context(), currentUser(r), clientID, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *SettlementHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.Service.ListTransfers(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

func (h *SettlementHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	refunds, err := h.Service.ListRefunds(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refunds)
}

// TransferReceipt renders a settlement receipt as PDF
func (h *SettlementHandler) TransferReceipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	transfers, err := h.Service.ListTransfers(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	for i := range transfers {
		if transfers[i].ID == id {
			data, err := h.Reports.TransferReceiptPDF(&transfers[i])
			if err != nil {
				fail(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="receipt.pdf"`)
			w.Write(data)
			return
		}
	}
	http.Error(w, "receipt not found", http.StatusNotFound)
}
