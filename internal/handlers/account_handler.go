package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"

	"github.com/gorilla/mux"
)

type AccountHandler struct {
	Service *services.AccountService
	Reports *services.ReportService
}

func NewAccountHandler(s *services.AccountService, reports *services.ReportService) *AccountHandler {
	return &AccountHandler{Service: s, Reports: reports}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acct, err := h.Service.Create(r.Context(), currentUser(r).OfficeID(), &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Service.List(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Treasury(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Treasury(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Transfer(r.Context(), currentUser(r).OfficeID(), &req); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Service.Delete(r.Context(), currentUser(r).OfficeID(), id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	lines, err := h.Reports.Statement(r.Context(), currentUser(r).OfficeID(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *AccountHandler) StatementCSV(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	data, err := h.Reports.StatementCSV(r.Context(), currentUser(r).OfficeID(), id)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.csv"`)
	w.Write(data)
}
