package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"

	"github.com/gorilla/mux"
)

type SalaryHandler struct {
	Service *services.SalaryService
}

func NewSalaryHandler(s *services.SalaryService) *SalaryHandler {
	return &SalaryHandler{Service: s}
}

func (h *SalaryHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	employeeID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.SaveSalaryConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg, err := h.Service.SaveConfig(r.Context(), currentUser(r), employeeID, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *SalaryHandler) Status(w http.ResponseWriter, r *http.Request) {
	employeeID, _ := strconv.Atoi(mux.Vars(r)["id"])
	st, err := h.Service.Status(r.Context(), currentUser(r), employeeID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *SalaryHandler) PayMonthly(w http.ResponseWriter, r *http.Request) {
	employeeID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.PaySalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := h.Service.PayMonthly(r.Context(), currentUser(r), employeeID, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *SalaryHandler) PayCommission(w http.ResponseWriter, r *http.Request) {
	employeeID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.PaySalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := h.Service.PayCommission(r.Context(), currentUser(r), employeeID, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *SalaryHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	employeeID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.PaySalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payout, err := h.Service.Terminate(r.Context(), currentUser(r), employeeID, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "terminated", "payout": payout})
}

func (h *SalaryHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Service.ListConfigs(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configs)
}
