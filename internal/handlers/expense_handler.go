package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"
	"moaqeb-backend/internal/timeutil"

	"github.com/gorilla/mux"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
}

func NewExpenseHandler(s *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: s}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := h.Service.Create(r.Context(), currentUser(r), &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Service.Delete(r.Context(), currentUser(r).OfficeID(), id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := &models.ExpenseFilter{
		Category: models.ExpenseCategory(q.Get("category")),
	}
	f.EmployeeID, _ = strconv.Atoi(q.Get("employee_id"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))
	if v := q.Get("from"); v != "" {
		if t, err := timeutil.ParseInKSA(timeutil.DateLayout, v); err == nil {
			f.StartDate = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := timeutil.ParseInKSA(timeutil.DateLayout, v); err == nil {
			end := t.AddDate(0, 0, 1)
			f.EndDate = &end
		}
	}

	expenses, err := h.Service.List(r.Context(), currentUser(r).OfficeID(), f)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}
