package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"

	"github.com/gorilla/mux"
)

type PartyHandler struct {
	Service *services.PartyService
}

func NewPartyHandler(s *services.PartyService) *PartyHandler {
	return &PartyHandler{Service: s}
}

func (h *PartyHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c, err := h.Service.CreateClient(r.Context(), currentUser(r), &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *PartyHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *PartyHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c, err := h.Service.UpdateClient(r.Context(), currentUser(r).OfficeID(), id, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *PartyHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Service.DeleteClient(r.Context(), currentUser(r).OfficeID(), id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PartyHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	a, err := h.Service.CreateAgent(r.Context(), currentUser(r), &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *PartyHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Service.ListAgents(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (h *PartyHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	a, err := h.Service.UpdateAgent(r.Context(), currentUser(r).OfficeID(), id, &req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *PartyHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Service.DeleteAgent(r.Context(), currentUser(r).OfficeID(), id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
