package handlers

import (
	"encoding/json"
	"net/http"

	"moaqeb-backend/internal/cache"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/repositories"
)

// SettingHandler manages the platform-wide tier ceilings. Reads are
// open to any signed-in user so the UI can show the caller's limits;
// writes are admin-only (enforced in the router).
type SettingHandler struct {
	Repo  *repositories.SettingRepository
	Users *repositories.UserRepository
}

func NewSettingHandler(repo *repositories.SettingRepository, users *repositories.UserRepository) *SettingHandler {
	return &SettingHandler{Repo: repo, Users: users}
}

func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Repo.Get(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.OfficeSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Update(r.Context(), &req); err != nil {
		fail(w, err)
		return
	}
	cache.InvalidateSettings(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ListUsers gives the platform operator the top-level account list
func (h *SettingHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListAll(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
