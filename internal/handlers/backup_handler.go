package handlers

import (
	"encoding/json"
	"net/http"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"
)

type BackupHandler struct {
	Service *services.BackupService
}

func NewBackupHandler(s *services.BackupService) *BackupHandler {
	return &BackupHandler{Service: s}
}

// Export downloads the office's book as one JSON document
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup, err := h.Service.Export(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="office-backup.json"`)
	writeJSON(w, http.StatusOK, backup)
}

// Restore replaces the office's data with an uploaded backup
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var backup models.OfficeBackup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		http.Error(w, "Invalid backup document", http.StatusBadRequest)
		return
	}

	if err := h.Service.Restore(r.Context(), currentUser(r).OfficeID(), &backup); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// UploadToR2 exports and ships the backup to object storage
func (h *BackupHandler) UploadToR2(w http.ResponseWriter, r *http.Request) {
	backup, err := h.Service.Export(r.Context(), currentUser(r).OfficeID())
	if err != nil {
		fail(w, err)
		return
	}
	if err := h.Service.UploadToR2(r.Context(), backup); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "uploaded"})
}
