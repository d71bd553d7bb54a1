package handlers

import (
	"errors"
	"net/http"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/middleware"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/services"
	"moaqeb-backend/pkg/utils"

	"github.com/jackc/pgx/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	utils.JSON(w, status, v)
}

// fail maps domain errors onto HTTP statuses; anything unrecognized is
// reported as a 400 so callers see the message rather than a blank 500.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, services.ErrLimitReached):
		http.Error(w, "membership limit reached, upgrade to continue", http.StatusPaymentRequired)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ledger.ErrNothingToSettle),
		errors.Is(err, ledger.ErrNotEditable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// currentUser pulls the authenticated user loaded by the middleware
func currentUser(r *http.Request) *models.User {
	return middleware.CurrentUser(r)
}
