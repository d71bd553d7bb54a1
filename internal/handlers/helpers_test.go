package handlers

import (
	"net/http/httptest"
	"testing"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/services"

	"github.com/jackc/pgx/v5"
)

func TestFailStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{pgx.ErrNoRows, 404},
		{services.ErrLimitReached, 402},
		{ledger.ErrInsufficientFunds, 409},
		{ledger.ErrNothingToSettle, 409},
		{ledger.ErrNotEditable, 409},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		fail(rec, tc.err)
		if rec.Code != tc.want {
			t.Errorf("fail(%v) = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}
