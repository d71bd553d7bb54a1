package models

import "time"

// BankAccount holds the running balance for one payment method of an
// office (a bank or the cash drawer). PendingPool is the slice of the
// balance earmarked for client refunds on cancelled transactions; it is
// not spendable by agent settlements beyond the live balance.
type BankAccount struct {
	ID          int       `json:"id"`
	OfficeID    int       `json:"office_id"`
	Name        string    `json:"name"` // e.g. "الراجحي", "نقداً كاش"
	Balance     float64   `json:"balance"`
	PendingPool float64   `json:"pending_pool"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAccountRequest is the request body for adding a bank account
type CreateAccountRequest struct {
	Name           string  `json:"name"`
	OpeningBalance float64 `json:"opening_balance"`
}

// TransferRequest moves money between two accounts of the same office
type TransferRequest struct {
	FromAccountID int     `json:"from_account_id"`
	ToAccountID   int     `json:"to_account_id"`
	Amount        float64 `json:"amount"`
}

// TreasurySummary is the office-wide view over all bank accounts
type TreasurySummary struct {
	Total        float64       `json:"total"`
	TotalPending float64       `json:"total_pending"`
	Accounts     []BankAccount `json:"accounts"`
}
