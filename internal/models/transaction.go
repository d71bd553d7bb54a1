package models

import "time"

// TransactionStatus is the lifecycle state of a client transaction
type TransactionStatus string

const (
	TransactionActive    TransactionStatus = "active"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// SelfHandledAgent is the display name used when the office handles the
// paperwork itself instead of delegating to an external agent.
const SelfHandledAgent = "إنجاز بنفسي"

// Transaction is one piece of client paperwork handled by the office.
// ClientPrice is credited to the chosen bank account at creation time
// regardless of the eventual outcome; AgentPrice is a liability settled
// later through agent settlement.
type Transaction struct {
	ID             int               `json:"id"`
	OfficeID       int               `json:"office_id"`
	SerialNo       int               `json:"serial_no"`
	Type           string            `json:"type"` // e.g. "تجديد إقامة"
	ClientID       int               `json:"client_id"`
	ClientName     string            `json:"client_name"`
	AgentID        *int              `json:"agent_id,omitempty"` // nil = self-handled
	AgentName      string            `json:"agent_name"`
	ClientPrice    float64           `json:"client_price"`
	AgentPrice     float64           `json:"agent_price"`
	BankAccountID  int               `json:"bank_account_id"`
	BankName       string            `json:"bank_name"`
	DurationDays   int               `json:"duration_days"`
	TargetDate     time.Time         `json:"target_date"`
	Status         TransactionStatus `json:"status"`
	AgentPaid      bool              `json:"agent_paid"`
	ClientRefunded bool              `json:"client_refunded"`
	CreatedBy      int               `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// SelfHandled reports whether the office did the work itself
func (t *Transaction) SelfHandled() bool {
	return t.AgentID == nil
}

// CreateTransactionRequest is the request body for creating a transaction
type CreateTransactionRequest struct {
	Type          string  `json:"type"`
	ClientID      int     `json:"client_id"`
	AgentID       *int    `json:"agent_id"`
	ClientPrice   float64 `json:"client_price"`
	AgentPrice    float64 `json:"agent_price"`
	BankAccountID int     `json:"bank_account_id"`
	DurationDays  int     `json:"duration_days"`
}

// UpdateTransactionRequest edits an active transaction. Only the fields
// that affect balance posting plus the descriptive ones are editable.
type UpdateTransactionRequest struct {
	Type          string  `json:"type"`
	AgentID       *int    `json:"agent_id"`
	ClientPrice   float64 `json:"client_price"`
	AgentPrice    float64 `json:"agent_price"`
	BankAccountID int     `json:"bank_account_id"`
	DurationDays  int     `json:"duration_days"`
}

// TransactionFilter is used for listing transactions
type TransactionFilter struct {
	Status    TransactionStatus `json:"status"`
	ClientID  int               `json:"client_id"`
	AgentID   int               `json:"agent_id"`
	StartDate *time.Time        `json:"start_date"`
	EndDate   *time.Time        `json:"end_date"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}
