package models

import "time"

// AgentTransferRecord is the receipt produced when the payable owed to
// an agent over his completed transactions is settled in one batch.
type AgentTransferRecord struct {
	ID               int       `json:"id"`
	OfficeID         int       `json:"office_id"`
	AgentID          int       `json:"agent_id"`
	AgentName        string    `json:"agent_name"`
	Amount           float64   `json:"amount"`
	BankAccountID    int       `json:"bank_account_id"`
	BankName         string    `json:"bank_name"`
	TransactionCount int       `json:"transaction_count"`
	CreatedBy        int       `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// ClientRefundRecord is the receipt produced when the refunds owed to a
// client over his cancelled transactions are paid out of the pending pool.
type ClientRefundRecord struct {
	ID               int       `json:"id"`
	OfficeID         int       `json:"office_id"`
	ClientID         int       `json:"client_id"`
	ClientName       string    `json:"client_name"`
	Amount           float64   `json:"amount"`
	BankAccountID    int       `json:"bank_account_id"`
	BankName         string    `json:"bank_name"`
	TransactionCount int       `json:"transaction_count"`
	CreatedBy        int       `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// SettleRequest is shared by agent and client settlement endpoints:
// which bank account the batch is paid from.
type SettleRequest struct {
	BankAccountID int `json:"bank_account_id"`
}

// PayableSummary shows what a settlement would pay before committing it
type PayableSummary struct {
	PartyID          int     `json:"party_id"`
	PartyName        string  `json:"party_name"`
	TotalDue         float64 `json:"total_due"`
	TransactionCount int     `json:"transaction_count"`
}
