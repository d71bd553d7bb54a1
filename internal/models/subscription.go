package models

import "time"

// RequestStatus is shared by subscription and withdrawal requests
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// SubscriptionRequest asks for a golden-tier subscription. It is either
// approved manually by the platform operator or auto-approved when an
// online payment for it is captured.
type SubscriptionRequest struct {
	ID             int           `json:"id"`
	UserID         int           `json:"user_id"`
	OfficeName     string        `json:"office_name"`
	Months         int           `json:"months"`
	Amount         float64       `json:"amount"`
	Status         RequestStatus `json:"status"`
	PaymentOrderID string        `json:"payment_order_id,omitempty"` // razorpay order id when paid online
	CreatedAt      time.Time     `json:"created_at"`
	DecidedAt      *time.Time    `json:"decided_at,omitempty"`
}

// WithdrawalRequest asks to pay out accumulated affiliate balance
type WithdrawalRequest struct {
	ID        int           `json:"id"`
	UserID    int           `json:"user_id"`
	Amount    float64       `json:"amount"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`
}

// CreateSubscriptionRequest is the request body for requesting golden
type CreateSubscriptionRequest struct {
	Months int     `json:"months"`
	Amount float64 `json:"amount"`
}

// CreateWithdrawalRequest is the request body for an affiliate payout
type CreateWithdrawalRequest struct {
	Amount float64 `json:"amount"`
}
