package models

import "time"

// ExpenseCategory tags what an expense row pays for
type ExpenseCategory string

const (
	ExpenseGeneral    ExpenseCategory = "general"
	ExpenseSalary     ExpenseCategory = "salary"
	ExpenseCommission ExpenseCategory = "commission"
)

// Expense debits a bank account the moment it is recorded. Salary and
// commission payouts are expenses too; for those PeriodStart/PeriodEnd
// carry the salary period the payment covers.
type Expense struct {
	ID            int             `json:"id"`
	OfficeID      int             `json:"office_id"`
	Title         string          `json:"title"`
	Amount        float64         `json:"amount"`
	BankAccountID int             `json:"bank_account_id"`
	BankName      string          `json:"bank_name"`
	Category      ExpenseCategory `json:"category"`
	EmployeeID    *int            `json:"employee_id,omitempty"` // set for salary/commission payouts
	PeriodStart   *time.Time      `json:"period_start,omitempty"`
	PeriodEnd     *time.Time      `json:"period_end,omitempty"`
	CreatedBy     int             `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateExpenseRequest is the request body for recording an expense
type CreateExpenseRequest struct {
	Title         string  `json:"title"`
	Amount        float64 `json:"amount"`
	BankAccountID int     `json:"bank_account_id"`
}

// ExpenseFilter is used for listing expenses
type ExpenseFilter struct {
	Category   ExpenseCategory `json:"category"`
	EmployeeID int             `json:"employee_id"`
	StartDate  *time.Time      `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}
