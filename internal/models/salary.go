package models

import "time"

// SalaryType says how an employee is paid
type SalaryType string

const (
	SalaryMonthly    SalaryType = "monthly"
	SalaryCommission SalaryType = "commission"
	SalaryBoth       SalaryType = "both"
)

// Monthly reports whether the config includes a fixed monthly amount
func (t SalaryType) Monthly() bool { return t == SalaryMonthly || t == SalaryBoth }

// Commissioned reports whether the config includes commission pay
func (t SalaryType) Commissioned() bool { return t == SalaryCommission || t == SalaryBoth }

// SalaryConfig drives the pay cycle of one employee. StartDate is the
// start of the current cycle and rolls forward on every monthly payout.
// IsLocked freezes the config after the first save; IsStopped marks the
// employee as terminated.
type SalaryConfig struct {
	ID             int        `json:"id"`
	OfficeID       int        `json:"office_id"`
	EmployeeID     int        `json:"employee_id"`
	StartDate      time.Time  `json:"start_date"`
	Type           SalaryType `json:"type"`
	CommissionRate float64    `json:"commission_rate"` // percent
	MonthlyAmount  float64    `json:"monthly_amount"`
	IsLocked       bool       `json:"is_locked"`
	IsStopped      bool       `json:"is_stopped"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SaveSalaryConfigRequest creates or updates a salary config
type SaveSalaryConfigRequest struct {
	StartDate      string     `json:"start_date"` // YYYY-MM-DD
	Type           SalaryType `json:"type"`
	CommissionRate float64    `json:"commission_rate"`
	MonthlyAmount  float64    `json:"monthly_amount"`
}

// PaySalaryRequest pays a due salary or a termination payout from a bank
type PaySalaryRequest struct {
	BankAccountID int `json:"bank_account_id"`
}

// SalaryStatus is the computed pay state of one employee
type SalaryStatus struct {
	Config              *SalaryConfig `json:"config"`
	CycleStart          time.Time     `json:"cycle_start"`
	CycleEnd            time.Time     `json:"cycle_end"`
	NextCycleStart      time.Time     `json:"next_cycle_start"`
	MonthlyDue          bool          `json:"monthly_due"`
	AccruedCommission   float64       `json:"accrued_commission"`
	PaidCommission      float64       `json:"paid_commission"`
	RemainingCommission float64       `json:"remaining_commission"`
}
