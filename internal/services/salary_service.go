package services

import (
	"context"
	"errors"
	"time"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/timeutil"
)

// SalaryStore persists salary configs and the payout writes that roll
// the cycle forward or stop it.
type SalaryStore interface {
	Save(ctx context.Context, c *models.SalaryConfig) error
	GetByEmployee(ctx context.Context, officeID, employeeID int) (*models.SalaryConfig, error)
	ListByOffice(ctx context.Context, officeID int) ([]models.SalaryConfig, error)
	PayMonthly(ctx context.Context, e *models.Expense, employeeID int, nextStart time.Time) error
	Stop(ctx context.Context, officeID, employeeID int, payout *models.Expense) error
}

// EmployeeSource loads users for the employee ownership check
type EmployeeSource interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// CommissionSource lists the transactions commission accrues over
type CommissionSource interface {
	ListForEmployee(ctx context.Context, officeID, employeeID int, since time.Time) ([]models.Transaction, error)
}

// ExpenseWriter records commission payouts and reports what was paid
type ExpenseWriter interface {
	Create(ctx context.Context, e *models.Expense) error
	CommissionPaid(ctx context.Context, officeID, employeeID int) (float64, error)
}

type SalaryService struct {
	Repo     SalaryStore
	Users    EmployeeSource
	Txns     CommissionSource
	Expenses ExpenseWriter
	Hub      *realtime.Hub
}

func NewSalaryService(
	repo SalaryStore,
	users EmployeeSource,
	txns CommissionSource,
	expenses ExpenseWriter,
	hub *realtime.Hub,
) *SalaryService {
	return &SalaryService{Repo: repo, Users: users, Txns: txns, Expenses: expenses, Hub: hub}
}

// employee verifies the target user is an employee of the office
func (s *SalaryService) employee(ctx context.Context, officeID, employeeID int) (*models.User, error) {
	emp, err := s.Users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, errors.New("employee not found")
	}
	if emp.Role != models.RoleEmployee || emp.ParentID == nil || *emp.ParentID != officeID {
		return nil, errors.New("employee not found")
	}
	return emp, nil
}

// SaveConfig creates or adjusts an employee's salary config. The start
// date and pay type lock on first save; only the amounts stay editable.
func (s *SalaryService) SaveConfig(ctx context.Context, user *models.User, employeeID int, req *models.SaveSalaryConfigRequest) (*models.SalaryConfig, error) {
	officeID := user.OfficeID()
	if _, err := s.employee(ctx, officeID, employeeID); err != nil {
		return nil, err
	}

	switch req.Type {
	case models.SalaryMonthly, models.SalaryCommission, models.SalaryBoth:
	default:
		return nil, errors.New("invalid salary type")
	}
	if req.Type.Monthly() && req.MonthlyAmount <= 0 {
		return nil, errors.New("monthly amount must be positive")
	}
	if req.Type.Commissioned() && (req.CommissionRate <= 0 || req.CommissionRate > 100) {
		return nil, errors.New("commission rate must be between 0 and 100")
	}

	start, err := timeutil.ParseInKSA(timeutil.DateLayout, req.StartDate)
	if err != nil {
		return nil, errors.New("invalid start date, expected YYYY-MM-DD")
	}

	cfg := &models.SalaryConfig{
		OfficeID:       officeID,
		EmployeeID:     employeeID,
		StartDate:      start,
		Type:           req.Type,
		CommissionRate: req.CommissionRate,
		MonthlyAmount:  req.MonthlyAmount,
	}
	if err := s.Repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "salary_configs", "updated")
	return cfg, nil
}

// Status computes the live pay state of one employee
func (s *SalaryService) Status(ctx context.Context, user *models.User, employeeID int) (*models.SalaryStatus, error) {
	officeID := user.OfficeID()
	cfg, err := s.Repo.GetByEmployee(ctx, officeID, employeeID)
	if err != nil {
		return nil, errors.New("no salary config for this employee")
	}

	st := &models.SalaryStatus{
		Config:         cfg,
		CycleStart:     cfg.StartDate,
		CycleEnd:       ledger.CycleEnd(cfg.StartDate),
		NextCycleStart: ledger.NextCycleStart(cfg.StartDate),
	}
	if cfg.Type.Monthly() && !cfg.IsStopped {
		st.MonthlyDue = ledger.SalaryDue(cfg.StartDate, timeutil.Now())
	}

	if cfg.Type.Commissioned() {
		txns, err := s.Txns.ListForEmployee(ctx, officeID, employeeID, time.Time{})
		if err != nil {
			return nil, err
		}
		st.AccruedCommission = ledger.AccruedCommission(txns, cfg.CommissionRate)
		st.PaidCommission, err = s.Expenses.CommissionPaid(ctx, officeID, employeeID)
		if err != nil {
			return nil, err
		}
		st.RemainingCommission = ledger.RemainingCommission(st.AccruedCommission, st.PaidCommission)
	}
	return st, nil
}

// PayMonthly pays the elapsed cycle's fixed salary and rolls the cycle
// forward. Refused while the cycle is still open.
func (s *SalaryService) PayMonthly(ctx context.Context, user *models.User, employeeID int, req *models.PaySalaryRequest) (*models.Expense, error) {
	officeID := user.OfficeID()
	emp, err := s.employee(ctx, officeID, employeeID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Repo.GetByEmployee(ctx, officeID, employeeID)
	if err != nil {
		return nil, errors.New("no salary config for this employee")
	}
	if cfg.IsStopped {
		return nil, errors.New("salary is stopped for this employee")
	}
	if !cfg.Type.Monthly() {
		return nil, errors.New("employee has no monthly salary")
	}
	if !ledger.SalaryDue(cfg.StartDate, timeutil.Now()) {
		return nil, errors.New("salary is not due yet")
	}

	cycleStart := cfg.StartDate
	cycleEnd := ledger.CycleEnd(cycleStart)
	e := &models.Expense{
		OfficeID:      officeID,
		Title:         "راتب " + emp.OfficeName,
		Amount:        cfg.MonthlyAmount,
		BankAccountID: req.BankAccountID,
		Category:      models.ExpenseSalary,
		EmployeeID:    &employeeID,
		PeriodStart:   &cycleStart,
		PeriodEnd:     &cycleEnd,
		CreatedBy:     user.ID,
	}
	if err := s.Repo.PayMonthly(ctx, e, employeeID, ledger.NextCycleStart(cycleStart)); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "expenses", "created")
	s.Hub.Broadcast(officeID, "salary_configs", "updated")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return e, nil
}

// PayCommission pays out the commission currently owed
func (s *SalaryService) PayCommission(ctx context.Context, user *models.User, employeeID int, req *models.PaySalaryRequest) (*models.Expense, error) {
	officeID := user.OfficeID()
	emp, err := s.employee(ctx, officeID, employeeID)
	if err != nil {
		return nil, err
	}
	st, err := s.Status(ctx, user, employeeID)
	if err != nil {
		return nil, err
	}
	if st.Config.IsStopped {
		return nil, errors.New("salary is stopped for this employee")
	}
	if !st.Config.Type.Commissioned() {
		return nil, errors.New("employee has no commission pay")
	}
	if st.RemainingCommission <= 0 {
		return nil, errors.New("no commission due")
	}

	now := timeutil.Now()
	cycleStart := st.Config.StartDate
	e := &models.Expense{
		OfficeID:      officeID,
		Title:         "عمولة " + emp.OfficeName,
		Amount:        st.RemainingCommission,
		BankAccountID: req.BankAccountID,
		Category:      models.ExpenseCommission,
		EmployeeID:    &employeeID,
		PeriodStart:   &cycleStart,
		PeriodEnd:     &now,
		CreatedBy:     user.ID,
	}
	if err := s.Expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "expenses", "created")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return e, nil
}

// Terminate stops the pay cycle. A monthly employee terminated before
// the cycle closes gets a pro-rated payout for the days worked. An
// employee still owed commission cannot be terminated until it is paid.
func (s *SalaryService) Terminate(ctx context.Context, user *models.User, employeeID int, req *models.PaySalaryRequest) (*models.Expense, error) {
	officeID := user.OfficeID()
	emp, err := s.employee(ctx, officeID, employeeID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Repo.GetByEmployee(ctx, officeID, employeeID)
	if err != nil {
		return nil, errors.New("no salary config for this employee")
	}
	if cfg.IsStopped {
		return nil, errors.New("salary already stopped")
	}
	if cfg.Type.Commissioned() {
		st, err := s.Status(ctx, user, employeeID)
		if err != nil {
			return nil, err
		}
		if st.RemainingCommission > 0 {
			return nil, errors.New("commission owed must be paid before termination")
		}
	}

	var payout *models.Expense
	if cfg.Type.Monthly() {
		now := timeutil.Now()
		amount := ledger.TerminationPayout(cfg.MonthlyAmount, cfg.StartDate, now)
		cycleStart := cfg.StartDate
		payout = &models.Expense{
			OfficeID:      officeID,
			Title:         "تصفية راتب " + emp.OfficeName,
			Amount:        amount,
			BankAccountID: req.BankAccountID,
			Category:      models.ExpenseSalary,
			EmployeeID:    &employeeID,
			PeriodStart:   &cycleStart,
			PeriodEnd:     &now,
			CreatedBy:     user.ID,
		}
	}
	if err := s.Repo.Stop(ctx, officeID, employeeID, payout); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "salary_configs", "updated")
	if payout != nil {
		s.Hub.Broadcast(officeID, "expenses", "created")
		s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	}
	return payout, nil
}

func (s *SalaryService) ListConfigs(ctx context.Context, officeID int) ([]models.SalaryConfig, error) {
	return s.Repo.ListByOffice(ctx, officeID)
}
