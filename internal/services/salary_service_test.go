package services

import (
	"context"
	"testing"
	"time"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

type fakeSalaryStore struct {
	cfg     *models.SalaryConfig
	stopped bool
	payout  *models.Expense
}

func (f *fakeSalaryStore) Save(ctx context.Context, c *models.SalaryConfig) error {
	f.cfg = c
	return nil
}

func (f *fakeSalaryStore) GetByEmployee(ctx context.Context, officeID, employeeID int) (*models.SalaryConfig, error) {
	if f.cfg == nil || f.cfg.EmployeeID != employeeID {
		return nil, pgx.ErrNoRows
	}
	return f.cfg, nil
}

func (f *fakeSalaryStore) ListByOffice(ctx context.Context, officeID int) ([]models.SalaryConfig, error) {
	if f.cfg == nil {
		return nil, nil
	}
	return []models.SalaryConfig{*f.cfg}, nil
}

func (f *fakeSalaryStore) PayMonthly(ctx context.Context, e *models.Expense, employeeID int, nextStart time.Time) error {
	f.payout = e
	f.cfg.StartDate = nextStart
	return nil
}

func (f *fakeSalaryStore) Stop(ctx context.Context, officeID, employeeID int, payout *models.Expense) error {
	f.stopped = true
	f.payout = payout
	f.cfg.IsStopped = true
	return nil
}

type fakeCommissionSource struct {
	gotOfficeID   int
	gotEmployeeID int
	txns          []models.Transaction
}

func (f *fakeCommissionSource) ListForEmployee(ctx context.Context, officeID, employeeID int, since time.Time) ([]models.Transaction, error) {
	f.gotOfficeID, f.gotEmployeeID = officeID, employeeID
	return f.txns, nil
}

type fakeExpenseWriter struct {
	paid    float64
	created []*models.Expense
}

func (f *fakeExpenseWriter) Create(ctx context.Context, e *models.Expense) error {
	f.created = append(f.created, e)
	return nil
}

func (f *fakeExpenseWriter) CommissionPaid(ctx context.Context, officeID, employeeID int) (float64, error) {
	return f.paid, nil
}

func testSalaryFixture(cfg *models.SalaryConfig, txns []models.Transaction, paid float64) (*SalaryService, *fakeSalaryStore, *fakeCommissionSource, *fakeExpenseWriter, *models.User) {
	owner := &models.User{ID: 1, Role: models.RoleGolden}
	ownerID := owner.ID
	emp := &models.User{ID: 9, OfficeName: "موظف المكتب", Role: models.RoleEmployee, ParentID: &ownerID}

	store := &fakeSalaryStore{cfg: cfg}
	source := &fakeCommissionSource{txns: txns}
	expenses := &fakeExpenseWriter{paid: paid}
	svc := NewSalaryService(store, fakeUsers{emp.ID: emp}, source, expenses, realtime.NewHub())
	return svc, store, source, expenses, owner
}

func completedTxn(employeeID int, clientPrice, agentPrice float64) models.Transaction {
	return models.Transaction{
		Status:      models.TransactionCompleted,
		ClientPrice: clientPrice,
		AgentPrice:  agentPrice,
		CreatedBy:   employeeID,
	}
}

func TestTerminateRefusedWhileCommissionOwed(t *testing.T) {
	cfg := &models.SalaryConfig{
		EmployeeID:     9,
		Type:           models.SalaryCommission,
		CommissionRate: 10,
		StartDate:      timeutil.Now().AddDate(0, 0, -15),
	}
	// margin 500 at 10% leaves 50 owed
	svc, store, _, _, owner := testSalaryFixture(cfg, []models.Transaction{completedTxn(9, 1000, 500)}, 0)

	if _, err := svc.Terminate(context.Background(), owner, 9, &models.PaySalaryRequest{BankAccountID: 1}); err == nil {
		t.Fatal("termination should be refused while commission is owed")
	}
	if store.stopped {
		t.Fatal("salary config must not be stopped when termination is refused")
	}
}

func TestTerminateAllowedOnceCommissionPaid(t *testing.T) {
	cfg := &models.SalaryConfig{
		EmployeeID:     9,
		Type:           models.SalaryCommission,
		CommissionRate: 10,
		StartDate:      timeutil.Now().AddDate(0, 0, -15),
	}
	svc, store, _, _, owner := testSalaryFixture(cfg, []models.Transaction{completedTxn(9, 1000, 500)}, 50)

	payout, err := svc.Terminate(context.Background(), owner, 9, &models.PaySalaryRequest{BankAccountID: 1})
	if err != nil {
		t.Fatalf("termination with no commission owed should pass, got %v", err)
	}
	if payout != nil {
		t.Fatalf("commission-only termination pays nothing, got %+v", payout)
	}
	if !store.stopped {
		t.Fatal("salary config should be marked stopped")
	}
}

func TestTerminateMonthlyProRatesDaysWorked(t *testing.T) {
	start := timeutil.Now().AddDate(0, 0, -10)
	cfg := &models.SalaryConfig{
		EmployeeID:    9,
		Type:          models.SalaryMonthly,
		MonthlyAmount: 3000,
		StartDate:     start,
	}
	svc, store, _, _, owner := testSalaryFixture(cfg, nil, 0)

	payout, err := svc.Terminate(context.Background(), owner, 9, &models.PaySalaryRequest{BankAccountID: 1})
	if err != nil {
		t.Fatalf("monthly termination failed: %v", err)
	}
	if payout == nil {
		t.Fatal("monthly termination should produce a payout expense")
	}
	want := ledger.TerminationPayout(3000, start, timeutil.Now())
	if payout.Amount != want {
		t.Fatalf("payout = %v, want pro-rated %v", payout.Amount, want)
	}
	if payout.Category != models.ExpenseSalary {
		t.Fatalf("payout category = %q, want salary", payout.Category)
	}
	if !store.stopped {
		t.Fatal("salary config should be marked stopped")
	}
}

func TestPayCommissionRefusedWhenStopped(t *testing.T) {
	cfg := &models.SalaryConfig{
		EmployeeID:     9,
		Type:           models.SalaryCommission,
		CommissionRate: 10,
		StartDate:      timeutil.Now().AddDate(0, 0, -15),
		IsStopped:      true,
	}
	svc, _, _, expenses, owner := testSalaryFixture(cfg, []models.Transaction{completedTxn(9, 1000, 500)}, 0)

	if _, err := svc.PayCommission(context.Background(), owner, 9, &models.PaySalaryRequest{BankAccountID: 1}); err == nil {
		t.Fatal("commission payout on a stopped salary should be refused")
	}
	if len(expenses.created) != 0 {
		t.Fatalf("no expense should be written, got %d", len(expenses.created))
	}
}

// Commission accrues over the transactions the employee recorded, so the
// status query is keyed by the employee's user id, not the agent column.
func TestStatusCommissionKeyedToRecordingEmployee(t *testing.T) {
	cfg := &models.SalaryConfig{
		EmployeeID:     9,
		Type:           models.SalaryCommission,
		CommissionRate: 10,
		StartDate:      timeutil.Now().AddDate(0, 0, -15),
	}
	txns := []models.Transaction{
		completedTxn(9, 1000, 400), // margin 600 -> 60
		{Status: models.TransactionCancelled, ClientPrice: 500, CreatedBy: 9},
		completedTxn(9, 200, 300), // negative margin earns nothing
	}
	svc, _, source, _, owner := testSalaryFixture(cfg, txns, 20)

	st, err := svc.Status(context.Background(), owner, 9)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if source.gotOfficeID != 1 || source.gotEmployeeID != 9 {
		t.Fatalf("accrual queried office %d employee %d, want 1/9", source.gotOfficeID, source.gotEmployeeID)
	}
	if st.AccruedCommission != 60 {
		t.Fatalf("accrued = %v, want 60", st.AccruedCommission)
	}
	if st.RemainingCommission != 40 {
		t.Fatalf("remaining = %v, want 40", st.RemainingCommission)
	}
}

func TestPayCommissionWritesRemainingAsExpense(t *testing.T) {
	cfg := &models.SalaryConfig{
		EmployeeID:     9,
		Type:           models.SalaryCommission,
		CommissionRate: 10,
		StartDate:      timeutil.Now().AddDate(0, 0, -15),
	}
	svc, _, _, expenses, owner := testSalaryFixture(cfg, []models.Transaction{completedTxn(9, 1000, 400)}, 20)

	e, err := svc.PayCommission(context.Background(), owner, 9, &models.PaySalaryRequest{BankAccountID: 1})
	if err != nil {
		t.Fatalf("commission payout failed: %v", err)
	}
	if e.Amount != 40 {
		t.Fatalf("payout = %v, want remaining 40", e.Amount)
	}
	if e.Category != models.ExpenseCommission {
		t.Fatalf("category = %q, want commission", e.Category)
	}
	if len(expenses.created) != 1 {
		t.Fatalf("expected one expense write, got %d", len(expenses.created))
	}
}
