package services

import (
	"context"
	"testing"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type fakeUserStore struct {
	deleted []int
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error { return nil }
func (f *fakeUserStore) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeUserStore) ListEmployees(ctx context.Context, officeID int) ([]*models.User, error) {
	return nil, nil
}
func (f *fakeUserStore) DeleteEmployee(ctx context.Context, officeID, employeeID int) error {
	f.deleted = append(f.deleted, employeeID)
	return nil
}
func (f *fakeUserStore) UpdatePassword(ctx context.Context, userID int, hash string) error {
	return nil
}

type fakeSalaryGuard struct{ cfg *models.SalaryConfig }

func (f *fakeSalaryGuard) GetByEmployee(ctx context.Context, officeID, employeeID int) (*models.SalaryConfig, error) {
	if f.cfg == nil {
		return nil, pgx.ErrNoRows
	}
	return f.cfg, nil
}

func TestDeleteEmployeeRefusedWhileSalaryRuns(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewUserService(store, nil, &fakeSalaryGuard{cfg: &models.SalaryConfig{EmployeeID: 9}}, nil)

	if err := svc.DeleteEmployee(context.Background(), 1, 9); err == nil {
		t.Fatal("deleting an employee with a running salary should be refused")
	}
	if len(store.deleted) != 0 {
		t.Fatalf("employee was deleted anyway: %v", store.deleted)
	}
}

func TestDeleteEmployeeAllowedOnceStopped(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewUserService(store, nil, &fakeSalaryGuard{cfg: &models.SalaryConfig{EmployeeID: 9, IsStopped: true}}, nil)

	if err := svc.DeleteEmployee(context.Background(), 1, 9); err != nil {
		t.Fatalf("stopped employee should be deletable, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 9 {
		t.Fatalf("delete not forwarded, got %v", store.deleted)
	}
}

func TestDeleteEmployeeAllowedWithoutSalaryConfig(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewUserService(store, nil, &fakeSalaryGuard{}, nil)

	if err := svc.DeleteEmployee(context.Background(), 1, 9); err != nil {
		t.Fatalf("employee without salary config should be deletable, got %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("delete not forwarded, got %v", store.deleted)
	}
}
