package services

import (
	"context"
	"errors"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/repositories"
)

type ExpenseService struct {
	Repo       *repositories.ExpenseRepository
	Accounts   *repositories.AccountRepository
	Membership *MembershipService
	Hub        *realtime.Hub
}

func NewExpenseService(repo *repositories.ExpenseRepository, accounts *repositories.AccountRepository, membership *MembershipService, hub *realtime.Hub) *ExpenseService {
	return &ExpenseService{Repo: repo, Accounts: accounts, Membership: membership, Hub: hub}
}

// Create records a general expense, gated by the tier ceiling. Salary
// and commission expenses are written by SalaryService, not here.
func (s *ExpenseService) Create(ctx context.Context, user *models.User, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if err := s.Membership.CheckLimit(ctx, user, FeatureExpenses); err != nil {
		return nil, err
	}

	officeID := user.OfficeID()
	if _, err := s.Accounts.Get(ctx, officeID, req.BankAccountID); err != nil {
		return nil, errors.New("bank account not found")
	}

	e := &models.Expense{
		OfficeID:      officeID,
		Title:         req.Title,
		Amount:        req.Amount,
		BankAccountID: req.BankAccountID,
		Category:      models.ExpenseGeneral,
		CreatedBy:     user.ID,
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "expenses", "created")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, officeID int, f *models.ExpenseFilter) ([]models.Expense, error) {
	return s.Repo.List(ctx, officeID, f)
}

// Delete removes an expense and refunds its amount to the bank account
func (s *ExpenseService) Delete(ctx context.Context, officeID, id int) error {
	if err := s.Repo.Delete(ctx, officeID, id); err != nil {
		return err
	}
	s.Hub.Broadcast(officeID, "expenses", "deleted")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return nil
}
