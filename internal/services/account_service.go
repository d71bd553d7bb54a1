package services

import (
	"context"
	"errors"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/repositories"
)

type AccountService struct {
	Repo *repositories.AccountRepository
	Hub  *realtime.Hub
}

func NewAccountService(repo *repositories.AccountRepository, hub *realtime.Hub) *AccountService {
	return &AccountService{Repo: repo, Hub: hub}
}

func (s *AccountService) Create(ctx context.Context, officeID int, req *models.CreateAccountRequest) (*models.BankAccount, error) {
	if req.Name == "" {
		return nil, errors.New("account name is required")
	}
	if req.OpeningBalance < 0 {
		return nil, errors.New("opening balance cannot be negative")
	}

	acct := &models.BankAccount{
		OfficeID: officeID,
		Name:     req.Name,
		Balance:  req.OpeningBalance,
	}
	if err := s.Repo.Create(ctx, acct); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "bank_accounts", "created")
	return acct, nil
}

func (s *AccountService) List(ctx context.Context, officeID int) ([]models.BankAccount, error) {
	return s.Repo.List(ctx, officeID)
}

func (s *AccountService) Get(ctx context.Context, officeID, id int) (*models.BankAccount, error) {
	return s.Repo.Get(ctx, officeID, id)
}

func (s *AccountService) Treasury(ctx context.Context, officeID int) (*models.TreasurySummary, error) {
	return s.Repo.Treasury(ctx, officeID)
}

func (s *AccountService) Transfer(ctx context.Context, officeID int, req *models.TransferRequest) error {
	if req.FromAccountID == req.ToAccountID {
		return errors.New("cannot transfer to the same account")
	}
	if req.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if err := s.Repo.Transfer(ctx, officeID, req); err != nil {
		return err
	}
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return nil
}

// Delete removes an empty account. Accounts holding money or an
// outstanding pending pool must be drained first.
func (s *AccountService) Delete(ctx context.Context, officeID, id int) error {
	acct, err := s.Repo.Get(ctx, officeID, id)
	if err != nil {
		return err
	}
	if acct.Balance != 0 || acct.PendingPool != 0 {
		return errors.New("account must be empty before deletion")
	}
	if err := s.Repo.Delete(ctx, officeID, id); err != nil {
		return err
	}
	s.Hub.Broadcast(officeID, "bank_accounts", "deleted")
	return nil
}
