package services

import (
	"context"
	"errors"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/repositories"
)

type TransactionService struct {
	Repo       *repositories.TransactionRepository
	Clients    *repositories.ClientRepository
	Agents     *repositories.AgentRepository
	Accounts   *repositories.AccountRepository
	Membership *MembershipService
	Hub        *realtime.Hub
}

func NewTransactionService(
	repo *repositories.TransactionRepository,
	clients *repositories.ClientRepository,
	agents *repositories.AgentRepository,
	accounts *repositories.AccountRepository,
	membership *MembershipService,
	hub *realtime.Hub,
) *TransactionService {
	return &TransactionService{
		Repo: repo, Clients: clients, Agents: agents, Accounts: accounts,
		Membership: membership, Hub: hub,
	}
}

// Create validates ownership of the referenced rows, applies the tier
// gate and posts the new transaction.
func (s *TransactionService) Create(ctx context.Context, user *models.User, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if req.Type == "" {
		return nil, errors.New("transaction type is required")
	}
	if req.ClientPrice <= 0 {
		return nil, errors.New("client price must be positive")
	}
	if req.AgentPrice < 0 {
		return nil, errors.New("agent price cannot be negative")
	}
	if req.AgentID != nil && req.AgentPrice <= 0 {
		return nil, errors.New("agent price is required when an agent is assigned")
	}

	if err := s.Membership.CheckLimit(ctx, user, FeatureTransactions); err != nil {
		return nil, err
	}

	officeID := user.OfficeID()
	if _, err := s.Clients.Get(ctx, officeID, req.ClientID); err != nil {
		return nil, errors.New("client not found")
	}
	if req.AgentID != nil {
		if _, err := s.Agents.Get(ctx, officeID, *req.AgentID); err != nil {
			return nil, errors.New("agent not found")
		}
	}
	if _, err := s.Accounts.Get(ctx, officeID, req.BankAccountID); err != nil {
		return nil, errors.New("bank account not found")
	}

	t := &models.Transaction{
		OfficeID:      officeID,
		Type:          req.Type,
		ClientID:      req.ClientID,
		AgentID:       req.AgentID,
		ClientPrice:   req.ClientPrice,
		AgentPrice:    req.AgentPrice,
		BankAccountID: req.BankAccountID,
		DurationDays:  req.DurationDays,
		CreatedBy:     user.ID,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "transactions", "created")
	return s.Repo.Get(ctx, officeID, t.ID)
}

func (s *TransactionService) Get(ctx context.Context, officeID, id int) (*models.Transaction, error) {
	return s.Repo.Get(ctx, officeID, id)
}

func (s *TransactionService) List(ctx context.Context, officeID int, f *models.TransactionFilter) ([]models.Transaction, error) {
	return s.Repo.List(ctx, officeID, f)
}

func (s *TransactionService) Update(ctx context.Context, user *models.User, id int, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	if req.ClientPrice <= 0 {
		return nil, errors.New("client price must be positive")
	}
	officeID := user.OfficeID()
	if req.AgentID != nil {
		if _, err := s.Agents.Get(ctx, officeID, *req.AgentID); err != nil {
			return nil, errors.New("agent not found")
		}
	}
	if _, err := s.Accounts.Get(ctx, officeID, req.BankAccountID); err != nil {
		return nil, errors.New("bank account not found")
	}

	if err := s.Repo.Update(ctx, officeID, id, req); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "transactions", "updated")
	return s.Repo.Get(ctx, officeID, id)
}

func (s *TransactionService) Complete(ctx context.Context, officeID, id int) error {
	if err := s.Repo.Complete(ctx, officeID, id); err != nil {
		return err
	}
	s.Hub.Broadcast(officeID, "transactions", "updated")
	return nil
}

func (s *TransactionService) Cancel(ctx context.Context, officeID, id int) error {
	if err := s.Repo.Cancel(ctx, officeID, id); err != nil {
		return err
	}
	s.Hub.Broadcast(officeID, "transactions", "updated")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, officeID, id int) error {
	if err := s.Repo.Delete(ctx, officeID, id); err != nil {
		return err
	}
	s.Hub.Broadcast(officeID, "transactions", "deleted")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return nil
}
