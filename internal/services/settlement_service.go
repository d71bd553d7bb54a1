package services

import (
	"context"
	"fmt"

	"moaqeb-backend/internal/metrics"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
)

// SettlementStore runs the atomic settlement batches and lists the
// payables and receipts.
type SettlementStore interface {
	AgentPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error)
	ClientPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error)
	SettleAgent(ctx context.Context, officeID, agentID, bankAccountID, createdBy int) (*models.AgentTransferRecord, error)
	SettleClientRefunds(ctx context.Context, officeID, clientID, bankAccountID, createdBy int) (*models.ClientRefundRecord, error)
	ListTransfers(ctx context.Context, officeID int) ([]models.AgentTransferRecord, error)
	ListRefunds(ctx context.Context, officeID int) ([]models.ClientRefundRecord, error)
}

// AccountSource resolves a bank account of the office
type AccountSource interface {
	Get(ctx context.Context, officeID, id int) (*models.BankAccount, error)
}

type SettlementService struct {
	Repo     SettlementStore
	Accounts AccountSource
	Hub      *realtime.Hub
}

func NewSettlementService(repo SettlementStore, accounts AccountSource, hub *realtime.Hub) *SettlementService {
	return &SettlementService{Repo: repo, Accounts: accounts, Hub: hub}
}

func (s *SettlementService) AgentPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error) {
	return s.Repo.AgentPayables(ctx, officeID)
}

func (s *SettlementService) ClientPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error) {
	return s.Repo.ClientPayables(ctx, officeID)
}

// SettleAgent pays everything owed to one agent in a single batch
func (s *SettlementService) SettleAgent(ctx context.Context, user *models.User, agentID int, req *models.SettleRequest) (*models.AgentTransferRecord, error) {
	officeID := user.OfficeID()
	if _, err := s.Accounts.Get(ctx, officeID, req.BankAccountID); err != nil {
		return nil, fmt.Errorf("bank account not found")
	}

	rec, err := s.Repo.SettleAgent(ctx, officeID, agentID, req.BankAccountID, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.SettlementsTotal.WithLabelValues("agent").Inc()
	metrics.SettlementAmount.WithLabelValues("agent").Add(rec.Amount)
	s.Hub.Broadcast(officeID, "transactions", "updated")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return rec, nil
}

// SettleClientRefunds pays all refunds owed to one client out of the
// pending pool
func (s *SettlementService) SettleClientRefunds(ctx context.Context, user *models.User, clientID int, req *models.SettleRequest) (*models.ClientRefundRecord, error) {
	officeID := user.OfficeID()
	if _, err := s.Accounts.Get(ctx, officeID, req.BankAccountID); err != nil {
		return nil, fmt.Errorf("bank account not found")
	}

	rec, err := s.Repo.SettleClientRefunds(ctx, officeID, clientID, req.BankAccountID, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.SettlementsTotal.WithLabelValues("client_refund").Inc()
	metrics.SettlementAmount.WithLabelValues("client_refund").Add(rec.Amount)
	s.Hub.Broadcast(officeID, "transactions", "updated")
	s.Hub.Broadcast(officeID, "bank_accounts", "updated")
	return rec, nil
}

func (s *SettlementService) ListTransfers(ctx context.Context, officeID int) ([]models.AgentTransferRecord, error) {
	return s.Repo.ListTransfers(ctx, officeID)
}

func (s *SettlementService) ListRefunds(ctx context.Context, officeID int) ([]models.ClientRefundRecord, error) {
	return s.Repo.ListRefunds(ctx, officeID)
}
