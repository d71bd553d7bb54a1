package services

import (
	"context"
	"errors"
	"testing"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"

	"github.com/jackc/pgx/v5"
)

// fakeSettlementBook keeps one office's book in memory and applies the
// same posting rules the SQL store applies, so the service flow can be
// exercised end to end.
type fakeSettlementBook struct {
	account   *models.BankAccount
	txns      []models.Transaction
	transfers []models.AgentTransferRecord
	refunds   []models.ClientRefundRecord
}

func (f *fakeSettlementBook) Get(ctx context.Context, officeID, id int) (*models.BankAccount, error) {
	if f.account == nil || f.account.ID != id {
		return nil, pgx.ErrNoRows
	}
	return f.account, nil
}

func (f *fakeSettlementBook) AgentPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error) {
	return nil, nil
}

func (f *fakeSettlementBook) ClientPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error) {
	return nil, nil
}

func (f *fakeSettlementBook) SettleAgent(ctx context.Context, officeID, agentID, bankAccountID, createdBy int) (*models.AgentTransferRecord, error) {
	total, count := ledger.AgentDue(f.txns, agentID)
	if count == 0 {
		return nil, ledger.ErrNothingToSettle
	}
	if err := ledger.ApplyAgentSettlement(f.account, total); err != nil {
		return nil, err
	}
	for i := range f.txns {
		t := &f.txns[i]
		if t.AgentID != nil && *t.AgentID == agentID && t.Status == models.TransactionCompleted && !t.AgentPaid {
			t.AgentPaid = true
		}
	}
	rec := models.AgentTransferRecord{
		ID:               len(f.transfers) + 1,
		OfficeID:         officeID,
		AgentID:          agentID,
		Amount:           total,
		BankAccountID:    bankAccountID,
		TransactionCount: count,
		CreatedBy:        createdBy,
	}
	f.transfers = append(f.transfers, rec)
	return &rec, nil
}

func (f *fakeSettlementBook) SettleClientRefunds(ctx context.Context, officeID, clientID, bankAccountID, createdBy int) (*models.ClientRefundRecord, error) {
	total, count := ledger.RefundDue(f.txns, clientID)
	if count == 0 {
		return nil, ledger.ErrNothingToSettle
	}
	if err := ledger.ApplyRefundSettlement(f.account, total); err != nil {
		return nil, err
	}
	for i := range f.txns {
		t := &f.txns[i]
		if t.ClientID == clientID && t.Status == models.TransactionCancelled && !t.ClientRefunded {
			t.ClientRefunded = true
		}
	}
	rec := models.ClientRefundRecord{
		ID:               len(f.refunds) + 1,
		OfficeID:         officeID,
		ClientID:         clientID,
		Amount:           total,
		BankAccountID:    bankAccountID,
		TransactionCount: count,
		CreatedBy:        createdBy,
	}
	f.refunds = append(f.refunds, rec)
	return &rec, nil
}

func (f *fakeSettlementBook) ListTransfers(ctx context.Context, officeID int) ([]models.AgentTransferRecord, error) {
	return f.transfers, nil
}

func (f *fakeSettlementBook) ListRefunds(ctx context.Context, officeID int) ([]models.ClientRefundRecord, error) {
	return f.refunds, nil
}

func agentTxn(agentID int, status models.TransactionStatus, clientPrice, agentPrice float64) models.Transaction {
	return models.Transaction{
		ClientID:      3,
		AgentID:       &agentID,
		Status:        status,
		ClientPrice:   clientPrice,
		AgentPrice:    agentPrice,
		BankAccountID: 1,
	}
}

func TestSettleAgentPaysWholeBatchExactlyOnce(t *testing.T) {
	book := &fakeSettlementBook{
		account: &models.BankAccount{ID: 1, OfficeID: 1, Balance: 1000},
		txns: []models.Transaction{
			agentTxn(7, models.TransactionCompleted, 400, 200),
			agentTxn(7, models.TransactionCompleted, 500, 300),
			agentTxn(7, models.TransactionActive, 900, 800), // not yet payable
			agentTxn(8, models.TransactionCompleted, 100, 50),
		},
	}
	svc := NewSettlementService(book, book, realtime.NewHub())
	owner := &models.User{ID: 1, Role: models.RoleGolden}

	rec, err := svc.SettleAgent(context.Background(), owner, 7, &models.SettleRequest{BankAccountID: 1})
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}
	if rec.Amount != 500 || rec.TransactionCount != 2 {
		t.Fatalf("settled %v over %d transactions, want 500 over 2", rec.Amount, rec.TransactionCount)
	}
	if book.account.Balance != 500 {
		t.Fatalf("balance = %v, want 500 after debit", book.account.Balance)
	}

	// the batch is exclusive: running it again finds nothing due
	if _, err := svc.SettleAgent(context.Background(), owner, 7, &models.SettleRequest{BankAccountID: 1}); !errors.Is(err, ledger.ErrNothingToSettle) {
		t.Fatalf("second settlement should find nothing, got %v", err)
	}
	if book.account.Balance != 500 {
		t.Fatalf("balance moved on an empty settlement: %v", book.account.Balance)
	}
}

func TestSettleAgentAllOrNothingOnInsufficientFunds(t *testing.T) {
	book := &fakeSettlementBook{
		account: &models.BankAccount{ID: 1, OfficeID: 1, Balance: 100},
		txns: []models.Transaction{
			agentTxn(7, models.TransactionCompleted, 400, 200),
			agentTxn(7, models.TransactionCompleted, 500, 300),
		},
	}
	svc := NewSettlementService(book, book, realtime.NewHub())
	owner := &models.User{ID: 1, Role: models.RoleGolden}

	if _, err := svc.SettleAgent(context.Background(), owner, 7, &models.SettleRequest{BankAccountID: 1}); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	for i := range book.txns {
		if book.txns[i].AgentPaid {
			t.Fatalf("transaction %d marked paid on a refused settlement", i)
		}
	}
	if book.account.Balance != 100 {
		t.Fatalf("balance moved on a refused settlement: %v", book.account.Balance)
	}
}

func TestSettleClientRefundsDrawFromPendingPoolOnly(t *testing.T) {
	cancelled := func(clientPrice float64) models.Transaction {
		return models.Transaction{
			ClientID:      3,
			Status:        models.TransactionCancelled,
			ClientPrice:   clientPrice,
			BankAccountID: 1,
		}
	}
	book := &fakeSettlementBook{
		account: &models.BankAccount{ID: 1, OfficeID: 1, Balance: 1000, PendingPool: 400},
		txns:    []models.Transaction{cancelled(150), cancelled(250)},
	}
	svc := NewSettlementService(book, book, realtime.NewHub())
	owner := &models.User{ID: 1, Role: models.RoleGolden}

	rec, err := svc.SettleClientRefunds(context.Background(), owner, 3, &models.SettleRequest{BankAccountID: 1})
	if err != nil {
		t.Fatalf("refund settlement failed: %v", err)
	}
	if rec.Amount != 400 || rec.TransactionCount != 2 {
		t.Fatalf("refunded %v over %d transactions, want 400 over 2", rec.Amount, rec.TransactionCount)
	}
	if book.account.PendingPool != 0 {
		t.Fatalf("pending pool = %v, want 0 after refund", book.account.PendingPool)
	}
	if book.account.Balance != 1000 {
		t.Fatalf("refunds draw from the pool, not the live balance, got %v", book.account.Balance)
	}

	if _, err := svc.SettleClientRefunds(context.Background(), owner, 3, &models.SettleRequest{BankAccountID: 1}); !errors.Is(err, ledger.ErrNothingToSettle) {
		t.Fatalf("second refund settlement should find nothing, got %v", err)
	}
}
