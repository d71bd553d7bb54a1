package ledger

import (
	"errors"
	"testing"

	"moaqeb-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestCreationPostingCreditsClientPrice(t *testing.T) {
	p := CreationPosting(7, 500)
	if p.AccountID != 7 || p.BalanceDelta != 500 || p.PendingDelta != 0 {
		t.Fatalf("unexpected posting: %+v", p)
	}
}

func TestEditRepostingsSameBank(t *testing.T) {
	ps := EditRepostings(1, 500, 1, 650)
	if len(ps) != 1 {
		t.Fatalf("expected single net posting, got %d", len(ps))
	}
	if ps[0].AccountID != 1 || ps[0].BalanceDelta != 150 {
		t.Fatalf("unexpected posting: %+v", ps[0])
	}
}

func TestEditRepostingsSameBankSameAmountIsNoop(t *testing.T) {
	ps := EditRepostings(1, 500, 1, 500)
	if len(ps) != 1 || ps[0].BalanceDelta != 0 {
		t.Fatalf("expected zero net delta, got %+v", ps)
	}
}

func TestEditRepostingsAcrossBanks(t *testing.T) {
	ps := EditRepostings(1, 500, 2, 300)
	if len(ps) != 2 {
		t.Fatalf("expected two postings, got %d", len(ps))
	}
	if ps[0].AccountID != 1 || ps[0].BalanceDelta != -500 {
		t.Errorf("old bank not reversed: %+v", ps[0])
	}
	if ps[1].AccountID != 2 || ps[1].BalanceDelta != 300 {
		t.Errorf("new bank not credited: %+v", ps[1])
	}
}

func TestDeletionReversal(t *testing.T) {
	active := &models.Transaction{Status: models.TransactionActive, BankAccountID: 3, ClientPrice: 200}
	p, err := DeletionReversal(active)
	if err != nil {
		t.Fatalf("active delete: %v", err)
	}
	if p.BalanceDelta != -200 || p.PendingDelta != 0 {
		t.Fatalf("active reversal wrong: %+v", p)
	}

	cancelled := &models.Transaction{Status: models.TransactionCancelled, BankAccountID: 3, ClientPrice: 200}
	p, err = DeletionReversal(cancelled)
	if err != nil {
		t.Fatalf("cancelled delete: %v", err)
	}
	if p.BalanceDelta != -200 || p.PendingDelta != -200 {
		t.Fatalf("cancelled reversal must release earmark: %+v", p)
	}

	refunded := &models.Transaction{Status: models.TransactionCancelled, ClientRefunded: true, BankAccountID: 3, ClientPrice: 200}
	p, err = DeletionReversal(refunded)
	if err != nil {
		t.Fatalf("refunded delete: %v", err)
	}
	if p.PendingDelta != 0 {
		t.Fatalf("refunded transaction must not touch the pool again: %+v", p)
	}

	completed := &models.Transaction{Status: models.TransactionCompleted}
	if _, err := DeletionReversal(completed); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("completed delete should be refused, got %v", err)
	}
}

func TestAgentDueCountsOnlyUnpaidCompleted(t *testing.T) {
	txns := []models.Transaction{
		{AgentID: intPtr(5), Status: models.TransactionCompleted, AgentPrice: 300},
		{AgentID: intPtr(5), Status: models.TransactionCompleted, AgentPrice: 150, AgentPaid: true},
		{AgentID: intPtr(5), Status: models.TransactionActive, AgentPrice: 999},
		{AgentID: intPtr(5), Status: models.TransactionCancelled, AgentPrice: 999},
		{AgentID: intPtr(8), Status: models.TransactionCompleted, AgentPrice: 50},
		{AgentID: nil, Status: models.TransactionCompleted, AgentPrice: 77},
	}
	total, count := AgentDue(txns, 5)
	if total != 300 || count != 1 {
		t.Fatalf("expected 300 over 1 txn, got %v over %d", total, count)
	}
}

func TestRefundDueCountsOnlyUnrefundedCancelled(t *testing.T) {
	txns := []models.Transaction{
		{ClientID: 2, Status: models.TransactionCancelled, ClientPrice: 200},
		{ClientID: 2, Status: models.TransactionCancelled, ClientPrice: 80, ClientRefunded: true},
		{ClientID: 2, Status: models.TransactionCompleted, ClientPrice: 500},
		{ClientID: 9, Status: models.TransactionCancelled, ClientPrice: 40},
	}
	total, count := RefundDue(txns, 2)
	if total != 200 || count != 1 {
		t.Fatalf("expected 200 over 1 txn, got %v over %d", total, count)
	}
}

func TestApplyAgentSettlement(t *testing.T) {
	acct := &models.BankAccount{Balance: 500, PendingPool: 100}
	if err := ApplyAgentSettlement(acct, 300); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}
	if acct.Balance != 200 {
		t.Errorf("balance = %v, want 200", acct.Balance)
	}
	if acct.PendingPool != 0 {
		t.Errorf("pending pool must floor at 0, got %v", acct.PendingPool)
	}
}

func TestApplyAgentSettlementInsufficientFunds(t *testing.T) {
	acct := &models.BankAccount{Balance: 100}
	if err := ApplyAgentSettlement(acct, 300); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if acct.Balance != 100 {
		t.Fatalf("failed settlement must not mutate balance, got %v", acct.Balance)
	}
}

func TestApplyRefundSettlementDrawsFromPoolOnly(t *testing.T) {
	acct := &models.BankAccount{Balance: 500, PendingPool: 200}
	if err := ApplyRefundSettlement(acct, 200); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if acct.PendingPool != 0 {
		t.Errorf("pending pool = %v, want 0", acct.PendingPool)
	}
	if acct.Balance != 500 {
		t.Errorf("refund must not touch the live balance, got %v", acct.Balance)
	}
}

func TestApplyRefundSettlementRequiresPool(t *testing.T) {
	acct := &models.BankAccount{Balance: 10000, PendingPool: 50}
	if err := ApplyRefundSettlement(acct, 200); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if acct.PendingPool != 50 {
		t.Fatalf("failed refund must not mutate pool, got %v", acct.PendingPool)
	}
}

func TestApplyTransferGuard(t *testing.T) {
	from := &models.BankAccount{Balance: 100}
	to := &models.BankAccount{}
	if err := ApplyTransfer(from, to, 150); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected guard, got %v", err)
	}
	if err := ApplyTransfer(from, to, 60); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if from.Balance != 40 || to.Balance != 60 {
		t.Fatalf("transfer wrong: from=%v to=%v", from.Balance, to.Balance)
	}
}

func TestCommissionAccrual(t *testing.T) {
	txns := []models.Transaction{
		{Status: models.TransactionCompleted, ClientPrice: 500, AgentPrice: 300},
		{Status: models.TransactionCompleted, ClientPrice: 200, AgentPrice: 350}, // negative margin earns nothing
		{Status: models.TransactionActive, ClientPrice: 1000, AgentPrice: 0},
		{Status: models.TransactionCompleted, ClientPrice: 100, AgentPrice: 0},
	}
	got := AccruedCommission(txns, 10)
	if got != 30 { // (200 + 0 + 100) * 10%
		t.Fatalf("accrued = %v, want 30", got)
	}
	if rem := RemainingCommission(got, 12); rem != 18 {
		t.Errorf("remaining = %v, want 18", rem)
	}
	if rem := RemainingCommission(got, 45); rem != 0 {
		t.Errorf("remaining must floor at 0, got %v", rem)
	}
}
