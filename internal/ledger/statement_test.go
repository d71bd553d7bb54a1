package ledger

import (
	"testing"
	"time"

	"moaqeb-backend/internal/models"
)

func TestBuildStatementRunningBalance(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.May, d, 0, 0, 0, 0, time.UTC) }

	txns := []models.Transaction{
		{BankAccountID: 1, ClientPrice: 500, Type: "تجديد إقامة", ClientName: "أحمد", CreatedAt: day(1)},
		{BankAccountID: 2, ClientPrice: 999, CreatedAt: day(1)}, // other account, excluded
		{BankAccountID: 1, ClientPrice: 200, Type: "نقل كفالة", ClientName: "سالم", CreatedAt: day(4)},
	}
	expenses := []models.Expense{
		{BankAccountID: 1, Title: "إيجار المكتب", Amount: 150, CreatedAt: day(2)},
	}
	transfers := []models.AgentTransferRecord{
		{BankAccountID: 1, AgentName: "خالد", Amount: 300, CreatedAt: day(3)},
	}

	lines := BuildStatement(1, txns, expenses, transfers)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	wantRunning := []float64{500, 350, 50, 250}
	for i, want := range wantRunning {
		if lines[i].RunningBalance != want {
			t.Errorf("line %d running balance = %v, want %v", i, lines[i].RunningBalance, want)
		}
	}
	if lines[2].Kind != "agent_transfer" || lines[2].Debit != 300 {
		t.Errorf("line 2 should be the agent transfer debit: %+v", lines[2])
	}
}

func TestBuildStatementEmptyAccount(t *testing.T) {
	lines := BuildStatement(9, nil, nil, nil)
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}
