package ledger

import (
	"sort"
	"time"

	"moaqeb-backend/internal/models"
)

// StatementLine is one row of a reconstructed bank statement
type StatementLine struct {
	Date           time.Time `json:"date"`
	Kind           string    `json:"kind"` // transaction, expense, agent_transfer
	Description    string    `json:"description"`
	Credit         float64   `json:"credit"`
	Debit          float64   `json:"debit"`
	RunningBalance float64   `json:"running_balance"`
}

// BuildStatement reconstructs the statement of one bank account from the
// rows that touched it. No balance history is persisted; the statement
// is derived at read time: transaction creations credit, expenses and
// agent transfers debit. Lines are ordered chronologically and carry a
// running balance from zero.
func BuildStatement(accountID int, txns []models.Transaction, expenses []models.Expense, transfers []models.AgentTransferRecord) []StatementLine {
	var lines []StatementLine

	for i := range txns {
		t := &txns[i]
		if t.BankAccountID != accountID {
			continue
		}
		lines = append(lines, StatementLine{
			Date:        t.CreatedAt,
			Kind:        "transaction",
			Description: t.Type + " - " + t.ClientName,
			Credit:      t.ClientPrice,
		})
	}
	for i := range expenses {
		e := &expenses[i]
		if e.BankAccountID != accountID {
			continue
		}
		lines = append(lines, StatementLine{
			Date:        e.CreatedAt,
			Kind:        "expense",
			Description: e.Title,
			Debit:       e.Amount,
		})
	}
	for i := range transfers {
		tr := &transfers[i]
		if tr.BankAccountID != accountID {
			continue
		}
		lines = append(lines, StatementLine{
			Date:        tr.CreatedAt,
			Kind:        "agent_transfer",
			Description: tr.AgentName,
			Debit:       tr.Amount,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Date.Before(lines[j].Date) })

	var running float64
	for i := range lines {
		running += lines[i].Credit - lines[i].Debit
		lines[i].RunningBalance = running
	}
	return lines
}
