// Package ledger holds the balance reconciliation rules of the office
// book: how transactions, settlements, expenses and transfers post to
// bank-account balances and the per-bank pending pool. The SQL in the
// repositories applies these same rules inside database transactions;
// this package is the single place the arithmetic is written down.
package ledger

import (
	"errors"

	"moaqeb-backend/internal/models"
)

var (
	// ErrInsufficientFunds is returned when a debit would exceed the
	// source balance (live or pending pool, depending on the operation).
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNothingToSettle is returned when a settlement batch matches no
	// unpaid transactions.
	ErrNothingToSettle = errors.New("nothing to settle")

	// ErrNotEditable is returned when a lifecycle operation is attempted
	// on a transaction whose status does not allow it.
	ErrNotEditable = errors.New("transaction status does not allow this operation")
)

// Posting is a signed adjustment to one bank account
type Posting struct {
	AccountID    int
	BalanceDelta float64
	PendingDelta float64
}

// CreationPosting credits the client price to the chosen bank account.
// The credit happens at creation time regardless of the transaction's
// eventual fate; the agent price is a liability, not a posting.
func CreationPosting(bankAccountID int, clientPrice float64) Posting {
	return Posting{AccountID: bankAccountID, BalanceDelta: clientPrice}
}

// EditRepostings reverses the old creation posting and applies the new
// one. When the bank is unchanged the two collapse into a single net
// delta so the account is touched exactly once.
func EditRepostings(oldBankID int, oldPrice float64, newBankID int, newPrice float64) []Posting {
	if oldBankID == newBankID {
		return []Posting{{AccountID: oldBankID, BalanceDelta: newPrice - oldPrice}}
	}
	return []Posting{
		{AccountID: oldBankID, BalanceDelta: -oldPrice},
		{AccountID: newBankID, BalanceDelta: newPrice},
	}
}

// CancelEarmark moves the already-credited client price into the bank's
// pending pool. The live balance is untouched: the money still sits in
// the bank but is owed back to the client.
func CancelEarmark(bankAccountID int, clientPrice float64) Posting {
	return Posting{AccountID: bankAccountID, PendingDelta: clientPrice}
}

// DeletionReversal undoes the balance effects of a deleted transaction.
// Deletion is a true reversal, not a redaction: the creation credit is
// taken back, and a cancelled-but-unrefunded transaction also releases
// its pending-pool earmark. Completed transactions are not deletable.
func DeletionReversal(t *models.Transaction) (Posting, error) {
	switch t.Status {
	case models.TransactionActive:
		return Posting{AccountID: t.BankAccountID, BalanceDelta: -t.ClientPrice}, nil
	case models.TransactionCancelled:
		p := Posting{AccountID: t.BankAccountID, BalanceDelta: -t.ClientPrice}
		if !t.ClientRefunded {
			p.PendingDelta = -t.ClientPrice
		}
		return p, nil
	default:
		return Posting{}, ErrNotEditable
	}
}

// AgentDue sums the payable owed to an agent: agent price over completed,
// not-yet-paid transactions. Transactions belonging to other agents or
// in other states contribute nothing.
func AgentDue(txns []models.Transaction, agentID int) (total float64, count int) {
	for i := range txns {
		t := &txns[i]
		if t.AgentID == nil || *t.AgentID != agentID {
			continue
		}
		if t.Status == models.TransactionCompleted && !t.AgentPaid {
			total += t.AgentPrice
			count++
		}
	}
	return total, count
}

// RefundDue sums the refunds owed to a client: client price over
// cancelled, not-yet-refunded transactions.
func RefundDue(txns []models.Transaction, clientID int) (total float64, count int) {
	for i := range txns {
		t := &txns[i]
		if t.ClientID != clientID {
			continue
		}
		if t.Status == models.TransactionCancelled && !t.ClientRefunded {
			total += t.ClientPrice
			count++
		}
	}
	return total, count
}

// ApplyAgentSettlement debits the settled amount from the bank's live
// balance and releases the same amount from the pending pool, floored at
// zero. The bank must cover the full amount; settlement is all-or-nothing.
func ApplyAgentSettlement(acct *models.BankAccount, amount float64) error {
	if amount <= 0 {
		return ErrNothingToSettle
	}
	if acct.Balance < amount {
		return ErrInsufficientFunds
	}
	acct.Balance -= amount
	acct.PendingPool -= amount
	if acct.PendingPool < 0 {
		acct.PendingPool = 0
	}
	return nil
}

// ApplyRefundSettlement draws the refund from the pending pool, which
// must cover it in full. The live balance is not touched here: the pool
// is the earmarked slice of money already counted in the balance, and
// the spend is recorded against the earmark.
func ApplyRefundSettlement(acct *models.BankAccount, amount float64) error {
	if amount <= 0 {
		return ErrNothingToSettle
	}
	if acct.PendingPool < amount {
		return ErrInsufficientFunds
	}
	acct.PendingPool -= amount
	return nil
}

// ApplyTransfer moves money between two live balances of the same office
func ApplyTransfer(from, to *models.BankAccount, amount float64) error {
	if amount <= 0 {
		return ErrInsufficientFunds
	}
	if from.Balance < amount {
		return ErrInsufficientFunds
	}
	from.Balance -= amount
	to.Balance += amount
	return nil
}

// ApplyExpense debits an expense from the live balance, guarded
func ApplyExpense(acct *models.BankAccount, amount float64) error {
	if amount <= 0 || acct.Balance < amount {
		return ErrInsufficientFunds
	}
	acct.Balance -= amount
	return nil
}

// CommissionFor is the commission one completed transaction earns an
// employee: the office margin (never negative) times the rate percent.
func CommissionFor(clientPrice, agentPrice, ratePct float64) float64 {
	margin := clientPrice - agentPrice
	if margin < 0 {
		margin = 0
	}
	return margin * ratePct / 100
}

// AccruedCommission sums commission over an employee's completed
// transactions. Cancelled and active transactions earn nothing.
func AccruedCommission(txns []models.Transaction, ratePct float64) float64 {
	var total float64
	for i := range txns {
		t := &txns[i]
		if t.Status != models.TransactionCompleted {
			continue
		}
		total += CommissionFor(t.ClientPrice, t.AgentPrice, ratePct)
	}
	return total
}

// RemainingCommission is what is still owed after prior commission
// expenses, floored at zero so overpayment never shows as negative due.
func RemainingCommission(accrued, alreadyPaid float64) float64 {
	rem := accrued - alreadyPaid
	if rem < 0 {
		rem = 0
	}
	return rem
}
