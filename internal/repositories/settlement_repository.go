package repositories

import (
	"context"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SettlementRepository struct {
	DB *pgxpool.Pool
}

func NewSettlementRepository(db *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{DB: db}
}

// AgentPayables lists, per agent, the total owed over completed unpaid
// transactions.
func (r *SettlementRepository) AgentPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT a.id, a.name, SUM(t.agent_price), COUNT(*)
           FROM transactions t JOIN agents a ON a.id = t.agent_id
          WHERE t.office_id=$1 AND t.status='completed' AND NOT t.agent_paid
          GROUP BY a.id, a.name
          ORDER BY a.name`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayables(rows)
}

// ClientPayables lists, per client, the refunds owed over cancelled
// unrefunded transactions.
func (r *SettlementRepository) ClientPayables(ctx context.Context, officeID int) ([]models.PayableSummary, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT c.id, c.name, SUM(t.client_price), COUNT(*)
           FROM transactions t JOIN clients c ON c.id = t.client_id
          WHERE t.office_id=$1 AND t.status='cancelled' AND NOT t.client_refunded
          GROUP BY c.id, c.name
          ORDER BY c.name`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayables(rows)
}

func scanPayables(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]models.PayableSummary, error) {
	var out []models.PayableSummary
	for rows.Next() {
		var p models.PayableSummary
		if err := rows.Scan(&p.PartyID, &p.PartyName, &p.TotalDue, &p.TransactionCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SettleAgent pays everything owed to one agent in a single database
// transaction: the unpaid completed transactions are locked and summed
// server side, the bank is debited, the pending pool released, the
// transactions flagged paid and a transfer receipt written. Any failure
// rolls the whole batch back.
func (r *SettlementRepository) SettleAgent(ctx context.Context, officeID, agentID, bankAccountID, createdBy int) (*models.AgentTransferRecord, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acct, err := lockAccount(ctx, tx, officeID, bankAccountID)
	if err != nil {
		return nil, err
	}

	// Lock the batch first; aggregates cannot take row locks directly
	if _, err := tx.Exec(ctx,
		`SELECT id FROM transactions
          WHERE office_id=$1 AND agent_id=$2 AND status='completed' AND NOT agent_paid
            FOR UPDATE`, officeID, agentID); err != nil {
		return nil, err
	}
	var total float64
	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(agent_price), 0), COUNT(*)
           FROM transactions
          WHERE office_id=$1 AND agent_id=$2 AND status='completed' AND NOT agent_paid`,
		officeID, agentID).Scan(&total, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ledger.ErrNothingToSettle
	}
	if err := ledger.ApplyAgentSettlement(acct, total); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE transactions SET agent_paid=TRUE, updated_at=NOW()
          WHERE office_id=$1 AND agent_id=$2 AND status='completed' AND NOT agent_paid`,
		officeID, agentID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET balance=$1, pending_pool=$2 WHERE id=$3`,
		acct.Balance, acct.PendingPool, acct.ID); err != nil {
		return nil, err
	}

	rec := &models.AgentTransferRecord{
		OfficeID: officeID, AgentID: agentID, Amount: total,
		BankAccountID: bankAccountID, TransactionCount: count, CreatedBy: createdBy,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO agent_transfers(office_id, agent_id, amount, bank_account_id, transaction_count, created_by)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		officeID, agentID, total, bankAccountID, count, createdBy,
	).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// SettleClientRefunds pays all refunds owed to one client out of the
// bank's pending pool, all or nothing like agent settlement.
func (r *SettlementRepository) SettleClientRefunds(ctx context.Context, officeID, clientID, bankAccountID, createdBy int) (*models.ClientRefundRecord, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acct, err := lockAccount(ctx, tx, officeID, bankAccountID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`SELECT id FROM transactions
          WHERE office_id=$1 AND client_id=$2 AND status='cancelled' AND NOT client_refunded
            FOR UPDATE`, officeID, clientID); err != nil {
		return nil, err
	}
	var total float64
	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(client_price), 0), COUNT(*)
           FROM transactions
          WHERE office_id=$1 AND client_id=$2 AND status='cancelled' AND NOT client_refunded`,
		officeID, clientID).Scan(&total, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ledger.ErrNothingToSettle
	}
	if err := ledger.ApplyRefundSettlement(acct, total); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE transactions SET client_refunded=TRUE, updated_at=NOW()
          WHERE office_id=$1 AND client_id=$2 AND status='cancelled' AND NOT client_refunded`,
		officeID, clientID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET pending_pool=$1 WHERE id=$2`,
		acct.PendingPool, acct.ID); err != nil {
		return nil, err
	}

	rec := &models.ClientRefundRecord{
		OfficeID: officeID, ClientID: clientID, Amount: total,
		BankAccountID: bankAccountID, TransactionCount: count, CreatedBy: createdBy,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO client_refunds(office_id, client_id, amount, bank_account_id, transaction_count, created_by)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		officeID, clientID, total, bankAccountID, count, createdBy,
	).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListTransfers returns the agent settlement receipts of an office
func (r *SettlementRepository) ListTransfers(ctx context.Context, officeID int) ([]models.AgentTransferRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT tr.id, tr.office_id, tr.agent_id, a.name, tr.amount, tr.bank_account_id, b.name,
                tr.transaction_count, tr.created_by, tr.created_at
           FROM agent_transfers tr
           JOIN agents a ON a.id = tr.agent_id
           JOIN bank_accounts b ON b.id = tr.bank_account_id
          WHERE tr.office_id=$1 ORDER BY tr.created_at DESC`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AgentTransferRecord
	for rows.Next() {
		var t models.AgentTransferRecord
		if err := rows.Scan(&t.ID, &t.OfficeID, &t.AgentID, &t.AgentName, &t.Amount,
			&t.BankAccountID, &t.BankName, &t.TransactionCount, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListRefunds returns the client refund receipts of an office
func (r *SettlementRepository) ListRefunds(ctx context.Context, officeID int) ([]models.ClientRefundRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT cr.id, cr.office_id, cr.client_id, c.name, cr.amount, cr.bank_account_id, b.name,
                cr.transaction_count, cr.created_by, cr.created_at
           FROM client_refunds cr
           JOIN clients c ON c.id = cr.client_id
           JOIN bank_accounts b ON b.id = cr.bank_account_id
          WHERE cr.office_id=$1 ORDER BY cr.created_at DESC`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ClientRefundRecord
	for rows.Next() {
		var c models.ClientRefundRecord
		if err := rows.Scan(&c.ID, &c.OfficeID, &c.ClientID, &c.ClientName, &c.Amount,
			&c.BankAccountID, &c.BankName, &c.TransactionCount, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
