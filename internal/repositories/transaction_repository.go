package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// txSelect joins the display names so list responses need no extra
// round trips. A NULL agent renders as the self-handled marker.
const txSelect = `SELECT t.id, t.office_id, t.serial_no, t.type,
       t.client_id, c.name,
       t.agent_id, COALESCE(a.name, '` + "إنجاز بنفسي" + `'),
       t.client_price, t.agent_price,
       t.bank_account_id, b.name,
       t.duration_days, t.target_date, t.status, t.agent_paid, t.client_refunded,
       t.created_by, t.created_at, t.updated_at
  FROM transactions t
  JOIN clients c ON c.id = t.client_id
  LEFT JOIN agents a ON a.id = t.agent_id
  JOIN bank_accounts b ON b.id = t.bank_account_id`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.OfficeID, &t.SerialNo, &t.Type,
		&t.ClientID, &t.ClientName,
		&t.AgentID, &t.AgentName,
		&t.ClientPrice, &t.AgentPrice,
		&t.BankAccountID, &t.BankName,
		&t.DurationDays, &t.TargetDate, &t.Status, &t.AgentPaid, &t.ClientRefunded,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Get(ctx context.Context, officeID, id int) (*models.Transaction, error) {
	return scanTransaction(r.DB.QueryRow(ctx,
		txSelect+` WHERE t.id=$1 AND t.office_id=$2`, id, officeID))
}

// List returns transactions of an office, newest first, with optional
// status/party/date filters.
func (r *TransactionRepository) List(ctx context.Context, officeID int, f *models.TransactionFilter) ([]models.Transaction, error) {
	query := txSelect + ` WHERE t.office_id=$1`
	args := []any{officeID}

	if f != nil {
		if f.Status != "" {
			args = append(args, f.Status)
			query += ` AND t.status=$` + strconv.Itoa(len(args))
		}
		if f.ClientID > 0 {
			args = append(args, f.ClientID)
			query += ` AND t.client_id=$` + strconv.Itoa(len(args))
		}
		if f.AgentID > 0 {
			args = append(args, f.AgentID)
			query += ` AND t.agent_id=$` + strconv.Itoa(len(args))
		}
		if f.StartDate != nil {
			args = append(args, *f.StartDate)
			query += ` AND t.created_at >= $` + strconv.Itoa(len(args))
		}
		if f.EndDate != nil {
			args = append(args, *f.EndDate)
			query += ` AND t.created_at <= $` + strconv.Itoa(len(args))
		}
	}
	query += ` ORDER BY t.serial_no DESC`
	if f != nil && f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (r *TransactionRepository) Count(ctx context.Context, officeID int) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE office_id=$1`, officeID).Scan(&n)
	return n, err
}

// Create inserts the transaction and credits the client price to the
// chosen bank account in one database transaction. The serial number is
// per office and gap-free under the office's own users row lock, which
// every creation takes first regardless of which bank account it posts
// to. The account row alone would not do: two creations against
// different accounts of the same office would compute the same serial.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var officeRow int
	if err := tx.QueryRow(ctx,
		`SELECT id FROM users WHERE id=$1 FOR UPDATE`, t.OfficeID).Scan(&officeRow); err != nil {
		return err
	}
	if _, err := lockAccount(ctx, tx, t.OfficeID, t.BankAccountID); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(serial_no), 0) + 1 FROM transactions WHERE office_id=$1`,
		t.OfficeID).Scan(&t.SerialNo); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO transactions(office_id, serial_no, type, client_id, agent_id,
                client_price, agent_price, bank_account_id, duration_days, target_date, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW() + make_interval(days => $9), $10)
         RETURNING id, target_date, status, created_at, updated_at`,
		t.OfficeID, t.SerialNo, t.Type, t.ClientID, t.AgentID,
		t.ClientPrice, t.AgentPrice, t.BankAccountID, t.DurationDays, t.CreatedBy,
	).Scan(&t.ID, &t.TargetDate, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}

	if err := applyPosting(ctx, tx, t.OfficeID, ledger.CreationPosting(t.BankAccountID, t.ClientPrice)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockTransaction reads a transaction row with a row lock inside tx
func lockTransaction(ctx context.Context, tx pgx.Tx, officeID, id int) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.QueryRow(ctx,
		`SELECT id, office_id, serial_no, client_id, agent_id, client_price, agent_price,
                bank_account_id, status, agent_paid, client_refunded
         FROM transactions WHERE id=$1 AND office_id=$2 FOR UPDATE`, id, officeID,
	).Scan(&t.ID, &t.OfficeID, &t.SerialNo, &t.ClientID, &t.AgentID, &t.ClientPrice, &t.AgentPrice,
		&t.BankAccountID, &t.Status, &t.AgentPaid, &t.ClientRefunded)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update edits an active transaction and reposts the client price. Only
// active transactions are editable.
func (r *TransactionRepository) Update(ctx context.Context, officeID, id int, req *models.UpdateTransactionRequest) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	old, err := lockTransaction(ctx, tx, officeID, id)
	if err != nil {
		return err
	}
	if old.Status != models.TransactionActive {
		return ledger.ErrNotEditable
	}

	for _, p := range ledger.EditRepostings(old.BankAccountID, old.ClientPrice, req.BankAccountID, req.ClientPrice) {
		if err := applyPosting(ctx, tx, officeID, p); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE transactions
            SET type=$1, agent_id=$2, client_price=$3, agent_price=$4, bank_account_id=$5,
                duration_days=$6, target_date=created_at + make_interval(days => $6), updated_at=NOW()
          WHERE id=$7`,
		req.Type, req.AgentID, req.ClientPrice, req.AgentPrice, req.BankAccountID,
		req.DurationDays, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Complete marks an active transaction as done. No money moves; the
// agent price becomes payable through settlement.
func (r *TransactionRepository) Complete(ctx context.Context, officeID, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE transactions SET status='completed', updated_at=NOW()
         WHERE id=$1 AND office_id=$2 AND status='active'`, id, officeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotEditable
	}
	return nil
}

// Cancel marks an active transaction as cancelled and earmarks the
// client price in the bank's pending pool.
func (r *TransactionRepository) Cancel(ctx context.Context, officeID, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	t, err := lockTransaction(ctx, tx, officeID, id)
	if err != nil {
		return err
	}
	if t.Status != models.TransactionActive {
		return ledger.ErrNotEditable
	}

	if _, err := tx.Exec(ctx,
		`UPDATE transactions SET status='cancelled', updated_at=NOW() WHERE id=$1`, id); err != nil {
		return err
	}
	if err := applyPosting(ctx, tx, officeID, ledger.CancelEarmark(t.BankAccountID, t.ClientPrice)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes a transaction and reverses its balance effects
func (r *TransactionRepository) Delete(ctx context.Context, officeID, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	t, err := lockTransaction(ctx, tx, officeID, id)
	if err != nil {
		return err
	}
	p, err := ledger.DeletionReversal(t)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id); err != nil {
		return err
	}
	if err := applyPosting(ctx, tx, officeID, p); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListForEmployee returns completed transactions created by one employee
// since a date, for commission accrual.
func (r *TransactionRepository) ListForEmployee(ctx context.Context, officeID, employeeID int, since time.Time) ([]models.Transaction, error) {
	rows, err := r.DB.Query(ctx,
		txSelect+` WHERE t.office_id=$1 AND t.created_by=$2 AND t.created_at >= $3 ORDER BY t.created_at`,
		officeID, employeeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}
