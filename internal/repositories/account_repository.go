package repositories

import (
	"context"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	DB *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, office_id, name, balance, pending_pool, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.BankAccount, error) {
	var a models.BankAccount
	err := row.Scan(&a.ID, &a.OfficeID, &a.Name, &a.Balance, &a.PendingPool, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *models.BankAccount) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO bank_accounts(office_id, name, balance)
         VALUES($1, $2, $3)
         RETURNING id, created_at`,
		a.OfficeID, a.Name, a.Balance,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *AccountRepository) Get(ctx context.Context, officeID, id int) (*models.BankAccount, error) {
	return scanAccount(r.DB.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE id=$1 AND office_id=$2`, id, officeID))
}

func (r *AccountRepository) List(ctx context.Context, officeID int) ([]models.BankAccount, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE office_id=$1 ORDER BY created_at`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Delete(ctx context.Context, officeID, id int) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM bank_accounts WHERE id=$1 AND office_id=$2`, id, officeID)
	return err
}

// Treasury aggregates all accounts of the office into one view
func (r *AccountRepository) Treasury(ctx context.Context, officeID int) (*models.TreasurySummary, error) {
	accounts, err := r.List(ctx, officeID)
	if err != nil {
		return nil, err
	}
	summary := &models.TreasurySummary{Accounts: accounts}
	for i := range accounts {
		summary.Total += accounts[i].Balance
		summary.TotalPending += accounts[i].PendingPool
	}
	return summary, nil
}

// lockAccount reads an account row with a row lock inside tx
func lockAccount(ctx context.Context, tx pgx.Tx, officeID, id int) (*models.BankAccount, error) {
	return scanAccount(tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts
         WHERE id=$1 AND office_id=$2 FOR UPDATE`, id, officeID))
}

// applyPosting writes a signed balance/pool adjustment inside tx
func applyPosting(ctx context.Context, tx pgx.Tx, officeID int, p ledger.Posting) error {
	_, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET balance=balance+$1, pending_pool=GREATEST(pending_pool+$2, 0)
         WHERE id=$3 AND office_id=$4`,
		p.BalanceDelta, p.PendingDelta, p.AccountID, officeID)
	return err
}

// Transfer moves money between two accounts atomically. Both rows are
// locked in id order to avoid deadlocks between concurrent transfers.
func (r *AccountRepository) Transfer(ctx context.Context, officeID int, req *models.TransferRequest) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var from, to *models.BankAccount
	if req.FromAccountID < req.ToAccountID {
		if from, err = lockAccount(ctx, tx, officeID, req.FromAccountID); err != nil {
			return err
		}
		if to, err = lockAccount(ctx, tx, officeID, req.ToAccountID); err != nil {
			return err
		}
	} else {
		if to, err = lockAccount(ctx, tx, officeID, req.ToAccountID); err != nil {
			return err
		}
		if from, err = lockAccount(ctx, tx, officeID, req.FromAccountID); err != nil {
			return err
		}
	}
	if err := ledger.ApplyTransfer(from, to, req.Amount); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET balance=$1 WHERE id=$2`, from.Balance, from.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET balance=$1 WHERE id=$2`, to.Balance, to.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
