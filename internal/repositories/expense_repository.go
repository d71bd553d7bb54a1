package repositories

import (
	"context"
	"fmt"
	"strconv"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

const expenseSelect = `SELECT e.id, e.office_id, e.title, e.amount, e.bank_account_id, b.name,
       e.category, e.employee_id, e.period_start, e.period_end, e.created_by, e.created_at
  FROM expenses e
  JOIN bank_accounts b ON b.id = e.bank_account_id`

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.OfficeID, &e.Title, &e.Amount, &e.BankAccountID, &e.BankName,
		&e.Category, &e.EmployeeID, &e.PeriodStart, &e.PeriodEnd, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create records the expense and debits the bank account atomically.
// The bank must cover the amount.
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertExpense(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// insertExpense is the shared guts of expense recording, usable inside a
// caller's transaction (salary payouts record expenses in the same tx
// that rolls the pay cycle forward).
func insertExpense(ctx context.Context, tx pgx.Tx, e *models.Expense) error {
	acct, err := lockAccount(ctx, tx, e.OfficeID, e.BankAccountID)
	if err != nil {
		return err
	}
	if err := ledger.ApplyExpense(acct, e.Amount); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO expenses(office_id, title, amount, bank_account_id, category,
                employee_id, period_start, period_end, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at`,
		e.OfficeID, e.Title, e.Amount, e.BankAccountID, e.Category,
		e.EmployeeID, e.PeriodStart, e.PeriodEnd, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE bank_accounts SET balance=$1 WHERE id=$2`, acct.Balance, acct.ID)
	return err
}

func (r *ExpenseRepository) List(ctx context.Context, officeID int, f *models.ExpenseFilter) ([]models.Expense, error) {
	query := expenseSelect + ` WHERE e.office_id=$1`
	args := []any{officeID}

	if f != nil {
		if f.Category != "" {
			args = append(args, f.Category)
			query += ` AND e.category=$` + strconv.Itoa(len(args))
		}
		if f.EmployeeID > 0 {
			args = append(args, f.EmployeeID)
			query += ` AND e.employee_id=$` + strconv.Itoa(len(args))
		}
		if f.StartDate != nil {
			args = append(args, *f.StartDate)
			query += ` AND e.created_at >= $` + strconv.Itoa(len(args))
		}
		if f.EndDate != nil {
			args = append(args, *f.EndDate)
			query += ` AND e.created_at <= $` + strconv.Itoa(len(args))
		}
	}
	query += ` ORDER BY e.created_at DESC`
	if f != nil && f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// Delete removes an expense and credits the amount back to its bank
// account in one transaction.
func (r *ExpenseRepository) Delete(ctx context.Context, officeID, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var amount float64
	var bankAccountID int
	if err := tx.QueryRow(ctx,
		`SELECT amount, bank_account_id FROM expenses
         WHERE id=$1 AND office_id=$2 FOR UPDATE`, id, officeID,
	).Scan(&amount, &bankAccountID); err != nil {
		return err
	}

	if _, err := lockAccount(ctx, tx, officeID, bankAccountID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id); err != nil {
		return err
	}
	if err := applyPosting(ctx, tx, officeID, ledger.Posting{AccountID: bankAccountID, BalanceDelta: amount}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ExpenseRepository) Count(ctx context.Context, officeID int) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE office_id=$1`, officeID).Scan(&n)
	return n, err
}

// CommissionPaid sums commission payouts already made to an employee
func (r *ExpenseRepository) CommissionPaid(ctx context.Context, officeID, employeeID int) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses
         WHERE office_id=$1 AND employee_id=$2 AND category='commission'`,
		officeID, employeeID).Scan(&total)
	return total, err
}
