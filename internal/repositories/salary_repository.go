package repositories

import (
	"context"
	"time"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SalaryRepository struct {
	DB *pgxpool.Pool
}

func NewSalaryRepository(db *pgxpool.Pool) *SalaryRepository {
	return &SalaryRepository{DB: db}
}

const salaryColumns = `id, office_id, employee_id, start_date, type, commission_rate,
       monthly_amount, is_locked, is_stopped, updated_at`

func scanSalaryConfig(row interface{ Scan(...any) error }) (*models.SalaryConfig, error) {
	var c models.SalaryConfig
	err := row.Scan(&c.ID, &c.OfficeID, &c.EmployeeID, &c.StartDate, &c.Type, &c.CommissionRate,
		&c.MonthlyAmount, &c.IsLocked, &c.IsStopped, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save upserts a salary config. The first save locks the start date and
// type; later saves may only adjust amounts.
func (r *SalaryRepository) Save(ctx context.Context, c *models.SalaryConfig) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO salary_configs(office_id, employee_id, start_date, type, commission_rate, monthly_amount, is_locked)
         VALUES($1, $2, $3, $4, $5, $6, TRUE)
         ON CONFLICT (employee_id) DO UPDATE
            SET commission_rate=EXCLUDED.commission_rate,
                monthly_amount=EXCLUDED.monthly_amount,
                updated_at=NOW()
         RETURNING `+salaryColumns,
		c.OfficeID, c.EmployeeID, c.StartDate, c.Type, c.CommissionRate, c.MonthlyAmount,
	).Scan(&c.ID, &c.OfficeID, &c.EmployeeID, &c.StartDate, &c.Type, &c.CommissionRate,
		&c.MonthlyAmount, &c.IsLocked, &c.IsStopped, &c.UpdatedAt)
}

func (r *SalaryRepository) GetByEmployee(ctx context.Context, officeID, employeeID int) (*models.SalaryConfig, error) {
	return scanSalaryConfig(r.DB.QueryRow(ctx,
		`SELECT `+salaryColumns+` FROM salary_configs WHERE employee_id=$1 AND office_id=$2`,
		employeeID, officeID))
}

func (r *SalaryRepository) ListByOffice(ctx context.Context, officeID int) ([]models.SalaryConfig, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+salaryColumns+` FROM salary_configs WHERE office_id=$1 ORDER BY employee_id`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []models.SalaryConfig
	for rows.Next() {
		c, err := scanSalaryConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

// PayMonthly records the salary expense and rolls the pay cycle forward
// to nextStart in one database transaction.
func (r *SalaryRepository) PayMonthly(ctx context.Context, e *models.Expense, employeeID int, nextStart time.Time) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertExpense(ctx, tx, e); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE salary_configs SET start_date=$1, updated_at=NOW() WHERE employee_id=$2`,
		nextStart, employeeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Stop terminates the employee's pay cycle, optionally recording a final
// pro-rated payout expense in the same transaction.
func (r *SalaryRepository) Stop(ctx context.Context, officeID, employeeID int, payout *models.Expense) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if payout != nil {
		if err := insertExpense(ctx, tx, payout); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE salary_configs SET is_stopped=TRUE, updated_at=NOW()
          WHERE employee_id=$1 AND office_id=$2`, employeeID, officeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
