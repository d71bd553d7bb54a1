package repositories

import (
	"context"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, office_name, phone, password_hash, role, parent_id,
       subscription_expiry, affiliate_balance, referred_by, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.OfficeName, &u.Phone, &u.PasswordHash, &u.Role, &u.ParentID,
		&u.SubscriptionExpiry, &u.AffiliateBalance, &u.ReferredBy, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO users(office_name, phone, password_hash, role, parent_id, referred_by)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		u.OfficeName, u.Phone, u.PasswordHash, u.Role, u.ParentID, u.ReferredBy,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone=$1`, phone))
}

// GetUserByID satisfies the middleware loader interface
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) ListEmployees(ctx context.Context, officeID int) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE parent_id=$1 ORDER BY created_at`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE parent_id IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, hash, id)
	return err
}

func (r *UserRepository) SetActive(ctx context.Context, id int, active bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	return err
}

func (r *UserRepository) DeleteEmployee(ctx context.Context, officeID, employeeID int) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM users WHERE id=$1 AND parent_id=$2 AND role='employee'`, employeeID, officeID)
	return err
}

// DowngradeExpired demotes golden accounts whose subscription has lapsed.
// Runs periodically from the server loop.
func (r *UserRepository) DowngradeExpired(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET role='member', updated_at=NOW()
         WHERE role='golden' AND subscription_expiry IS NOT NULL AND subscription_expiry < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
