package repositories

import (
	"context"
	"errors"
	"time"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlreadyDecided = errors.New("request already decided")

type SubscriptionRepository struct {
	DB *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *models.SubscriptionRequest) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO subscription_requests(user_id, months, amount, payment_order_id)
         VALUES($1, $2, $3, $4)
         RETURNING id, status, created_at`,
		s.UserID, s.Months, s.Amount, s.PaymentOrderID,
	).Scan(&s.ID, &s.Status, &s.CreatedAt)
}

func (r *SubscriptionRepository) List(ctx context.Context, status models.RequestStatus) ([]models.SubscriptionRequest, error) {
	query := `SELECT s.id, s.user_id, u.office_name, s.months, s.amount, s.status,
                     s.payment_order_id, s.created_at, s.decided_at
                FROM subscription_requests s JOIN users u ON u.id = s.user_id`
	args := []any{}
	if status != "" {
		query += ` WHERE s.status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubscriptionRequest
	for rows.Next() {
		var s models.SubscriptionRequest
		if err := rows.Scan(&s.ID, &s.UserID, &s.OfficeName, &s.Months, &s.Amount, &s.Status,
			&s.PaymentOrderID, &s.CreatedAt, &s.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByOrderID finds the pending request a captured payment belongs to
func (r *SubscriptionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.SubscriptionRequest, error) {
	var s models.SubscriptionRequest
	err := r.DB.QueryRow(ctx,
		`SELECT id, user_id, months, amount, status, payment_order_id, created_at, decided_at
         FROM subscription_requests WHERE payment_order_id=$1`, orderID,
	).Scan(&s.ID, &s.UserID, &s.Months, &s.Amount, &s.Status, &s.PaymentOrderID, &s.CreatedAt, &s.DecidedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Approve upgrades the user to golden, extends the expiry, credits the
// referrer's affiliate cut and marks the request, all atomically.
func (r *SubscriptionRepository) Approve(ctx context.Context, requestID int, affiliatePct float64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID, months int
	var amount float64
	var status models.RequestStatus
	if err := tx.QueryRow(ctx,
		`SELECT user_id, months, amount, status FROM subscription_requests
          WHERE id=$1 FOR UPDATE`, requestID,
	).Scan(&userID, &months, &amount, &status); err != nil {
		return err
	}
	if status != models.RequestPending {
		return ErrAlreadyDecided
	}

	// Extend from the current expiry when still in the future,
	// otherwise from now
	if _, err := tx.Exec(ctx,
		`UPDATE users
            SET role='golden',
                subscription_expiry = GREATEST(COALESCE(subscription_expiry, NOW()), NOW()) + make_interval(months => $1),
                updated_at=NOW()
          WHERE id=$2`, months, userID); err != nil {
		return err
	}

	var referredBy *int
	if err := tx.QueryRow(ctx,
		`SELECT referred_by FROM users WHERE id=$1`, userID).Scan(&referredBy); err != nil {
		return err
	}
	if referredBy != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET affiliate_balance = affiliate_balance + $1, updated_at=NOW() WHERE id=$2`,
			amount*affiliatePct/100, *referredBy); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE subscription_requests SET status='approved', decided_at=NOW() WHERE id=$1`,
		requestID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *SubscriptionRepository) Reject(ctx context.Context, requestID int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE subscription_requests SET status='rejected', decided_at=NOW()
          WHERE id=$1 AND status='pending'`, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func (r *SubscriptionRepository) CreateWithdrawal(ctx context.Context, w *models.WithdrawalRequest) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO withdrawal_requests(user_id, amount)
         VALUES($1, $2)
         RETURNING id, status, created_at`,
		w.UserID, w.Amount,
	).Scan(&w.ID, &w.Status, &w.CreatedAt)
}

func (r *SubscriptionRepository) ListWithdrawals(ctx context.Context, status models.RequestStatus) ([]models.WithdrawalRequest, error) {
	query := `SELECT id, user_id, amount, status, created_at, decided_at FROM withdrawal_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WithdrawalRequest
	for rows.Next() {
		var w models.WithdrawalRequest
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.CreatedAt, &w.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ApproveWithdrawal debits the affiliate balance and marks the request.
// The balance must cover the amount.
func (r *SubscriptionRepository) ApproveWithdrawal(ctx context.Context, requestID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int
	var amount float64
	var status models.RequestStatus
	if err := tx.QueryRow(ctx,
		`SELECT user_id, amount, status FROM withdrawal_requests WHERE id=$1 FOR UPDATE`,
		requestID).Scan(&userID, &amount, &status); err != nil {
		return err
	}
	if status != models.RequestPending {
		return ErrAlreadyDecided
	}

	tag, err := tx.Exec(ctx,
		`UPDATE users SET affiliate_balance = affiliate_balance - $1, updated_at=NOW()
          WHERE id=$2 AND affiliate_balance >= $1`, amount, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("affiliate balance does not cover the withdrawal")
	}

	if _, err := tx.Exec(ctx,
		`UPDATE withdrawal_requests SET status='approved', decided_at=NOW() WHERE id=$1`,
		requestID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *SubscriptionRepository) RejectWithdrawal(ctx context.Context, requestID int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE withdrawal_requests SET status='rejected', decided_at=NOW()
          WHERE id=$1 AND status='pending'`, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

// PendingSince is used by the ops dashboard to surface stuck requests
func (r *SubscriptionRepository) PendingSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscription_requests WHERE status='pending' AND created_at < $1`,
		cutoff).Scan(&n)
	return n, err
}
