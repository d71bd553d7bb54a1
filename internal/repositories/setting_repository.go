package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingRepository stores the single platform settings row. The limit
// blocks live as JSONB so adding a tier or a ceiling needs no migration.
type SettingRepository struct {
	DB *pgxpool.Pool
}

func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{DB: db}
}

// Get returns the settings row, seeding the defaults on first call
func (r *SettingRepository) Get(ctx context.Context) (*models.OfficeSettings, error) {
	s, err := r.get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	def := models.DefaultOfficeSettings()
	if err := r.Update(ctx, def); err != nil {
		return nil, err
	}
	return r.get(ctx)
}

func (r *SettingRepository) get(ctx context.Context) (*models.OfficeSettings, error) {
	var s models.OfficeSettings
	var visitor, member, golden []byte
	err := r.DB.QueryRow(ctx,
		`SELECT id, visitor_limits, member_limits, golden_limits, affiliate_pct, updated_at
         FROM office_settings ORDER BY id LIMIT 1`,
	).Scan(&s.ID, &visitor, &member, &golden, &s.AffiliatePct, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(visitor, &s.VisitorLimits); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(member, &s.MemberLimits); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(golden, &s.GoldenLimits); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update replaces the settings row (insert on first write)
func (r *SettingRepository) Update(ctx context.Context, s *models.OfficeSettings) error {
	visitor, err := json.Marshal(s.VisitorLimits)
	if err != nil {
		return err
	}
	member, err := json.Marshal(s.MemberLimits)
	if err != nil {
		return err
	}
	golden, err := json.Marshal(s.GoldenLimits)
	if err != nil {
		return err
	}

	tag, err := r.DB.Exec(ctx,
		`UPDATE office_settings SET visitor_limits=$1, member_limits=$2, golden_limits=$3,
                affiliate_pct=$4, updated_at=NOW()`,
		visitor, member, golden, s.AffiliatePct)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		_, err = r.DB.Exec(ctx,
			`INSERT INTO office_settings(visitor_limits, member_limits, golden_limits, affiliate_pct)
             VALUES($1, $2, $3, $4)`,
			visitor, member, golden, s.AffiliatePct)
	}
	return err
}
