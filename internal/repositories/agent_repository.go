package repositories

import (
	"context"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentRepository struct {
	DB *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{DB: db}
}

func (r *AgentRepository) Create(ctx context.Context, a *models.Agent) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO agents(office_id, name, phone, whatsapp, created_by)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		a.OfficeID, a.Name, a.Phone, a.WhatsApp, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *AgentRepository) Get(ctx context.Context, officeID, id int) (*models.Agent, error) {
	var a models.Agent
	err := r.DB.QueryRow(ctx,
		`SELECT id, office_id, name, phone, whatsapp, created_by, created_at
         FROM agents WHERE id=$1 AND office_id=$2`, id, officeID,
	).Scan(&a.ID, &a.OfficeID, &a.Name, &a.Phone, &a.WhatsApp, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepository) List(ctx context.Context, officeID int) ([]models.Agent, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, office_id, name, phone, whatsapp, created_by, created_at
         FROM agents WHERE office_id=$1 ORDER BY name`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		var a models.Agent
		if err := rows.Scan(&a.ID, &a.OfficeID, &a.Name, &a.Phone, &a.WhatsApp, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) Update(ctx context.Context, a *models.Agent) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE agents SET name=$1, phone=$2, whatsapp=$3 WHERE id=$4 AND office_id=$5`,
		a.Name, a.Phone, a.WhatsApp, a.ID, a.OfficeID)
	return err
}

func (r *AgentRepository) Delete(ctx context.Context, officeID, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM agents WHERE id=$1 AND office_id=$2`, id, officeID)
	return err
}

func (r *AgentRepository) Count(ctx context.Context, officeID int) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM agents WHERE office_id=$1`, officeID).Scan(&n)
	return n, err
}
