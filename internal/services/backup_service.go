package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	appconfig "moaqeb-backend/internal/config"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/repositories"
	"moaqeb-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BackupService exports and restores an office's book as one JSON
// document, and ships exports to R2-compatible object storage when
// credentials are configured.
type BackupService struct {
	DB       *pgxpool.Pool
	Accounts *repositories.AccountRepository
	Txns     *repositories.TransactionRepository
	Clients  *repositories.ClientRepository
	Agents   *repositories.AgentRepository
	Expenses *repositories.ExpenseRepository
	Settle   *repositories.SettlementRepository
	Salaries *repositories.SalaryRepository
	cfg      *appconfig.Config
}

func NewBackupService(
	db *pgxpool.Pool,
	accounts *repositories.AccountRepository,
	txns *repositories.TransactionRepository,
	clients *repositories.ClientRepository,
	agents *repositories.AgentRepository,
	expenses *repositories.ExpenseRepository,
	settle *repositories.SettlementRepository,
	salaries *repositories.SalaryRepository,
	cfg *appconfig.Config,
) *BackupService {
	return &BackupService{
		DB: db, Accounts: accounts, Txns: txns, Clients: clients, Agents: agents,
		Expenses: expenses, Settle: settle, Salaries: salaries, cfg: cfg,
	}
}

// Export snapshots every collection of the office
func (s *BackupService) Export(ctx context.Context, officeID int) (*models.OfficeBackup, error) {
	b := &models.OfficeBackup{
		Version:    models.BackupVersion,
		OfficeID:   officeID,
		ExportedAt: timeutil.Now(),
	}

	var err error
	if b.Accounts, err = s.Accounts.List(ctx, officeID); err != nil {
		return nil, err
	}
	if b.Transactions, err = s.Txns.List(ctx, officeID, nil); err != nil {
		return nil, err
	}
	if b.Clients, err = s.Clients.List(ctx, officeID); err != nil {
		return nil, err
	}
	if b.Agents, err = s.Agents.List(ctx, officeID); err != nil {
		return nil, err
	}
	if b.Expenses, err = s.Expenses.List(ctx, officeID, nil); err != nil {
		return nil, err
	}
	if b.Transfers, err = s.Settle.ListTransfers(ctx, officeID); err != nil {
		return nil, err
	}
	if b.Refunds, err = s.Settle.ListRefunds(ctx, officeID); err != nil {
		return nil, err
	}
	if b.Salaries, err = s.Salaries.ListByOffice(ctx, officeID); err != nil {
		return nil, err
	}
	return b, nil
}

// Restore replaces the office's data with the backup's contents in one
// database transaction. Ids are not preserved; references are remapped
// as the rows are reinserted.
func (s *BackupService) Restore(ctx context.Context, officeID int, b *models.OfficeBackup) error {
	if b.Version != models.BackupVersion {
		return fmt.Errorf("unsupported backup version %d", b.Version)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Wipe in FK order
	for _, table := range []string{
		"client_refunds", "agent_transfers", "expenses", "salary_configs",
		"transactions", "clients", "agents", "bank_accounts",
	} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE office_id=$1`, officeID); err != nil {
			return err
		}
	}

	accountIDs := make(map[int]int, len(b.Accounts))
	for i := range b.Accounts {
		a := &b.Accounts[i]
		var newID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO bank_accounts(office_id, name, balance, pending_pool, created_at)
             VALUES($1, $2, $3, $4, $5) RETURNING id`,
			officeID, a.Name, a.Balance, a.PendingPool, a.CreatedAt).Scan(&newID); err != nil {
			return err
		}
		accountIDs[a.ID] = newID
	}

	clientIDs := make(map[int]int, len(b.Clients))
	for i := range b.Clients {
		c := &b.Clients[i]
		var newID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO clients(office_id, name, phone, whatsapp, created_by, created_at)
             VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
			officeID, c.Name, c.Phone, c.WhatsApp, c.CreatedBy, c.CreatedAt).Scan(&newID); err != nil {
			return err
		}
		clientIDs[c.ID] = newID
	}

	agentIDs := make(map[int]int, len(b.Agents))
	for i := range b.Agents {
		a := &b.Agents[i]
		var newID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO agents(office_id, name, phone, whatsapp, created_by, created_at)
             VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
			officeID, a.Name, a.Phone, a.WhatsApp, a.CreatedBy, a.CreatedAt).Scan(&newID); err != nil {
			return err
		}
		agentIDs[a.ID] = newID
	}

	for i := range b.Transactions {
		t := &b.Transactions[i]
		bankID, ok := accountIDs[t.BankAccountID]
		if !ok {
			return errors.New("backup references an unknown bank account")
		}
		clientID, ok := clientIDs[t.ClientID]
		if !ok {
			return errors.New("backup references an unknown client")
		}
		var agentID *int
		if t.AgentID != nil {
			mapped, ok := agentIDs[*t.AgentID]
			if !ok {
				return errors.New("backup references an unknown agent")
			}
			agentID = &mapped
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO transactions(office_id, serial_no, type, client_id, agent_id,
                    client_price, agent_price, bank_account_id, duration_days, target_date,
                    status, agent_paid, client_refunded, created_by, created_at, updated_at)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			officeID, t.SerialNo, t.Type, clientID, agentID,
			t.ClientPrice, t.AgentPrice, bankID, t.DurationDays, t.TargetDate,
			t.Status, t.AgentPaid, t.ClientRefunded, t.CreatedBy, t.CreatedAt, t.UpdatedAt); err != nil {
			return err
		}
	}

	for i := range b.Expenses {
		e := &b.Expenses[i]
		bankID, ok := accountIDs[e.BankAccountID]
		if !ok {
			return errors.New("backup references an unknown bank account")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO expenses(office_id, title, amount, bank_account_id, category,
                    employee_id, period_start, period_end, created_by, created_at)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			officeID, e.Title, e.Amount, bankID, e.Category,
			e.EmployeeID, e.PeriodStart, e.PeriodEnd, e.CreatedBy, e.CreatedAt); err != nil {
			return err
		}
	}

	for i := range b.Transfers {
		t := &b.Transfers[i]
		bankID, ok := accountIDs[t.BankAccountID]
		agentID, ok2 := agentIDs[t.AgentID]
		if !ok || !ok2 {
			return errors.New("backup transfer references unknown rows")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO agent_transfers(office_id, agent_id, amount, bank_account_id, transaction_count, created_by, created_at)
             VALUES($1, $2, $3, $4, $5, $6, $7)`,
			officeID, agentID, t.Amount, bankID, t.TransactionCount, t.CreatedBy, t.CreatedAt); err != nil {
			return err
		}
	}

	for i := range b.Refunds {
		rr := &b.Refunds[i]
		bankID, ok := accountIDs[rr.BankAccountID]
		clientID, ok2 := clientIDs[rr.ClientID]
		if !ok || !ok2 {
			return errors.New("backup refund references unknown rows")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO client_refunds(office_id, client_id, amount, bank_account_id, transaction_count, created_by, created_at)
             VALUES($1, $2, $3, $4, $5, $6, $7)`,
			officeID, clientID, rr.Amount, bankID, rr.TransactionCount, rr.CreatedBy, rr.CreatedAt); err != nil {
			return err
		}
	}

	for i := range b.Salaries {
		c := &b.Salaries[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO salary_configs(office_id, employee_id, start_date, type, commission_rate,
                    monthly_amount, is_locked, is_stopped, updated_at)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
             ON CONFLICT (employee_id) DO NOTHING`,
			officeID, c.EmployeeID, c.StartDate, c.Type, c.CommissionRate,
			c.MonthlyAmount, c.IsLocked, c.IsStopped, c.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// UploadToR2 ships an export to the configured object storage bucket
func (s *BackupService) UploadToR2(ctx context.Context, b *models.OfficeBackup) error {
	if !s.cfg.BackupEnabled() {
		return errors.New("backup storage is not configured")
	}

	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Backup.AccessKey, s.cfg.Backup.SecretKey, "")),
		awsconfig.WithRegion(s.cfg.Backup.Region),
	)
	if err != nil {
		return err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.Backup.Endpoint)
	})

	key := fmt.Sprintf("offices/%d/backup_%s.json", b.OfficeID, time.Now().Format("20060102_150405"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Backup.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return err
	}
	log.Printf("[Backup] uploaded %s (%d bytes)", key, len(data))
	return nil
}
