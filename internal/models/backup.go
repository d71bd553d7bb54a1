package models

import "time"

// BackupVersion is bumped whenever the export envelope shape changes
const BackupVersion = 1

// OfficeBackup is the single JSON document produced by export and
// consumed by restore. Restore replaces the office's data wholesale.
type OfficeBackup struct {
	Version      int                   `json:"version"`
	OfficeID     int                   `json:"office_id"`
	ExportedAt   time.Time             `json:"exported_at"`
	Accounts     []BankAccount         `json:"accounts"`
	Transactions []Transaction         `json:"transactions"`
	Clients      []Client              `json:"clients"`
	Agents       []Agent               `json:"agents"`
	Expenses     []Expense             `json:"expenses"`
	Transfers    []AgentTransferRecord `json:"agent_transfers"`
	Refunds      []ClientRefundRecord  `json:"client_refunds"`
	Salaries     []SalaryConfig        `json:"salary_configs"`
}
