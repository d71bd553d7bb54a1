package http

import (
	"moaqeb-backend/internal/auth"
	"moaqeb-backend/internal/handlers"
	"moaqeb-backend/internal/middleware"
	"moaqeb-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	partyHandler *handlers.PartyHandler,
	transactionHandler *handlers.TransactionHandler,
	expenseHandler *handlers.ExpenseHandler,
	settlementHandler *handlers.SettlementHandler,
	salaryHandler *handlers.SalaryHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	backupHandler *handlers.BackupHandler,
	reportHandler *handlers.ReportHandler,
	settingHandler *handlers.SettingHandler,
	realtimeHandler *handlers.RealtimeHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
	users middleware.UserLoader,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Public routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/webhooks/razorpay", subscriptionHandler.Webhook).Methods("POST")

	authenticate := middleware.AuthMiddleware(jwtManager, users)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authenticate)

	// Current user
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/me/password", authHandler.ChangePassword).Methods("PUT")

	// Realtime change feed
	api.HandleFunc("/ws", realtimeHandler.Subscribe).Methods("GET")

	// Bank accounts and treasury
	api.HandleFunc("/accounts", accountHandler.List).Methods("GET")
	api.HandleFunc("/accounts", accountHandler.Create).Methods("POST")
	api.HandleFunc("/accounts/transfer", accountHandler.Transfer).Methods("POST")
	api.HandleFunc("/accounts/{id:[0-9]+}", accountHandler.Delete).Methods("DELETE")
	api.HandleFunc("/accounts/{id:[0-9]+}/statement", accountHandler.Statement).Methods("GET")
	api.HandleFunc("/accounts/{id:[0-9]+}/statement.csv", accountHandler.StatementCSV).Methods("GET")
	api.HandleFunc("/treasury", accountHandler.Treasury).Methods("GET")

	// Clients and agents
	api.HandleFunc("/clients", partyHandler.ListClients).Methods("GET")
	api.HandleFunc("/clients", partyHandler.CreateClient).Methods("POST")
	api.HandleFunc("/clients/{id:[0-9]+}", partyHandler.UpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{id:[0-9]+}", partyHandler.DeleteClient).Methods("DELETE")
	api.HandleFunc("/agents", partyHandler.ListAgents).Methods("GET")
	api.HandleFunc("/agents", partyHandler.CreateAgent).Methods("POST")
	api.HandleFunc("/agents/{id:[0-9]+}", partyHandler.UpdateAgent).Methods("PUT")
	api.HandleFunc("/agents/{id:[0-9]+}", partyHandler.DeleteAgent).Methods("DELETE")

	// Transactions
	api.HandleFunc("/transactions", transactionHandler.List).Methods("GET")
	api.HandleFunc("/transactions", transactionHandler.Create).Methods("POST")
	api.HandleFunc("/transactions/{id:[0-9]+}", transactionHandler.Get).Methods("GET")
	api.HandleFunc("/transactions/{id:[0-9]+}", transactionHandler.Update).Methods("PUT")
	api.HandleFunc("/transactions/{id:[0-9]+}", transactionHandler.Delete).Methods("DELETE")
	api.HandleFunc("/transactions/{id:[0-9]+}/complete", transactionHandler.Complete).Methods("POST")
	api.HandleFunc("/transactions/{id:[0-9]+}/cancel", transactionHandler.Cancel).Methods("POST")

	// Expenses
	api.HandleFunc("/expenses", expenseHandler.List).Methods("GET")
	api.HandleFunc("/expenses", expenseHandler.Create).Methods("POST")
	api.HandleFunc("/expenses/{id:[0-9]+}", expenseHandler.Delete).Methods("DELETE")

	// Settlements
	api.HandleFunc("/settlements/agents", settlementHandler.AgentPayables).Methods("GET")
	api.HandleFunc("/settlements/agents/{id:[0-9]+}", settlementHandler.SettleAgent).Methods("POST")
	api.HandleFunc("/settlements/clients", settlementHandler.ClientPayables).Methods("GET")
	api.HandleFunc("/settlements/clients/{id:[0-9]+}", settlementHandler.SettleClient).Methods("POST")
	api.HandleFunc("/settlements/transfers", settlementHandler.ListTransfers).Methods("GET")
	api.HandleFunc("/settlements/transfers/{id:[0-9]+}/receipt.pdf", settlementHandler.TransferReceipt).Methods("GET")
	api.HandleFunc("/settlements/refunds", settlementHandler.ListRefunds).Methods("GET")

	// Employees and salaries (office owners only)
	owner := api.NewRoute().Subrouter()
	owner.Use(middleware.RequireRole(models.RoleMember, models.RoleGolden))
	owner.HandleFunc("/employees", authHandler.ListEmployees).Methods("GET")
	owner.HandleFunc("/employees", authHandler.CreateEmployee).Methods("POST")
	owner.HandleFunc("/employees/{id:[0-9]+}", authHandler.DeleteEmployee).Methods("DELETE")
	owner.HandleFunc("/salaries", salaryHandler.ListConfigs).Methods("GET")
	owner.HandleFunc("/employees/{id:[0-9]+}/salary", salaryHandler.SaveConfig).Methods("PUT")
	owner.HandleFunc("/employees/{id:[0-9]+}/salary", salaryHandler.Status).Methods("GET")
	owner.HandleFunc("/employees/{id:[0-9]+}/salary/pay", salaryHandler.PayMonthly).Methods("POST")
	owner.HandleFunc("/employees/{id:[0-9]+}/salary/commission", salaryHandler.PayCommission).Methods("POST")
	owner.HandleFunc("/employees/{id:[0-9]+}/salary/terminate", salaryHandler.Terminate).Methods("POST")

	// Subscriptions and affiliate withdrawals
	api.HandleFunc("/subscriptions", subscriptionHandler.Request).Methods("POST")
	api.HandleFunc("/withdrawals", subscriptionHandler.RequestWithdrawal).Methods("POST")

	// Settings (read for everyone, so the UI can show the caller's limits)
	api.HandleFunc("/settings", settingHandler.Get).Methods("GET")

	// Backup and reports
	api.HandleFunc("/backup/export", backupHandler.Export).Methods("GET")
	api.HandleFunc("/backup/restore", backupHandler.Restore).Methods("POST")
	api.HandleFunc("/backup/upload", backupHandler.UploadToR2).Methods("POST")
	api.HandleFunc("/reports/workbook.xlsx", reportHandler.Workbook).Methods("GET")

	// Platform administration
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", settingHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/settings", settingHandler.Update).Methods("PUT")
	admin.HandleFunc("/subscriptions", subscriptionHandler.List).Methods("GET")
	admin.HandleFunc("/subscriptions/{id:[0-9]+}/approve", subscriptionHandler.Approve).Methods("POST")
	admin.HandleFunc("/subscriptions/{id:[0-9]+}/reject", subscriptionHandler.Reject).Methods("POST")
	admin.HandleFunc("/withdrawals", subscriptionHandler.ListWithdrawals).Methods("GET")
	admin.HandleFunc("/withdrawals/{id:[0-9]+}/approve", subscriptionHandler.ApproveWithdrawal).Methods("POST")
	admin.HandleFunc("/withdrawals/{id:[0-9]+}/reject", subscriptionHandler.RejectWithdrawal).Methods("POST")
	admin.HandleFunc("/system", healthHandler.SystemStats).Methods("GET")

	return r
}
