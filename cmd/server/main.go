package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moaqeb-backend/internal/auth"
	"moaqeb-backend/internal/cache"
	"moaqeb-backend/internal/config"
	"moaqeb-backend/internal/database"
	"moaqeb-backend/internal/db"
	"moaqeb-backend/internal/handlers"
	"moaqeb-backend/internal/health"
	h "moaqeb-backend/internal/http"
	"moaqeb-backend/internal/middleware"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/repositories"
	"moaqeb-backend/internal/services"
	"moaqeb-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("[Startup] migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Startup] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	accountRepo := repositories.NewAccountRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	agentRepo := repositories.NewAgentRepository(pool)
	txRepo := repositories.NewTransactionRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	settlementRepo := repositories.NewSettlementRepository(pool)
	salaryRepo := repositories.NewSalaryRepository(pool)
	settingRepo := repositories.NewSettingRepository(pool)
	subscriptionRepo := repositories.NewSubscriptionRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	hub := realtime.NewHub()

	membership := services.NewMembershipService(settingRepo, userRepo)
	membership.Register(services.FeatureTransactions, txRepo)
	membership.Register(services.FeatureClients, clientRepo)
	membership.Register(services.FeatureAgents, agentRepo)
	membership.Register(services.FeatureExpenses, expenseRepo)

	userService := services.NewUserService(userRepo, accountRepo, salaryRepo, jwtManager)
	accountService := services.NewAccountService(accountRepo, hub)
	partyService := services.NewPartyService(clientRepo, agentRepo, membership, hub)
	txService := services.NewTransactionService(txRepo, clientRepo, agentRepo, accountRepo, membership, hub)
	expenseService := services.NewExpenseService(expenseRepo, accountRepo, membership, hub)
	settlementService := services.NewSettlementService(settlementRepo, accountRepo, hub)
	salaryService := services.NewSalaryService(salaryRepo, userRepo, txRepo, expenseRepo, hub)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, settingRepo, cfg)
	backupService := services.NewBackupService(pool, accountRepo, txRepo, clientRepo, agentRepo, expenseRepo, settlementRepo, salaryRepo, cfg)
	reportService := services.NewReportService(accountRepo, txRepo, expenseRepo, settlementRepo)

	// Handlers
	healthChecker := health.NewHealthChecker(pool)
	router := h.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewAccountHandler(accountService, reportService),
		handlers.NewPartyHandler(partyService),
		handlers.NewTransactionHandler(txService),
		handlers.NewExpenseHandler(expenseService),
		handlers.NewSettlementHandler(settlementService, reportService),
		handlers.NewSalaryHandler(salaryService),
		handlers.NewSubscriptionHandler(subscriptionService),
		handlers.NewBackupHandler(backupService),
		handlers.NewReportHandler(reportService),
		handlers.NewSettingHandler(settingRepo, userRepo),
		handlers.NewRealtimeHandler(hub),
		handlers.NewHealthHandler(healthChecker),
		jwtManager,
		userRepo,
	)

	// Expired golden subscriptions downgrade once an hour
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := userRepo.DowngradeExpired(ctx); err != nil {
				log.Printf("[Subscriptions] downgrade sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[Subscriptions] downgraded %d expired golden accounts", n)
			}
			cancel()
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS()(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[Startup] listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Startup] server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Shutdown] draining connections")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Shutdown] forced: %v", err)
	}
}
