package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/malihub/mali_ledger/internal/adapters/notifier"
	"github.com/malihub/mali_ledger/internal/adapters/reference"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/core/services"
	"github.com/malihub/mali_ledger/internal/handlers"
	"github.com/malihub/mali_ledger/internal/middleware"
	"github.com/malihub/mali_ledger/internal/platform/config"
	"github.com/malihub/mali_ledger/internal/repositories/database/pgsql"
	"github.com/malihub/mali_ledger/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title MALI Ledger API
// @version 1.0
// @description Internal token ledger for the MALI services marketplace.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories share the pool and the configured lock_timeout.
	repos := pgsql.NewRepositories(dbPool, cfg.Ledger.LockTimeout)

	// Balance-changed event hook. Without Redis the ledger still works,
	// consumers just fall back to polling.
	var balanceNotifier portssvc.BalanceNotifier = notifier.NewNoopNotifier()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, balance events disabled", slog.String("error", err.Error()))
		} else {
			balanceNotifier = notifier.NewRedisNotifier(rdb)
			logger.Info("Redis connection established.")
		}
	}

	resolver := reference.NewHTTPResolver(cfg.ResolverBaseURL)

	serviceContainer := &portssvc.ServiceContainer{
		Transfer: services.NewTransferService(repos.TxManager, repos.BalanceRepo, repos.TreasuryRepo, repos.TransactionRepo, cfg.Ledger, balanceNotifier),
		Balance:  services.NewBalanceService(repos.TxManager, repos.BalanceRepo, repos.TransactionRepo),
		Escrow:   services.NewEscrowService(repos.TxManager, repos.BalanceRepo, repos.TreasuryRepo, repos.TransactionRepo, repos.EscrowRepo, resolver, cfg.Ledger, balanceNotifier),
		Treasury: services.NewTreasuryService(repos.TxManager, repos.BalanceRepo, repos.TreasuryRepo, repos.TransactionRepo, balanceNotifier),
		Audit:    services.NewAuditService(repos.BalanceRepo, repos.TreasuryRepo, cfg.Ledger),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
