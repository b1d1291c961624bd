package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"

	_ "github.com/redmonkez12/insured-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/insured-api/internal/auth"
	"github.com/redmonkez12/insured-api/internal/config"
	"github.com/redmonkez12/insured-api/internal/database"
	httpServer "github.com/redmonkez12/insured-api/internal/http"
	"github.com/redmonkez12/insured-api/internal/insured"
	"github.com/redmonkez12/insured-api/internal/logging"
	"github.com/redmonkez12/insured-api/internal/metrics"
	"github.com/redmonkez12/insured-api/internal/password"
)

// @title           Insured API
// @version         1.0
// @description     Insured registration, credential login and self-service profile editing.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"storage", cfg.Database.Driver,
		"token_algorithm", cfg.Auth.TokenAlgorithm,
	)

	store, closeStore, err := initStore(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStore()

	m := metrics.New()

	hasher := password.NewHasher(password.Params{
		Time:    uint32(cfg.Password.Time),
		Memory:  uint32(cfg.Password.MemoryKB),
		Threads: uint8(cfg.Password.Threads),
	})
	insuredService := insured.NewService(store, hasher, logger)

	tokenService, err := auth.NewTokenService(cfg.Auth.TokenAlgorithm, cfg.Auth.TokenSigningKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	tokens := auth.NewTokenManager(tokenService, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(auth.NewService(insuredService, tokens, logger), m),
		AuthMiddleware: auth.NewMiddleware(auth.NewGateway(tokens, insuredService), m),
		Insured:        insured.NewHandler(insuredService, m),
		Metrics:        m,
	}, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initStore returns the configured insured store and a func releasing it
func initStore(cfg config.DatabaseConfig, logger *logging.Logger) (insured.Store, func(), error) {
	if cfg.Driver == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return insured.NewMemoryRepository(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.ConnectionString(), cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AutoMigrate {
		if err := database.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("database schema ensured")
	}

	return insured.NewRepository(db), closer(db, logger), nil
}

func closer(db *bun.DB, logger *logging.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
}
