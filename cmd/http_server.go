package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
	"github.com/abhay-gupta-199/kmrl-backend/internal/auth"
	"github.com/abhay-gupta-199/kmrl-backend/internal/core/events"
	"github.com/abhay-gupta-199/kmrl-backend/internal/document"
	documentpg "github.com/abhay-gupta-199/kmrl-backend/internal/document/postgres"
	"github.com/abhay-gupta-199/kmrl-backend/internal/storage"
	"github.com/abhay-gupta-199/kmrl-backend/internal/transport/rest"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	userpg "github.com/abhay-gupta-199/kmrl-backend/internal/user/postgres"
	"github.com/abhay-gupta-199/kmrl-backend/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config          *internal.Config
	DB              *sqlx.DB
	Router          *chi.Mux
	Logger          *slog.Logger
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	DocumentHandler *document.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config.Server.AllowedOrigins,
		deps.AuthHandler,
		deps.UserHandler,
		deps.DocumentHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	fileStore, err := storage.NewLocalStore(config.Storage.UploadDir, config.Storage.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	registerAuditSubscribers(eventBus, appLogger)

	userRepo := userpg.NewUserRepository(gormDB)
	documentRepo := documentpg.NewDocumentRepository(gormDB)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(userRepo, tokenGenerator, appLogger)
	userService := user.NewService(userRepo, user.DefaultRolePolicy(), config.Security.BCryptCost, appLogger)
	documentService := document.NewService(documentRepo, userRepo, fileStore, eventBus, appLogger)

	return &Dependencies{
		Config:          config,
		DB:              db,
		Router:          chi.NewRouter(),
		Logger:          appLogger,
		AuthHandler:     auth.NewHandler(authService, config.Security.CookieSecure),
		UserHandler:     user.NewHandler(userService),
		DocumentHandler: document.NewHandler(documentService, config.Storage.MaxUploadBytes),
	}, nil
}

// registerAuditSubscribers writes an audit line for every document lifecycle
// event. Notification delivery would hang off the same subscriptions.
func registerAuditSubscribers(bus *events.EventBus, appLogger *slog.Logger) {
	bus.Subscribe(events.DocumentUploadedEvent, func(ctx context.Context, event events.Event) error {
		appLogger.Info("audit: document uploaded",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
	bus.Subscribe(events.DocumentDecidedEvent, func(ctx context.Context, event events.Event) error {
		appLogger.Info("audit: document decision recorded",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-configured connection pool so
// repositories and raw health checks share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
