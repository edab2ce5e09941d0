package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/assetinv/internal/api"
	"github.com/erazemk/assetinv/internal/auth"
	"github.com/erazemk/assetinv/internal/config"
	"github.com/erazemk/assetinv/internal/db"
	"github.com/erazemk/assetinv/internal/logging"
	"github.com/erazemk/assetinv/internal/metrics"
	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/service"
	"github.com/erazemk/assetinv/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	fs := flag.NewFlagSet("assetinv", flag.ContinueOnError)

	var envFile string
	fs.StringVar(&envFile, "env", ".env", "")
	fs.StringVar(&envFile, "e", ".env", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: assetinv [flags]

Flags:
  -e, -env <path>   dotenv file loaded before reading the environment (default: .env)
  -h, -help         show this help and exit

Configuration is read from the environment; see DB_*, LOG_*, ADMIN_*,
APP_ENV, PORT, JWT_SECRET, PASSWORD_SCHEME, TAG_PREFIX, CORS_ORIGINS,
MAX_PAGE_SIZE and METRICS_ADDR.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// INFO/WARN → stdout, ERROR → stderr, optionally mirrored to a rotated file.
	closeLog := logging.Setup(cfg.Log)

	err = run(cfg)
	if err != nil {
		slog.Error("server error", "error", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.PasswordScheme == config.PasswordMD5 {
		slog.Warn("PASSWORD_SCHEME=md5 stores unsalted MD5 digests; switch to bcrypt once legacy accounts are migrated")
	}
	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		slog.Info("closing database")
		database.Close()
	}()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database, cfg.Database.Driver); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	slog.Info("database ready", "driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwtSecret, err := resolveJWTSecret(ctx, cfg, database)
	if err != nil {
		return err
	}

	reg := metrics.New(database)
	accounts := service.NewAccountService(database, hasher, cfg.MaxPageSize)
	inventory := service.NewInventoryService(database, cfg.TagPrefix, cfg.MaxPageSize).
		WithMetrics(reg.Transaction())

	if err := bootstrapAdmin(ctx, cfg.Admin, accounts); err != nil {
		return err
	}

	handler := api.NewRouter(database, api.Services{
		Auth:      service.NewAuthService(database, hasher, jwtSecret),
		Accounts:  accounts,
		Inventory: inventory,
	}, api.Options{
		JWTSecret:   jwtSecret,
		CORSOrigins: cfg.CORSOrigins,
		Development: cfg.Development(),
		Metrics:     reg.HTTP(),
	})

	servers := []*http.Server{newServer(cfg.Addr(), handler)}
	if cfg.MetricsAddr != "" {
		servers = append(servers, newServer(cfg.MetricsAddr, reg.Handler()))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("server started", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown on SIGINT/SIGTERM, or when any server fails.
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// resolveJWTSecret prefers JWT_SECRET and falls back to a secret generated on
// first run and persisted in the settings table.
func resolveJWTSecret(ctx context.Context, cfg *config.Config, database *sql.DB) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	slog.Warn("JWT_SECRET is not set; using the secret stored in the database")
	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return "", fmt.Errorf("getting JWT secret: %w", err)
	}
	return secret, nil
}

// bootstrapAdmin creates the first admin account when none exist and prints
// its generated password once.
func bootstrapAdmin(ctx context.Context, admin config.Admin, accounts *service.AccountService) error {
	n, err := accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting accounts: %w", err)
	}
	if n > 0 {
		return nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return fmt.Errorf("generating password: %w", err)
	}

	_, err = accounts.Create(ctx, model.CreateAccountInput{
		Username: admin.Username,
		Email:    admin.Email,
		Password: password,
		Role:     "admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	printAdminCreated(admin, password)
	return nil
}

// printAdminCreated prints the bootstrap account to stdout.
func printAdminCreated(admin config.Admin, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", admin.Email)
	fmt.Printf("  Username: %s\n", admin.Username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password. It cannot be recovered.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
