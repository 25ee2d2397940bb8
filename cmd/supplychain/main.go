package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/supplychain/internal/api"
	"github.com/erazemk/supplychain/internal/config"
	"github.com/erazemk/supplychain/internal/db"
	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/store"
	"github.com/erazemk/supplychain/internal/workflow"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger installs the default logger. If logPath is non-empty, all
// levels are also appended to that file; the returned func closes it.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("supplychain", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.PickupAddress, "pickup", cfg.PickupAddress, "")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: supplychain [flags]

Flags:
  -d, -db <path>          SQLite database path (env SUPPLYCHAIN_DB, default: supplychain.sqlite3)
  -a, -addr <host:port>   listen address (env SUPPLYCHAIN_ADDR, default: :8080)
  -l, -log <path>         log file path (env SUPPLYCHAIN_LOG, default: stdout/stderr only)
  -pickup <address>       store the pickup address put on new delivery orders
  -seed                   create sample supplier1, vendor1 and driver1 accounts on an empty database
  -h, -help               show this help and exit

Settings are also read from a .env file in the working directory.
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

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.DBPath)

	ctx := context.Background()

	if cfg.PickupAddress != "" {
		if err := store.SetSetting(ctx, database, store.SettingPickupAddress, cfg.PickupAddress); err != nil {
			slog.Error("failed to store pickup address", "error", err)
			os.Exit(1)
		}
		slog.Info("pickup address set", "address", cfg.PickupAddress)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Generated and stored on first run.
		jwtSecret, err = store.GetJWTSecret(ctx, database)
		if err != nil {
			slog.Error("failed to get JWT secret", "error", err)
			os.Exit(1)
		}
	}

	svc := workflow.New(database, workflow.WithLogger(slog.Default()))

	if cfg.Seed {
		if err := seedUsers(ctx, svc); err != nil {
			slog.Error("failed to seed users", "error", err)
			os.Exit(1)
		}
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(svc, jwtSecret, cfg.TokenTTL)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// seedUsers creates one account per role when the database has no users
// yet, and prints the generated passwords.
func seedUsers(ctx context.Context, svc *workflow.Service) error {
	existing, err := svc.ListUsers(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("users exist, skipping seed", "count", len(existing))
		return nil
	}

	seeds := []struct{ username, role string }{
		{"supplier1", model.RoleSupplier},
		{"vendor1", model.RoleVendor},
		{"driver1", model.RoleDriver},
	}

	fmt.Println("Sample accounts created:")
	for _, s := range seeds {
		password, err := generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		if _, err := svc.RegisterUser(ctx, s.username, s.username+"@example.com", password, s.role); err != nil {
			return fmt.Errorf("creating %s: %w", s.username, err)
		}
		fmt.Printf("  %-10s %-9s %s\n", s.username, s.role, password)
	}
	fmt.Println()
	fmt.Println("Save these passwords, they cannot be recovered.")
	return nil
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
