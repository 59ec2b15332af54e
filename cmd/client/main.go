// Package main runs the FRUS terminal client: an interactive shell that logs
// in, shortens and resolves URLs against the FRUS backend.
package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/api"
	"github.com/atinyakov/frus/internal/client/creator"
	"github.com/atinyakov/frus/internal/client/nav"
	"github.com/atinyakov/frus/internal/client/shell"
	"github.com/atinyakov/frus/internal/client/storage"
	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/config"
	"github.com/atinyakov/frus/internal/db"
	"github.com/atinyakov/frus/internal/logger"
	"github.com/atinyakov/frus/internal/models"
)

var (
	version   string
	buildDate string
)

// tokenStore picks where the token lives: a database when a DSN is given,
// the token file otherwise.
func tokenStore(ctx context.Context, options *config.Options, log *zap.Logger) (storage.TokenStore, func(), error) {
	if options.TokenDSN == "" {
		return storage.NewFileTokenStore(options.TokenFile), func() {}, nil
	}

	conn, dialect, err := db.Open(options.TokenDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.InitSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	db.StartTokenCleaner(ctx, conn, time.Hour, 30*24*time.Hour, log)
	return storage.NewSQLTokenStore(conn, dialect), func() { _ = conn.Close() }, nil
}

func main() {
	args := os.Args[1:]
	if len(args) == 1 && (args[0] == "-version" || args[0] == "--version") {
		fmt.Printf("FRUS Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	options, err := config.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	err = run(options, log.Log)
	_ = log.Log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the client and blocks until the shell exits. Every resource it
// opens is released before it returns.
func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := tokenStore(ctx, options, zapLogger)
	if err != nil {
		return fmt.Errorf("cannot open token storage: %w", err)
	}
	defer closeTokens()

	token, err := storage.LoadToken(ctx, tokens)
	if err != nil {
		zapLogger.Warn("stored token ignored", zap.Error(err))
	}

	httpClient, err := api.NewHTTPClient(options.RequestTimeout, options.CAFile)
	if err != nil {
		return fmt.Errorf("cannot build http client: %w", err)
	}
	backend := api.NewClient(options.BackendURL,
		api.WithHTTPClient(httpClient),
		api.WithLogger(zapLogger),
		api.WithRateLimit(options.RateLimit, 1),
	)
	creators := creator.New(backend, zapLogger, creator.WithShortURLPrefix(options.ShortURLPrefix))

	storeOpts := []store.Option{
		store.WithLogger(zapLogger),
		store.WithEffect(creator.Effects(tokens, nav.NewRecorder(zapLogger), zapLogger)),
	}
	if options.DevChecks {
		storeOpts = append(storeOpts, store.WithImmutableCheck())
	}
	st := store.New(models.NewState(token), storeOpts...)

	if err := st.Run(ctx, creators.LoadUserDetails()); err != nil {
		zapLogger.Warn("failed to load user details", zap.Error(err))
	}
	if options.RefreshInterval > 0 {
		creators.StartAutoRefresh(ctx, st, options.RefreshInterval)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "frus> ",
		HistoryFile:     filepath.Join(os.TempDir(), "frus_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("cannot start terminal: %w", err)
	}
	defer rl.Close()

	fmt.Println("FRUS shell. Type 'help' for a list of commands.")
	if err := shell.New(st, creators, rl, rl.Stdout()).Run(ctx); err != nil {
		return fmt.Errorf("shell stopped: %w", err)
	}
	return nil
}
