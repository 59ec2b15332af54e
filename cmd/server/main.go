// Package main runs the FRUS gateway: it serves the client flows as HTML
// pages and short-code redirects, and proxies /api to the FRUS backend.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/api"
	"github.com/atinyakov/frus/internal/client/creator"
	"github.com/atinyakov/frus/internal/config"
	"github.com/atinyakov/frus/internal/logger"
	"github.com/atinyakov/frus/internal/middleware"
	"github.com/atinyakov/frus/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	httpClient, err := api.NewHTTPClient(options.RequestTimeout, options.CAFile)
	if err != nil {
		zapLogger.Fatal("cannot build http client", zap.Error(err))
	}
	backend := api.NewClient(options.BackendURL,
		api.WithHTTPClient(httpClient),
		api.WithLogger(zapLogger),
		api.WithRateLimit(options.RateLimit, 1),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	proxy, err := http.NewBackendProxy(options.BackendURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot proxy backend", zap.Error(err))
	}

	h := &http.Handler{
		Creators:  creator.New(backend, zapLogger, creator.WithShortURLPrefix(options.ShortURLPrefix)),
		Log:       zapLogger,
		Metrics:   metrics,
		DevChecks: options.DevChecks,
	}
	router := http.NewRouter(h, proxy, metrics, reg, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting gateway", zap.String("addr", options.Addr), zap.String("backend", options.BackendURL))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start gateway", zap.Error(err))
	}
}
