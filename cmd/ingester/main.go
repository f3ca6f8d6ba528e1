package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/metrics"
	"github.com/satstream/chainsync/internal/provider"
	"github.com/satstream/chainsync/internal/repository/postgres"
	"github.com/satstream/chainsync/internal/script"
	"github.com/satstream/chainsync/internal/service/ingester"
)

type config struct {
	PostgresDSN  string        `long:"postgres-dsn" env:"CHAINSYNC_POSTGRES_DSN" description:"Postgres DSN"`
	Provider     string        `long:"provider" env:"CHAINSYNC_PROVIDER" default:"blockstream" description:"provider kind for single mode"`
	FetchMode    string        `long:"fetch-mode" env:"CHAINSYNC_FETCH_MODE" default:"single" description:"single or multi"`
	Workers      int           `long:"workers" env:"CHAINSYNC_WORKERS" default:"5" description:"window fetch concurrency per block"`
	FetchRatio   int           `long:"fetch-ratio" env:"CHAINSYNC_FETCH_RATIO" default:"100" description:"percentage of each block's transactions to ingest"`
	BlockCount   int           `long:"block-count" env:"CHAINSYNC_BLOCK_COUNT" default:"1" description:"how many of the latest blocks to sync"`
	HTTPTimeout  time.Duration `long:"http-timeout" env:"CHAINSYNC_HTTP_TIMEOUT" default:"45s" description:"per-attempt HTTP timeout"`
	UserAgent    string        `long:"user-agent" env:"CHAINSYNC_USER_AGENT" description:"override the User-Agent header on provider requests"`
	SandshrewURL string        `long:"sandshrew-url" env:"CHAINSYNC_SANDSHREW_URL" description:"keyed Sandshrew RPC endpoint"`
	Network      string        `long:"network" env:"CHAINSYNC_NETWORK" default:"mainnet" description:"bitcoin network for script decoding"`
	MetricsAddr  string        `long:"metrics-addr" env:"CHAINSYNC_METRICS_ADDR" default:":9090" description:"prometheus listen address"`
}

func main() {
	_ = godotenv.Load()

	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.PostgresDSN == "" {
		logger.Fatal("Postgres DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("chainsync ingester failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	mode, err := provider.ParseMode(cfg.FetchMode)
	if err != nil {
		return err
	}
	kind, err := provider.ParseKind(cfg.Provider)
	if err != nil {
		return err
	}

	stopMetrics := serveMetrics(cfg.MetricsAddr, logger)
	defer stopMetrics()

	repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, metrics.NewPostgresRepository(), logger)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repo.Close()

	clientOpts := []fetch.Option{
		fetch.WithTimeout(cfg.HTTPTimeout),
		fetch.WithMetrics(metrics.NewFetchClient()),
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, fetch.WithHeaders(map[string]string{"User-Agent": cfg.UserAgent}))
	}
	client := fetch.NewClient(logger.Named("fetch"), clientOpts...)

	decoder, err := script.NewDecoder(cfg.Network)
	if err != nil {
		return fmt.Errorf("init script decoder: %w", err)
	}

	pool, err := provider.NewPoolForMode(mode, kind, provider.Deps{
		Client:        client,
		ScriptDecoder: decoder,
		SandshrewURL:  cfg.SandshrewURL,
		Metrics:       metrics.NewProvider(),
		Logger:        logger.Named("provider"),
	})
	if err != nil {
		return fmt.Errorf("build provider pool: %w", err)
	}

	svc, err := ingester.NewService(
		repo,
		pool,
		pool.Providers()[0],
		metrics.NewIngester(),
		ingester.Config{
			WorkerCount: cfg.Workers,
			BlockCount:  cfg.BlockCount,
			FetchRatio:  cfg.FetchRatio,
		},
		logger.Named("ingester"),
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
