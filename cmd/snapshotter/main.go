package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolSnapshot/internal/chain"
	"poolSnapshot/internal/collector"
	"poolSnapshot/internal/config"
	"poolSnapshot/internal/metrics"
	"poolSnapshot/internal/model"
	"poolSnapshot/internal/storage"
	"poolSnapshot/internal/storage/postgres"
	"poolSnapshot/internal/storage/redis"
)

func main() {
	root := &cobra.Command{
		Use:          "snapshotter",
		Short:        "V2/V3 pool state snapshotter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Snapshot every listed pool",
		RunE:  runSnapshot,
	}

	runCmd.Flags().String("rpc", "", "pool reader RPC URL")
	runCmd.Flags().String("v2-addresses", "./panv2_pool_addresses.txt", "V2 pair address list")
	runCmd.Flags().String("v3-addresses", "./panv3_pool_addresses.txt", "V3 pool address list")
	runCmd.Flags().String("v2-method", "arb_getUniswapV2Pair", "RPC method for V2 pairs")
	runCmd.Flags().String("v3-method", "arb_getUniswapV3Pool", "RPC method for V3 pools")
	runCmd.Flags().String("v3-layout", config.LayoutPancake, "V3 storage layout preset (pancake, uniswap)")
	runCmd.Flags().String("v3-layout-overrides", "", "V3 layout overrides (comma-separated key=value)")
	runCmd.Flags().String("snapshot-dir", "./snapshots", "snapshot output directory")
	runCmd.Flags().Int("concurrency", 1, "pools fetched in parallel")
	runCmd.Flags().String("jsonl-out", "", "optional JSONL file every snapshot is appended to")
	runCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	runCmd.Flags().String("redis-addr", "", "optional Redis address")
	runCmd.Flags().String("redis-password", "", "Redis password")
	runCmd.Flags().Int("redis-db", 0, "Redis database")
	runCmd.Flags().Duration("redis-ttl", 0, "Redis key TTL, 0 keeps keys")
	runCmd.Flags().String("metrics-addr", "", "optional Prometheus listen address (e.g. :9100)")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	normalizeCmd := &cobra.Command{
		Use:   "normalize",
		Short: "Build a snapshot from a saved RPC response",
		RunE:  runNormalize,
	}

	normalizeCmd.Flags().String("protocol", "v3", "pool protocol (v2, v3)")
	normalizeCmd.Flags().String("in", "", "saved JSON-RPC response")
	normalizeCmd.Flags().String("out", "", "output path, stdout when empty")
	normalizeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(normalizeCmd)

	slot0Cmd := &cobra.Command{
		Use:   "slot0 <hex>",
		Short: "Decode a packed slot0 word",
		Args:  cobra.ExactArgs(1),
		RunE:  runSlot0,
	}

	root.AddCommand(slot0Cmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	sinks, closeSinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	if cfg.MetricsAddr != "" {
		metricsCtx, cancelMetrics := context.WithCancel(context.Background())
		defer cancelMetrics()
		go func() {
			if err := m.Serve(metricsCtx, cfg.MetricsAddr); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	runner := collector.NewRunner(collector.RunConfig{
		Jobs: []collector.Job{
			{Protocol: model.ProtocolV2, AddressFile: cfg.V2Addresses, Method: cfg.V2Method, Options: map[string]any{}},
			{Protocol: model.ProtocolV3, AddressFile: cfg.V3Addresses, Method: cfg.V3Method, Options: cfg.V3Layout},
		},
		Concurrency: cfg.Concurrency,
	}, chainClient, sinks, logger, m)

	logger.Info("snapshotter start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("v2_addresses", cfg.V2Addresses),
		zap.String("v3_addresses", cfg.V3Addresses),
		zap.Any("v3_layout", cfg.V3Layout),
		zap.String("snapshot_dir", cfg.SnapshotDir),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Int("sinks", len(sinks)),
	)

	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("run interrupted")
			return nil
		}
		return err
	}
	return nil
}

// buildSinks returns the file sink plus every optional sink the config enables.
func buildSinks(ctx context.Context, cfg config.Config) (storage.Multi, func(), error) {
	sinks := storage.Multi{storage.NewFileStorage(cfg.SnapshotDir)}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.JSONLOut != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.JSONLOut))
	}

	if cfg.PGDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pg.Close)
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pg)
	}

	if cfg.RedisAddr != "" {
		rdb, err := redis.NewStore(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		sinks = append(sinks, rdb)
	}

	return sinks, closeAll, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
