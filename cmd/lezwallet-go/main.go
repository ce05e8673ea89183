package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/logos-co/lez-wallet-go/internal/config"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/logging"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/metrics"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/simengine"
)

func main() {
	log.Printf("lez-wallet-go version: %s", lezwallet.WrapperVersion())
	log.Printf("wallet engine upstream: %s (%s)", lezwallet.UpstreamVersion(), lezwallet.UpstreamDir)

	if err := run(context.Background()); err != nil {
		log.Fatalf("lezwallet-go: %v", err)
	}
}

// selectEngine returns the native engine, or the simulated one when the
// configuration asks for it explicitly.
func selectEngine(ctx context.Context, cfg *config.Config, logger logging.Logger, native func() (lezwallet.Engine, error)) (lezwallet.Engine, error) {
	if cfg.Simulated {
		logger.Warn(ctx, "using simulated engine; no chain is reached and keys are stored unencrypted",
			"storage_path", cfg.StoragePath)
		return simengine.New(), nil
	}
	return native()
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, flush, err := logging.Build(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer flush()
	logger.Debug(ctx, "configuration loaded", slog.Any("config", cfg))

	engine, err := selectEngine(ctx, cfg, logger, lezwallet.NativeEngine)
	if err != nil {
		if errors.Is(err, lezwallet.ErrNotBuilt) {
			fmt.Printf("wallet engine unavailable: %v\n", err)
			return nil
		}
		return err
	}

	opts := []lezwallet.Option{lezwallet.WithLogger(logger)}
	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}
		opts = append(opts, lezwallet.WithMetrics(m))
	}

	session, err := lezwallet.NewSession(engine, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Error(ctx, "close error", "error", cerr)
		}
	}()

	if cfg.Create {
		err = session.CreateNew(ctx, cfg.ConfigPath, cfg.StoragePath, cfg.Password)
	} else {
		err = session.Open(ctx, cfg.ConfigPath, cfg.StoragePath)
	}
	if err != nil {
		return err
	}

	accounts, err := session.ListAccounts(ctx)
	if err != nil {
		return err
	}
	addr, err := session.SequencerAddr(ctx)
	if err != nil {
		return err
	}
	height, err := session.LastSyncedBlock(ctx)
	if err != nil {
		return err
	}
	if cfg.Create {
		if err := session.Save(ctx); err != nil {
			return err
		}
	}

	fmt.Printf("session %s: %s\n", session.ID(), session.State())
	fmt.Printf("sequencer: %s\n", addr)
	fmt.Printf("last synced block: %d\n", height)
	fmt.Printf("accounts: %s\n", accounts)

	if reg != nil {
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, mf := range families {
			logger.Info(ctx, "metric", "name", mf.GetName(), "series", len(mf.GetMetric()))
		}
	}
	return nil
}
