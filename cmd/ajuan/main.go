package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/api"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/config"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/feed"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/xpgx"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("AJUAN_CONFIG"), "path to the YAML config file")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// console logger until the configured one is built
	_ = logger.Init("dev", "info")

	cfg, err := config.Load(viper.GetViper(), *configPath)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	if err = logger.Init(cfg.LogMode, cfg.LogLevel); err != nil {
		logger.Fatal(ctx, err)
	}
	defer logger.Sync()

	pool, err := xpgx.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	bus, err := feed.Open(ctx, pool, cfg.Feed)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Errorf(context.Background(), "close feed: %s", err.Error())
		}
	}()

	svc, err := api.NewAPIService(store.NewStore(pool), bus, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		Debounce:    cfg.Debounce,
		Tick:        cfg.Tick,
		Debug:       cfg.LogLevel == "debug",
	})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bus.Run(gctx)
	})
	g.Go(func() error {
		return svc.Watch(gctx)
	})
	g.Go(func() error {
		logger.Infof(gctx, "listening on %s, feed driver %s", cfg.Addr, cfg.Feed.Driver)
		return svc.Serve(cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return svc.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf(context.Background(), "stopped: %s", err.Error())
		os.Exit(1)
	}
	logger.Info(context.Background(), "stopped")
}
