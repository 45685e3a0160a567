package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/giovaniif/order-inventory/infra/config"
	"github.com/giovaniif/order-inventory/infra/logger"
	"github.com/giovaniif/order-inventory/infra/tracing"
	"github.com/giovaniif/order-inventory/order/cmd/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zl, closeLogger := logger.New(logger.Config{
		Service: api.ServiceName,
		Level:   cfg.Log.Level,
		LokiURL: cfg.Log.LokiURL,
	})
	defer closeLogger()

	shutdownTracing, err := tracing.Init(ctx, api.ServiceName, cfg.Otel.Endpoint)
	if err != nil {
		zl.Warn("tracing disabled", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				zl.Error("tracing shutdown", zap.Error(err))
			}
		}()
	}

	if err := api.StartServer(ctx, cfg, zl); err != nil {
		zl.Error("order service stopped", zap.Error(err))
		closeLogger()
		os.Exit(1)
	}
}
