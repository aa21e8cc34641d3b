// Command events tails the catalog event topic and logs every envelope.
// Useful during development and as a starting point for downstream
// consumers like search indexers.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/catalog-service/internal/config"
	"github.com/example/catalog-service/internal/infrastructure/kafka"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "catalog-events-tail")
	defer consumer.Close()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	slog.Info("tailing events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	err = consumer.Consume(ctx, func(_ context.Context, key, value []byte) error {
		var env kafka.Envelope
		if err := json.Unmarshal(value, &env); err != nil {
			slog.Warn("malformed event", "key", string(key), "error", err)
			return nil
		}
		slog.Info("event", "key", string(key), "type", env.Type,
			"occurred_at", env.OccurredAt, "data", string(env.Data))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		slog.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
