package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/ricemart-orders/internal/config"
	kafkax "github.com/ariefcatur/ricemart-orders/internal/kafka"
	"github.com/ariefcatur/ricemart-orders/internal/logging"
	"github.com/ariefcatur/ricemart-orders/internal/notify"
	"github.com/ariefcatur/ricemart-orders/internal/redisx"
	"github.com/rs/zerolog"
)

func emailSink(cfg config.Config, log zerolog.Logger) notify.Sink {
	smtp := notify.SMTPConfig{Host: cfg.EmailHost, Port: cfg.EmailPort, User: cfg.EmailUser, Pass: cfg.EmailPass, From: cfg.EmailFrom}
	if smtp.Complete() {
		return notify.SMTPSink{Config: smtp}
	}
	log.Warn().Msg("email service not fully configured; simulating email delivery")
	return notify.LogSink{Log: log}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}
	service := cfg.ServiceName + "-notifier"
	log := logging.New(cfg.LogLevel, service, cfg.LogPretty)
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := emailSink(cfg, log)

	// Redis dedup (optional)
	var seen notify.Deduper
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; redelivered emails will be resent")
		} else {
			defer rdb.Close()
			seen = redisx.NewDedup(rdb, service)
		}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, notify.TopicEmail, cfg.NotifierWorkers, log)
	go func() {
		log.Info().Str("group", cfg.NotifierGroup).Str("topic", notify.TopicEmail).Int("workers", cfg.NotifierWorkers).Msg("notifier consumer started")
		if err := cons.Start(ctx, notify.RelayHandler(sink, seen, log)); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
}
