package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/ariefcatur/ricemart-orders/internal/catalog"
	"github.com/ariefcatur/ricemart-orders/internal/config"
	"github.com/ariefcatur/ricemart-orders/internal/httpx"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	kafkax "github.com/ariefcatur/ricemart-orders/internal/kafka"
	"github.com/ariefcatur/ricemart-orders/internal/logging"
	"github.com/ariefcatur/ricemart-orders/internal/notify"
	"github.com/ariefcatur/ricemart-orders/internal/orders"
	"github.com/ariefcatur/ricemart-orders/internal/postgres"
	"github.com/ariefcatur/ricemart-orders/internal/redisx"
	"github.com/rs/zerolog"
)

type stores struct {
	ledger  inventory.Ledger
	orders  orders.Repository
	catalog catalog.Repository
	close   func()
}

func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (stores, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		ledger := inventory.NewMemoryStore()
		ledger.FloorZero = cfg.StockFloorZero
		return stores{ledger: ledger, orders: orders.NewMemoryRepo(), catalog: catalog.NewMemoryRepo(), close: func() {}}, nil
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return stores{}, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return stores{}, err
	}
	return stores{
		ledger:  &inventory.PGStore{DB: db, FloorZero: cfg.StockFloorZero},
		orders:  &orders.PGRepo{DB: db},
		catalog: &catalog.PGRepo{DB: db},
		close:   db.Close,
	}, nil
}

func alertSink(cfg config.Config, prod *kafkax.Producer, log zerolog.Logger) notify.Sink {
	smtp := notify.SMTPConfig{Host: cfg.EmailHost, Port: cfg.EmailPort, User: cfg.EmailUser, Pass: cfg.EmailPass, From: cfg.EmailFrom}
	switch cfg.NotifySink {
	case "kafka":
		if prod != nil {
			return notify.KafkaSink{Producer: prod, Service: cfg.ServiceName}
		}
		log.Warn().Msg("NOTIFY_SINK=kafka without brokers; simulating email delivery")
	case "smtp":
		if smtp.Complete() {
			return notify.SMTPSink{Config: smtp}
		}
		log.Warn().Msg("email service not fully configured; simulating email delivery")
	}
	return notify.LogSink{Log: log.With().Str("component", "email").Logger()}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName, cfg.LogPretty)
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("storage")
	}
	defer st.close()

	// Redis (optional: status cache + idempotency)
	oh := &httpx.OrdersHandler{Log: log}
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; status cache and idempotency disabled")
		} else {
			defer rdb.Close()
			oh.Status = redisx.NewStatusCache(rdb)
			oh.Idem = redisx.NewIdempotency(rdb)
		}
	}

	// Kafka producer
	var (
		prod   *kafkax.Producer
		events orders.EventPublisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, log.With().Str("component", "kafka").Logger())
		prod.Start(ctx)
		events = &orders.KafkaPublisher{Producer: prod, Service: cfg.ServiceName}
	}

	// Workflow
	alerts := notify.New(cfg.LowStockThreshold, cfg.AlertRecipient, alertSink(cfg, prod, log), log.With().Str("component", "notifier").Logger())
	alerts.Timeout = cfg.NotifyTimeout
	oh.Workflow = orders.NewWorkflow(st.orders, st.ledger, alerts, events, log)

	// HTTP
	router := httpx.NewRouter(log)
	authn := httpx.Authenticator(auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.AdminEmails))
	oh.Register(router, authn)
	(&httpx.StockHandler{Ledger: st.ledger, Log: log}).Register(router, authn)
	(&httpx.CatalogHandler{Service: catalog.NewService(st.catalog, st.ledger, log), Log: log}).Register(router, authn)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	alerts.Wait() // in-flight alerts may still publish
	if prod != nil {
		prod.Close()      // stop accepting -> flush & close writer
		prod.WaitClosed() // drain
	}
	cancel()
}
