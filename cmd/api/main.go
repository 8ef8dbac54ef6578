package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "storefront/docs"
	"storefront/pkg/config"
	"storefront/pkg/identity"
	"storefront/pkg/logger"
	"storefront/pkg/order"
	"storefront/pkg/otel"
	"storefront/pkg/store"
	"storefront/pkg/store/postgres"
	"storefront/pkg/token"
	"storefront/pkg/token/memory"
	tokenredis "storefront/pkg/token/redis"
)

// @title Storefront API
// @version 1.0
// @description Menu, accounts and orders for the storefront
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), "storefront", otel.GetTraceID)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, cfg); err != nil {
		log.Error(context.Background(), "fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, cfg config.Config) error {
	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "storefront", Host: cfg.OTelHost, Probability: cfg.TraceRatio})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdown(context.Background())

	st, closeStore, err := openStore(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, resets, closeTokens, err := openTokenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeTokens()

	srv := &server{
		log:   log,
		store: st,
		identity: identity.NewService(st, sessions, resets, identity.Config{
			SessionTTL: cfg.SessionTTL,
			ResetTTL:   cfg.ResetTokenTTL,
			Hasher:     identity.DefaultHasher(),
		}),
		orders:    order.NewLedger(st),
		staticDir: cfg.StaticDir,
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(tp.Tracer("storefront")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Addr, "tls", cfg.TLSCert != "")
		if cfg.TLSCert != "" {
			errc <- httpSrv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			errc <- httpSrv.ListenAndServe()
		}
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(context.Background(), "stopped")
	return nil
}

// openStore loads the document. A missing or malformed document stops the
// process. A fresh PostgreSQL database is seeded from the JSON file if one
// is configured.
func openStore(ctx context.Context, log *logger.Logger, cfg config.Config) (*store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		st := store.New(store.NewFileBackend(cfg.DBPath))
		if err := st.Load(ctx); err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "document loaded", "path", cfg.DBPath)
		return st, func() {}, nil
	}

	pg, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DocumentName)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(pg)
	err = st.Load(ctx)
	if errors.Is(err, store.ErrNoDocument) && cfg.DBPath != "" {
		raw, rerr := os.ReadFile(cfg.DBPath)
		if rerr != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("read seed document: %w", rerr)
		}
		err = st.Import(ctx, raw)
		if err == nil {
			log.Info(ctx, "document seeded", "from", cfg.DBPath, "name", cfg.DocumentName)
		}
	}
	if err != nil {
		pg.Close()
		return nil, nil, err
	}
	return st, func() { pg.Close() }, nil
}

// openTokenStores keeps sessions and reset tokens in Redis when configured,
// in process memory otherwise.
func openTokenStores(ctx context.Context, cfg config.Config) (token.Store, token.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return memory.New(), memory.New(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return tokenredis.New(client, "session:"), tokenredis.New(client, "reset:"), func() { client.Close() }, nil
}
