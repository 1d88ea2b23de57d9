package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radieske/raphbet-wallet/internal/catalog"
	"github.com/radieske/raphbet-wallet/internal/shared/cache"
	"github.com/radieske/raphbet-wallet/internal/shared/config"
	"github.com/radieske/raphbet-wallet/internal/shared/db"
	"github.com/radieske/raphbet-wallet/internal/shared/logger"
	"github.com/radieske/raphbet-wallet/internal/shared/metrics"
	wcache "github.com/radieske/raphbet-wallet/internal/wallet-service/cache"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/dispatch"
	whttp "github.com/radieske/raphbet-wallet/internal/wallet-service/http"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/producer"
	wrepo "github.com/radieske/raphbet-wallet/internal/wallet-service/repo"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/session"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/ws"
)

func main() {
	cfg := config.Load()

	// Inicializa logger estruturado
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()
	log.Info("starting service",
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.Int64("initial_balance", cfg.Wallet.InitialBalance),
		zap.Float64("win_probability", cfg.Wallet.WinProbability),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewWalletCollector(reg)

	sinks := []dispatch.Sink{collector}
	var checks []metrics.HealthFunc

	// Postgres: journal durável do ledger (opcional)
	var journal whttp.Journal
	if cfg.PostgresDSN != "" {
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		repo := wrepo.NewPostgres(pg)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to ensure schema", zap.Error(err))
		}
		sinks = append(sinks, repo)
		checks = append(checks, repo.Ping)
		journal = repo
		log.Info("postgres connected")
	}

	// Kafka: eventos de aposta e de ledger (opcional)
	if cfg.KafkaBrokers != "" {
		pub := producer.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicBetPlaced, cfg.TopicBetSettled, cfg.TopicTransactions)
		defer pub.Close()
		sinks = append(sinks, pub)
		log.Info("kafka publisher ready",
			zap.String("bet_placed", cfg.TopicBetPlaced),
			zap.String("bet_settled", cfg.TopicBetSettled),
			zap.String("transactions", cfg.TopicTransactions),
		)
	}

	// WebSocket: notificações por sessão
	hub := ws.NewHub(nil)
	sinks = append(sinks, hub)

	dispatcher := dispatch.New(log, cfg.Wallet.EventBuffer, sinks...)
	dispatcher.OnError = collector.OnSinkError
	dispatcher.OnDropped = collector.OnDropped

	sessionOpts := []session.Option{session.WithCounter(collector.SetSessions)}

	// Redis: snapshot das sessões e odds ao vivo (opcional)
	var live catalog.OddsSource
	var snapshots *wcache.SnapshotStore
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()

		snapshots = wcache.NewSnapshotStore(rdb, cfg.Wallet.SessionTTL)
		live = catalog.NewRedisOdds(rdb)
		sessionOpts = append(sessionOpts, session.WithStore(snapshots))
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info("redis connected")
	}

	sessions := session.New(log, cfg.Wallet, dispatcher.Notify, sessionOpts...)
	if snapshots != nil {
		dispatcher.Sinks = append(dispatcher.Sinks, session.NewSnapshotSink(sessions, snapshots))
	}

	api := &whttp.API{
		Log:      log,
		Cfg:      cfg.Wallet,
		Sessions: sessions,
		Catalog:  catalog.New(live),
		Journal:  journal,
		Stream:   hub,
	}
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort, // ex: 8082
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(cfg.MetricsPort, reg, func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return dispatcher.Run(gctx) })

	if cfg.Wallet.SessionTTL > 0 {
		g.Go(func() error { return sessions.RunSweeper(gctx, cfg.Wallet.SessionTTL/4) })
	}

	g.Go(func() error {
		log.Info("api listening", zap.String("addr", apiSrv.Addr))
		return serve(apiSrv)
	})
	g.Go(func() error {
		log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))
		return serve(metricsSrv)
	})

	// encerramento: para de aceitar requisições e fecha as sessões
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = apiSrv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
		sessions.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", zap.Error(err))
		return
	}
	log.Info("service stopped")
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", srv.Addr, err)
	}
	return nil
}
