package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	blogHttp "github.com/davicafu/makethechange/internal/blog/infra/inbound/http"
	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	investmentHttp "github.com/davicafu/makethechange/internal/investment/infra/inbound/http"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	productHttp "github.com/davicafu/makethechange/internal/product/infra/inbound/http"
	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	projectHttp "github.com/davicafu/makethechange/internal/project/infra/inbound/http"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	inboundEvents "github.com/davicafu/makethechange/internal/shared/infra/inbound/events"
	sharedHTTP "github.com/davicafu/makethechange/internal/shared/infra/inbound/http"
	"github.com/davicafu/makethechange/internal/shared/infra/outbound/analytics/clickhouse"
	"github.com/davicafu/makethechange/internal/shared/infra/relayer"
)

const analyticsFlushInterval = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca la API de catálogos, el relayer del outbox y el consumidor de eventos",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	// ---------------- Catálogos ----------------
	cats, err := newCatalogs(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cats.Close()

	// ---------------- Analítica ----------------
	var analytics sharedDomain.MutationAnalyticsRepository
	if cfg.ClickHouseAddr != "" {
		repo, err := clickhouse.NewMutationAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, sin analítica", zap.Error(err))
		} else if err := repo.InitSchema(ctx); err != nil {
			log.Warn("⚠️ No se pudo crear el esquema de ClickHouse", zap.Error(err))
		} else {
			analytics = repo
			log.Info("✅ ClickHouse conectado", zap.String("addr", cfg.ClickHouseAddr))
		}
	}

	// ---------------- Events ----------------
	consumer := inboundEvents.NewCatalogConsumer(map[string]inboundEvents.CatalogCache{
		productDomain.ProductAggregate:       cats.products,
		projectDomain.ProjectAggregate:       cats.projects,
		investmentDomain.InvestmentAggregate: cats.investments,
		blogDomain.PostAggregate:             cats.posts,
	}, analytics, inboundEvents.DefaultAnalyticsBatch, log)
	consumer.StartFlusher(ctx, analyticsFlushInterval)

	publisher, closeBus, err := startEventBus(ctx, cfg, consumer, log)
	if err != nil {
		return err
	}
	defer closeBus()

	// ------------ Outbox Workers ------------
	registry := sharedEvents.MergeRegistries(
		productDomain.NewEventRegistry(),
		projectDomain.NewEventRegistry(),
		investmentDomain.NewEventRegistry(),
		blogDomain.NewEventRegistry(),
	)
	for _, ob := range cats.outboxes {
		worker := relayer.NewOutboxWorker(ob.repo, publisher, registry, cfg.OutboxPeriod, cfg.OutboxLimit,
			log.With(zap.String("outbox", ob.name)))
		go worker.Start(ctx)
	}

	// ---------------- HTTP ----------------
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	sharedHTTP.RegisterHealthRoutes(router)

	api := router.Group("/api/v1")
	limiter := sharedHTTP.NewRateLimiter(cfg.RateLimitPerMin).Middleware()
	productHttp.RegisterProductRoutes(api, productHttp.NewProductHandler(cats.products, log), limiter)
	projectHttp.RegisterProjectRoutes(api, projectHttp.NewProjectHandler(cats.projects, log), limiter)
	investmentHttp.RegisterInvestmentRoutes(api, investmentHttp.NewInvestmentHandler(cats.investments, log), limiter)
	blogHttp.RegisterPostRoutes(api, blogHttp.NewPostHandler(cats.posts, log), limiter)
	if analytics != nil {
		sharedHTTP.RegisterAnalyticsRoutes(api, sharedHTTP.NewAnalyticsHandler(analytics, log))
	}

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	consumer.Flush(shutdownCtx)
	return nil
}
