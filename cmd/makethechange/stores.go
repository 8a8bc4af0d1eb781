package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	blogApp "github.com/davicafu/makethechange/internal/blog/application"
	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	blogMemory "github.com/davicafu/makethechange/internal/blog/infra/outbound/db/memory"
	blogMongo "github.com/davicafu/makethechange/internal/blog/infra/outbound/db/mongodb"
	"github.com/davicafu/makethechange/internal/config"
	investmentApp "github.com/davicafu/makethechange/internal/investment/application"
	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	investmentMemory "github.com/davicafu/makethechange/internal/investment/infra/outbound/db/memory"
	investmentSQLite "github.com/davicafu/makethechange/internal/investment/infra/outbound/db/sqlite"
	productApp "github.com/davicafu/makethechange/internal/product/application"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	productMemory "github.com/davicafu/makethechange/internal/product/infra/outbound/db/memory"
	productPostgres "github.com/davicafu/makethechange/internal/product/infra/outbound/db/postgre"
	projectApp "github.com/davicafu/makethechange/internal/project/application"
	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	projectMemory "github.com/davicafu/makethechange/internal/project/infra/outbound/db/memory"
	projectSQLite "github.com/davicafu/makethechange/internal/project/infra/outbound/db/sqlite"
	"github.com/davicafu/makethechange/internal/seed"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedCache "github.com/davicafu/makethechange/internal/shared/infra/platform/cache"
	sharedMongo "github.com/davicafu/makethechange/internal/shared/infra/platform/db/mongodb"
	sharedPostgres "github.com/davicafu/makethechange/internal/shared/infra/platform/db/postgres"
	sharedSQLite "github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlite"

	_ "modernc.org/sqlite"
)

// Tamaño de los datos de demo.
const (
	seedProducts    = 40
	seedProjects    = 24
	seedInvestments = 60
	seedPosts       = 30
)

// outbox es un origen de eventos para un worker del relayer.
type outbox struct {
	name string
	repo sharedDomain.OutboxRepository
}

// catalogs agrupa los servicios de los cuatro catálogos y lo necesario para
// publicar sus eventos y cerrarlos.
type catalogs struct {
	products    *productApp.ProductService
	projects    *projectApp.ProjectService
	investments *investmentApp.InvestmentService
	posts       *blogApp.PostService

	outboxes []outbox
	closers  []func()
}

func (c *catalogs) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// ---------------- Cache ----------------

func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedCache.Cache, func()) {
	inMemory := func() (sharedCache.Cache, func()) {
		c := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		return c, c.Stop
	}
	if cfg.RedisAddr == "" {
		log.Info("Cache en memoria")
		return inMemory()
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		_ = rdb.Close()
		return inMemory()
	}
	log.Info("✅ Redis conectado, cache habilitado", zap.String("addr", cfg.RedisAddr))
	return sharedCache.NewRedisCache(rdb, cfg.CacheTTL), func() { _ = rdb.Close() }
}

// ---------------- Stores ----------------

func newCatalogs(ctx context.Context, cfg *config.Config, log *zap.Logger) (*catalogs, error) {
	cache, closeCache := newCache(ctx, cfg, log)

	var (
		c   *catalogs
		err error
	)
	switch cfg.Store {
	case config.StoreDB:
		c, err = newDBCatalogs(ctx, cfg, cache, log)
	default:
		c = newMemoryCatalogs(cfg, cache, log)
	}
	if err != nil {
		closeCache()
		return nil, err
	}
	c.closers = append([]func(){closeCache}, c.closers...)
	return c, nil
}

func newMemoryCatalogs(cfg *config.Config, cache sharedCache.Cache, log *zap.Logger) *catalogs {
	log.Info("⚡️ Catálogos en memoria")

	products, projects, investments, posts := seedData(cfg.Seed)
	productRepo := productMemory.NewProductRepoMemory(products...)
	projectRepo := projectMemory.NewProjectRepoMemory(projects...)
	investmentRepo := investmentMemory.NewInvestmentRepoMemory(investments...)
	postRepo := blogMemory.NewPostRepoMemory(posts...)

	return &catalogs{
		products:    productApp.NewProductService(productRepo, cache, log),
		projects:    projectApp.NewProjectService(projectRepo, cache, log),
		investments: investmentApp.NewInvestmentService(investmentRepo, cache, log),
		posts:       blogApp.NewPostService(postRepo, cache, log),
		outboxes: []outbox{
			{name: "products", repo: productRepo},
			{name: "projects", repo: projectRepo},
			{name: "investments", repo: investmentRepo},
			{name: "blog", repo: postRepo},
		},
	}
}

// newDBCatalogs: productos en Postgres, proyectos e inversiones en SQLite y
// el blog en MongoDB. Cada base tiene su propio outbox.
func newDBCatalogs(ctx context.Context, cfg *config.Config, cache sharedCache.Cache, log *zap.Logger) (*catalogs, error) {
	c := &catalogs{}
	fail := func(err error) (*catalogs, error) {
		c.Close()
		return nil, err
	}
	products, projects, investments, posts := seedData(cfg.Seed)

	// ---------------- Postgres ----------------
	pg, err := sql.Open("pgx", cfg.PostgresURL)
	if err != nil {
		return fail(fmt.Errorf("failed to open Postgres: %w", err))
	}
	c.closers = append(c.closers, func() { _ = pg.Close() })
	if err := pg.PingContext(ctx); err != nil {
		return fail(fmt.Errorf("failed to ping Postgres: %w", err))
	}
	if err := productPostgres.InitPostgresProductSchema(pg); err != nil {
		return fail(err)
	}
	productRepo := productPostgres.NewProductRepoPostgres(pg)
	for _, p := range products {
		if err := productRepo.Insert(ctx, p); err != nil {
			return fail(fmt.Errorf("seeding products: %w", err))
		}
	}

	// ---------------- SQLite ----------------
	lite, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return fail(fmt.Errorf("failed to open SQLite: %w", err))
	}
	c.closers = append(c.closers, func() { _ = lite.Close() })
	// SQLite no admite escrituras concurrentes.
	lite.SetMaxOpenConns(1)
	if err := projectSQLite.InitSQLiteProjectSchema(lite); err != nil {
		return fail(err)
	}
	if err := investmentSQLite.InitSQLiteInvestmentSchema(lite); err != nil {
		return fail(err)
	}
	projectRepo := projectSQLite.NewProjectRepoSQLite(lite)
	for _, p := range projects {
		if err := projectRepo.Insert(ctx, p); err != nil {
			return fail(fmt.Errorf("seeding projects: %w", err))
		}
	}
	investmentRepo := investmentSQLite.NewInvestmentRepoSQLite(lite)
	for _, inv := range investments {
		if err := investmentRepo.Insert(ctx, inv); err != nil {
			return fail(fmt.Errorf("seeding investments: %w", err))
		}
	}

	// ---------------- MongoDB ----------------
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fail(fmt.Errorf("failed to connect MongoDB: %w", err))
	}
	c.closers = append(c.closers, func() { _ = client.Disconnect(context.Background()) })
	postRepo, err := blogMongo.NewPostRepoMongoDB(connectCtx, client, cfg.MongoDB)
	if err != nil {
		return fail(err)
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return fail(err)
	}
	for _, p := range posts {
		if err := postRepo.Insert(ctx, p); err != nil {
			return fail(fmt.Errorf("seeding posts: %w", err))
		}
	}

	log.Info("✅ Catálogos en base de datos",
		zap.String("sqlite", cfg.SQLitePath),
		zap.String("mongo_db", cfg.MongoDB),
	)

	c.products = productApp.NewProductService(productRepo, cache, log)
	c.projects = projectApp.NewProjectService(projectRepo, cache, log)
	c.investments = investmentApp.NewInvestmentService(investmentRepo, cache, log)
	c.posts = blogApp.NewPostService(postRepo, cache, log)
	c.outboxes = []outbox{
		{name: "postgres", repo: sharedPostgres.NewOutboxRepoPostgres(pg)},
		{name: "sqlite", repo: sharedSQLite.NewOutboxRepoSQLite(lite)},
		{name: "mongodb", repo: sharedMongo.NewOutboxRepoMongoDB(client, cfg.MongoDB)},
	}
	return c, nil
}

func seedData(enabled bool) ([]productDomain.Product, []projectDomain.Project, []investmentDomain.Investment, []blogDomain.Post) {
	if !enabled {
		return nil, nil, nil, nil
	}
	projects := seed.Projects(seedProjects)
	return seed.Products(seedProducts), projects, seed.Investments(seedInvestments, projects), seed.Posts(seedPosts)
}
