// Package server wires the postkeeper server together: configuration,
// PostgreSQL with migrations, the Redis post cache, the services and the
// HTTP API. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/postkeeper/internal/dbx"
	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/auth"
	"github.com/dmitrijs2005/postkeeper/internal/server/cache"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postkeeper/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	http   *httpapi.HTTPServer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	warnInsecureConfig(ctx, logger, cfg)

	db, err := dbx.Open(ctx, repomanager.DriverName, cfg.DatabaseDSN, dbx.PoolOptions{})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	codec := auth.NewCodec([]byte(cfg.SecretKey))
	us := services.NewUserService(db, rm, cfg)
	as := services.NewAuthService(db, rm, us, codec, cfg)
	ps := services.NewPostService(db, rm, cache.NewRedisCache(rdb, cfg.CacheKeyPrefix), cfg, logger.With("module", "posts"))

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
		http:   httpapi.NewHTTPServer(cfg.EndpointAddrHTTP, logger, as, us, ps),
	}, nil
}

func warnInsecureConfig(ctx context.Context, logger logging.Logger, cfg *config.Config) {
	if cfg.UsesDefaultSecret() {
		logger.Warn(ctx, "JWT secret is the development default; set "+config.EnvSecretKey+" before running in production")
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// releases the database and cache connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
