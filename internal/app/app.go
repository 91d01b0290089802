package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/maze-server/internal/cache"
	"github.com/vancomm/maze-server/internal/config"
	"github.com/vancomm/maze-server/internal/database"
	"github.com/vancomm/maze-server/internal/middleware"
)

type App struct {
	logger  *slog.Logger
	router  *http.ServeMux
	db      *pgxpool.Pool
	images  *cache.Images
	limits  *config.Limits
	jwt     *config.JWT
	cookies *config.Cookies
	ws      *config.WebSocket
}

func New(logger *slog.Logger) *App {
	app := &App{
		logger: logger,
		router: http.NewServeMux(),
	}
	return app
}

func (a *App) Start(ctx context.Context) error {
	db, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	defer migrator.Close()
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	a.db = db

	if a.limits, err = config.NewLimits(); err != nil {
		return err
	}
	if a.jwt, err = config.NewJWT(); err != nil {
		return err
	}
	if a.cookies, err = config.NewCookies(a.jwt); err != nil {
		return err
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return err
	}

	redisOpts, err := config.NewRedisOptions()
	if err != nil {
		return fmt.Errorf("unable to parse REDIS_URL: %w", err)
	}
	if redisOpts != nil {
		images := cache.NewImages(redisOpts, a.limits.CacheTTL)
		if err := images.Ping(ctx); err != nil {
			a.logger.Warn("image cache unavailable, rendering uncached", slog.Any("error", err))
			images.Close()
		} else {
			defer images.Close()
			a.images = images
		}
	}

	a.loadRoutes()

	var handler http.Handler = a.router
	if base := config.BasePath(); base != "" {
		handler = http.StripPrefix(base, handler)
	}

	addr := config.Port()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			handler,
			middleware.Cors(),
			middleware.Auth(a.logger, a.cookies),
			middleware.Logging(a.logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
