// Entrypoint: reads configuration, wires dependencies and starts the HTTP
// server. Route registration lives in internal/api.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Greggwolin/landscape-sub008/internal/api"
	"github.com/Greggwolin/landscape-sub008/internal/blockgroup"
	"github.com/Greggwolin/landscape-sub008/internal/config"
	"github.com/Greggwolin/landscape-sub008/internal/demographics"
	"github.com/Greggwolin/landscape-sub008/internal/geocode"
	"github.com/Greggwolin/landscape-sub008/internal/logger"
	"github.com/Greggwolin/landscape-sub008/internal/metrics"
	"github.com/Greggwolin/landscape-sub008/internal/middleware"
	"github.com/Greggwolin/landscape-sub008/internal/migrate"
	"github.com/Greggwolin/landscape-sub008/internal/store"
	"github.com/Greggwolin/landscape-sub008/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	l.Debug("log_init_ok")
	l.Info("starting", "version", version.Version, "commit", version.Commit)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}

	st, err := store.Open(config.PostgresDSN())
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	maxOpen, maxIdle := config.PoolLimits()
	st.DB().SetMaxOpenConns(maxOpen)
	st.DB().SetMaxIdleConns(maxIdle)
	if err := st.DB().Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
	} else {
		l.Info("db_ping_ok")
	}
	if err := migrate.EnsureSchema(st.DB()); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	rc := config.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(context.Background()).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Minute)
	snap, err := blockgroup.Load(loadCtx, st.DB())
	cancelLoad()
	if err != nil {
		l.Error("blockgroup_load_error", "err", err)
		os.Exit(1)
	}
	ix := blockgroup.NewIndex(snap)
	l.Info("blockgroup_index_ready", "groups", ix.Len())

	fetcher := demographics.New(st, rc, ix, cfg.RingRadiiMiles, cfg.SnapshotTTLSeconds)
	geocoder := geocode.NewClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(logger.AccessMiddleware(l))
	e.Use(middleware.RateLimit())

	srv := api.NewServer(st, fetcher, geocoder, ix, cfg)
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	srv.Register(e.Group(apiBase))
	e.GET(apiBase+"/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "commit": version.Commit})
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	go func() {
		l.Info("listening", "addr", addr, "api_base", apiBase)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("shutdown_begin")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		l.Error("shutdown_error", "err", err)
	}
	l.Info("shutdown_complete")
}
