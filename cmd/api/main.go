package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	v1 "github.com/HliasMpGH/StepIn/cmd/api/router/v1"
	"github.com/HliasMpGH/StepIn/internal/config"
	"github.com/HliasMpGH/StepIn/internal/infrastructure/database"
	queueadapter "github.com/HliasMpGH/StepIn/internal/infrastructure/queue/adapter"
	"github.com/HliasMpGH/StepIn/internal/infrastructure/realtime"
	"github.com/HliasMpGH/StepIn/internal/middleware"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/task"
	liveadapter "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/adapter"
	repoadapter "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/adapter"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/reconciler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug(".env file not loaded")
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	app := &cli.App{
		Name:  "stepin",
		Usage: "meeting presence and live chat service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API with the background reconciler",
				Action: runServe,
			},
			{
				Name:   "worker",
				Usage:  "run the durable chat retention worker",
				Action: runWorker,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("stepin exited")
	}
}

func runServe(c *cli.Context) error {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	live, err := liveadapter.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer live.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer queueClient.Close()

	hub := realtime.NewHub()
	defer hub.Close()

	repo := repoadapter.NewPgMeetingRepository(pool)
	rec := reconciler.New(repo, live, cfg.ScanInterval)
	rec.Start(context.Background())
	defer rec.Stop(5 * time.Second)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/health", func(c *gin.Context) {
		hctx, hcancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer hcancel()
		if err := pool.Ping(hctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		if err := live.Ping(hctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, pool, live, queueClient, hub, cfg.NearbyRadiusM)

	corsOpts := cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(corsOpts.AllowedOrigins) == 0 {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           cors.New(corsOpts).Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logrus.WithField("port", cfg.Port).Info("http server listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func runWorker(c *cli.Context) error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	srv, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.WorkerConcurrency)
	if err != nil {
		return err
	}
	task.RegisterPersistMessageTask(srv, repoadapter.NewPgMeetingRepository(pool))

	runCtx, stopRun := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopRun()

	logrus.WithField("concurrency", cfg.WorkerConcurrency).Info("task worker running")
	return srv.Run(runCtx)
}
