package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinetrack/proj/internal/api/tasks"
	"cinetrack/proj/internal/clients/oauth"
	"cinetrack/proj/internal/config"
	"cinetrack/proj/internal/jobs"
	"cinetrack/proj/internal/lib/logger"
	"cinetrack/proj/internal/mails"
	"cinetrack/proj/internal/services"
	"cinetrack/proj/internal/storage/postgres"
	pgmodels "cinetrack/proj/internal/storage/postgres/models"
	"cinetrack/proj/internal/storage/redis"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")

	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	storage, err := postgres.New(connCtx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		log.Error("failed to connect to database", "errMsg", err.Error())
		os.Exit(1)
	}
	defer storage.Close()
	log.Info("database connection established")
	if err := storage.Migrate(connCtx); err != nil {
		log.Error("failed to apply migrations", "errMsg", err.Error())
		os.Exit(1)
	}

	sessions, err := redis.New(connCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
	if err != nil {
		log.Error("failed to connect to redis", "errMsg", err.Error())
		os.Exit(1)
	}
	defer sessions.Close()
	log.Info("redis connection established", "addr", cfg.Redis.Addr)

	bgTasks := tasks.New(log, cfg.Tasks.Workers, cfg.Tasks.QueueSize)
	bgTasks.Run()
	mailer := mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		cfg.SMTP.RetriesCount,
	)

	models := pgmodels.New(storage)
	deps := services.Deps{
		Models:       models,
		Sessions:     sessions,
		Mailer:       mailer,
		TaskExecutor: bgTasks,
	}
	if google := cfg.OAuth.Google; google.Enabled() {
		deps.Google = oauth.NewGoogle(log, google.ClientID, google.ClientSecret, google.RedirectURL, 10*time.Second)
		log.Info("google sign-in enabled")
	}
	app := NewApplication(cfg, log, services.New(log, cfg, deps))

	tree := jobs.NewTree(log, cfg.Server.ShutdownTimeout)
	tree.AddJob(jobs.NewDisabledPurge(log, models.Users, cfg.Cleanup.Interval, cfg.Cleanup.DisabledGrace))
	tree.AddJob(jobs.NewUnverifiedPurge(log, models.Users, cfg.Cleanup.Interval, cfg.Cleanup.UnverifiedTTL))

	log.Info("starting server", "addr", cfg.Server.Host+":"+cfg.Server.Port, "version", version)
	if err := app.serve(ctx, tree, bgTasks.Shutdown); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", "errMsg", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
