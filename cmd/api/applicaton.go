package main

import (
	"log/slog"

	"cinetrack/proj/internal/config"
	"cinetrack/proj/internal/lib/validator"
	"cinetrack/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
	services     *services.Services
	limiter      *ipLimiter
}

func NewApplication(cfg *config.Config, log *slog.Logger, services *services.Services) *Application {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("query")
	return &Application{
		cfg:          cfg,
		log:          log,
		validator:    validator.New(),
		queryDecoder: decoder,
		services:     services,
		limiter:      newIPLimiter(cfg.Limiter.Rps, cfg.Limiter.Burst),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
