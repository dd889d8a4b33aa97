package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug     bool    `yaml:"debug" env:"DEBUG"`
	AppSecret string  `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	BaseURL   string  `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:3000"`
	Limiter   Limiter `yaml:"limiter"`
	Server    Server  `yaml:"server"`
	DB        DB      `yaml:"db"`
	Redis     Redis   `yaml:"redis"`
	SMTP      SMTP    `yaml:"smtp"`
	OAuth     OAuth   `yaml:"oauth"`
	CORS      CORS    `yaml:"cors"`
	Cleanup   Cleanup `yaml:"cleanup"`
	Tasks     Tasks   `yaml:"tasks"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN" env-required:"true"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
}

type Redis struct {
	Addr       string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password   string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" env-default:"0"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"168h"`
}

type SMTP struct {
	Host         string        `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env:"SMTP_SENDER" env-default:"Cinetrack <no-reply@cinetrack.local>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type OAuth struct {
	Google OAuthClient `yaml:"google"`
}

type OAuthClient struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"GOOGLE_REDIRECT_URL" env-default:"http://localhost:8000/api/v1/auth/google/callback"`
}

func (c OAuthClient) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type Cleanup struct {
	Interval      time.Duration `yaml:"interval" env-default:"24h"`
	DisabledGrace time.Duration `yaml:"disabled_grace" env-default:"720h"`
	UnverifiedTTL time.Duration `yaml:"unverified_ttl" env-default:"24h"`
}

type Tasks struct {
	Workers   int `yaml:"workers" env-default:"3"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

// MustLoad reads the YAML config at configPath, letting environment
// variables (and a .env file in the working directory) override it.
func MustLoad(configPath string) *Config {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(fmt.Errorf("loading .env: %w", err))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}
	return &cfg
}
