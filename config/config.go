package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cloudinary CloudinaryConfig
	Upload     UploadConfig
	Admin      AdminConfig
	JWT        JWTConfig
	Chat       ChatConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	Env          string        `env:"APP_ENV" envDefault:"development"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatabaseConfig leaves DSN empty when no database is configured; every
// resource then falls back to process-local data.
type DatabaseConfig struct {
	DSN             string        `env:"DATABASE_URL"`
	PrismaURL       string        `env:"POSTGRES_PRISMA_URL"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// URL returns the configured DSN, accepting POSTGRES_PRISMA_URL as an alias.
func (d DatabaseConfig) URL() string {
	if d.DSN != "" {
		return d.DSN
	}
	return d.PrismaURL
}

func (d DatabaseConfig) Enabled() bool { return d.URL() != "" }

type CloudinaryConfig struct {
	URL       string `env:"CLOUDINARY_URL"`
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" envDefault:"kefu"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.URL != "" || (c.CloudName != "" && c.APIKey != "" && c.APISecret != "")
}

type UploadConfig struct {
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
}

type AdminConfig struct {
	Password string `env:"ADMIN_PASSWORD"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	Expiry time.Duration `env:"JWT_EXPIRY" envDefault:"12h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"kefu"`
}

type ChatConfig struct {
	AutoReply      string `env:"CHAT_AUTO_REPLY" envDefault:"收到您的消息，客服正在为您处理..."`
	HistoryDefault int    `env:"CHAT_HISTORY_DEFAULT" envDefault:"200"`
	HistoryMax     int    `env:"CHAT_HISTORY_MAX" envDefault:"500"`
}

type RateLimitConfig struct {
	Limit  int           `env:"RATE_LIMIT" envDefault:"120"`
	Window time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateLimit.Window)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	return nil
}

// Default returns the configuration produced by an empty environment.
func Default() *Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return &cfg
}
