package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"dev"`
	HTTP      HTTP
	Database  Database
	JWT       JWT
	Redis     Redis
	Storage   Storage
	Log       Log
	CORS      CORS
	Metrics   Metrics
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`
}

type HTTP struct {
	Addr string `envconfig:"ADDR" default:":8080"`
}

type Database struct {
	URL         string `envconfig:"URL" default:"owltrack.db"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`
}

type JWT struct {
	Secret string        `envconfig:"SECRET" default:"change-me-jwt-secret"`
	TTL    time.Duration `envconfig:"TTL" default:"24h"`
}

// Redis is optional; an empty Addr falls back to in-process rate limiting.
type Redis struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

type Storage struct {
	Driver     string `envconfig:"DRIVER" default:"local"`
	LocalDir   string `envconfig:"LOCAL_DIR" default:"./uploads"`
	PublicBase string `envconfig:"PUBLIC_BASE" default:"/uploads"`
	MaxSizeMB  int64  `envconfig:"MAX_SIZE_MB" default:"10"`
	S3         S3
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT"`
	Bucket          string `envconfig:"BUCKET"`
	Region          string `envconfig:"REGION" default:"us-east-1"`
	AccessKey       string `envconfig:"ACCESS_KEY"`
	SecretAccessKey string `envconfig:"SECRET_KEY"`
	Prefix          string `envconfig:"PREFIX" default:"resumes"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" default:"true"`
}

type Log struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	FilePath   string `envconfig:"FILE_PATH"`
	MaxSize    int    `envconfig:"MAX_SIZE" default:"10"`
	MaxBackups int    `envconfig:"MAX_BACKUPS" default:"5"`
	MaxAge     int    `envconfig:"MAX_AGE" default:"7"`
	Compress   bool   `envconfig:"COMPRESS" default:"false"`
}

type CORS struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// Metrics.Token guards /metrics when set.
type Metrics struct {
	Token string `envconfig:"TOKEN"`
}

type RateLimit struct {
	AuthLimit  int           `envconfig:"AUTH_LIMIT" default:"20"`
	AuthWindow time.Duration `envconfig:"AUTH_WINDOW" default:"1m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.Storage.MaxSizeMB <= 0 {
		return fmt.Errorf("STORAGE_MAX_SIZE_MB must be > 0")
	}
	switch c.Storage.Driver {
	case StorageLocal:
		if strings.TrimSpace(c.Storage.LocalDir) == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR must not be empty")
		}
	case StorageS3:
		if strings.TrimSpace(c.Storage.S3.Bucket) == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required for the s3 driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, s3")
	}
	if c.RateLimit.AuthLimit < 0 || c.RateLimit.AuthWindow < 0 {
		return fmt.Errorf("RATE_LIMIT values must not be negative")
	}

	if c.IsProdLike() {
		if isEmptyOrDefault(c.JWT.Secret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
