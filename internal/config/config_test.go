package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, "/uploads", cfg.Storage.PublicBase)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimit.AuthWindow)
}

func TestLoad_NestedOverrides(t *testing.T) {
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("STORAGE_S3_BUCKET", "resumes")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, StorageS3, cfg.Storage.Driver)
	assert.Equal(t, "resumes", cfg.Storage.S3.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate_ProdRequiresSecret(t *testing.T) {
	cfg := validConfig()
	cfg.AppEnv = "production"
	cfg.JWT.Secret = defaultJWTSecret

	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_StorageDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = "ftp"
	assert.Error(t, cfg.Validate())

	cfg.Storage.Driver = StorageS3
	assert.Error(t, cfg.Validate(), "bucket is required for s3")

	cfg.Storage.S3.Bucket = "b"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.TTL = 0
	assert.Error(t, cfg.Validate())
}

func validConfig() *Config {
	return &Config{
		AppEnv:   "dev",
		Database: Database{URL: ":memory:"},
		JWT:      JWT{Secret: defaultJWTSecret, TTL: time.Hour},
		Storage:  Storage{Driver: StorageLocal, LocalDir: "./uploads", MaxSizeMB: 10},
	}
}
