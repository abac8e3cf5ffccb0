package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("SMTP_HOST", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "tcp(localhost:3306)")
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_DriverSelectsDefaultDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	t.Setenv("DB_DRIVER", "Postgres")
	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "sslmode=disable")

	t.Setenv("DB_DRIVER", "sqlite")
	cfg = Load()
	assert.Equal(t, "file:unihub.db?_foreign_keys=on", cfg.DatabaseDSN)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "key")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "unihub", cfg.Storage.Bucket)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
}
