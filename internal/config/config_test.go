package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: conduit
  password: secret
  dbname: conduit
jwt:
  secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "conduit", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "conduit", cfg.JWT.Issuer)
	assert.Equal(t, 72*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt secret is required")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "supersecret")
	t.Setenv("TEST_JWT_SECRET", "tokensecret")

	path := writeConfig(t, `
database:
  host: localhost
  password: ${TEST_DB_PASSWORD}
jwt:
  secret: ${TEST_JWT_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "supersecret", cfg.Database.Password)
	assert.Equal(t, "tokensecret", cfg.JWT.Secret)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "conduit",
		Password: "secret",
		DBName:   "conduit",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=conduit password=secret dbname=conduit sslmode=require",
		d.DSN(),
	)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
