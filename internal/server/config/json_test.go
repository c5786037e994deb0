package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"http_addr":           "www.example:9000",
		"grpc_addr":           ":6000",
		"database_dsn":        "postgres://json",
		"jwt_secret":          "json_secret",
		"jwt_issuer":          "issuer",
		"token_ttl":           "15m",
		"registration_secret": "reg",
		"bcrypt_cost":         11,
		"s3_access_key":       "user",
		"s3_secret_key":       "password",
		"s3_bucket":           "bucket",
		"s3_region":           "region",
		"s3_base_endpoint":    "base_endpoint",
		"cors_origins":        "https://a,https://b",
		"log_level":           "debug",
		"log_format":          "text",
	})

	t.Run("loads every field", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJSON(cfg, []string{"-config", full}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, ":6000", cfg.GRPCAddr)
		assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
		assert.Equal(t, "json_secret", cfg.JWTSecret)
		assert.Equal(t, "issuer", cfg.JWTIssuer)
		assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
		assert.Equal(t, "reg", cfg.RegistrationSecret)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "https://a,https://b", cfg.CORSOrigins)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"jwt_issuer": "only"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(cfg, []string{"-c", partial}))

		assert.Equal(t, "only", cfg.JWTIssuer)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	})

	t.Run("no flag means no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234"}
		require.NoError(t, parseJSON(cfg, nil))
		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, parseJSON(cfg, []string{"-c", filepath.Join(dir, "missing.json")}))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		assert.Error(t, parseJSON(cfg, []string{"-config", bad}))
	})
}
