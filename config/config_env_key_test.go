package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"checkout": map[string]any{
			"shippingFee": "200.00",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "CHECKOUT_SHIPPINGFEE", want: "checkout.shippingFee"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

const testConfigYAML = `
env:
  env: develop
  serviceName: storefront
  log:
    level: debug
http:
  port: 8080
postgres:
  master:
    host: localhost
    port: "5432"
    userName: store
    password: secret
  dbName: storefront
  sslMode: disable
checkout:
  shippingFee: "200.00"
catalog:
  categoryCacheTTL: 1m
`

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unit.yaml"), []byte(testConfigYAML), 0o600))
	t.Chdir(dir)

	t.Setenv("CHECKOUT_SHIPPINGFEE", "150.50")
	t.Setenv("POSTGRES_MASTER_USERNAME", "override")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadWithEnv[Config]("unit")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.Env.ServiceName)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "override", cfg.Postgres.Master.UserName)
	assert.Equal(t, "150.50", cfg.Checkout.ShippingFee)
	assert.Equal(t, time.Minute, cfg.Catalog.CategoryCacheTTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, "200.00", cfg.Checkout.ShippingFee)
	assert.Equal(t, 20, cfg.Catalog.ProductPageSize)
	assert.Equal(t, 10, cfg.Catalog.CategoryPageSize)
	assert.Equal(t, defaultCategoryCacheTTL, cfg.Catalog.CategoryCacheTTL)
	assert.Equal(t, defaultQRCodeSize, cfg.QRCode.Size)
	assert.NotNil(t, cfg.Postgres)
	assert.Equal(t, defaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, defaultAccessTokenTTL, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 8, cfg.PasswordStrength.MinLength)
	assert.True(t, cfg.PasswordStrength.RequireUppercase)
	assert.Equal(t, "mem://", cfg.Storage.BucketURL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestPostgresConfig_DSNAndURL(t *testing.T) {
	pg := &PostgresConfig{
		Master: ConnectionConfig{Host: "db", Port: "5432", UserName: "u", Password: "p"},
		DBName: "shop",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable TimeZone=UTC", pg.DSN(pg.Master))
	assert.Equal(t, "postgres://u:p@db:5432/shop?sslmode=disable", pg.URL())
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-a")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5433")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "ro")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-b")

	replicas := buildReplicasFromEnv()
	require.Len(t, replicas, 1)
	assert.Equal(t, ConnectionConfig{Host: "replica-a", Port: "5433", UserName: "ro"}, replicas[0])
}
