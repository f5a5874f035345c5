package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "ID", cfg.Phone.Region)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "Warung Dashboard", cfg.App.Name)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "toko")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://kasir.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:@db.internal:5432/toko?sslmode=require", cfg.ConnectionString())
	assert.Equal(t, []string{"http://localhost:3000", "https://kasir.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestConfig_Location(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Makassar")

	cfg, err := config.Load()
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Makassar", loc.String())

	cfg.App.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
