package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.False(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "imagenes", cfg.Storage.Bucket)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, time.Duration(0), cfg.Reports.RebuildInterval)
	assert.Equal(t, 30*time.Second, cfg.Reports.Timeout)
}

func TestFromViper_LeeVariables(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("DB_MIGRATE_ON_START", "true")
	v.Set("SUPABASE_URL", "https://demo.supabase.co/")
	v.Set("SUPABASE_SERVICE_ROLE", "service-role")
	v.Set("SUMMARY_REBUILD_INTERVAL", "15m")
	v.Set("REPORTS_TIMEOUT", "5")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, "https://demo.supabase.co", cfg.Storage.URL)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Reports.RebuildInterval)
	assert.Equal(t, 5*time.Second, cfg.Reports.Timeout)
}

func TestFromViper_IntervaloNegativoEsError(t *testing.T) {
	v := viper.New()
	v.Set("SUMMARY_REBUILD_INTERVAL", "-1m")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "bar", Password: "p@ss:word", DBName: "bar", SSLMode: "disable"}
	assert.Equal(t, "postgres://bar:p%40ss%3Aword@db:5432/bar?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://u:p@h:5432/d"
	assert.Equal(t, "postgresql://u:p@h:5432/d", c.ConnectionString())
}
