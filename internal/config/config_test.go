package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 500, cfg.Resolver.BatchSize)
	assert.Equal(t, 8, cfg.Resolver.Workers)
	assert.Equal(t, []float64{200, 500, 5000}, cfg.Resolver.StreetRadii)
	assert.Equal(t, 3, cfg.Resolver.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Resolver.RetryBackoff)
	assert.Equal(t, 500.0, cfg.Complex.MatchRadius)
	assert.Equal(t, 0.5, cfg.Complex.MatchThreshold)
	assert.Equal(t, 0.9, cfg.Complex.FuzzyLookupThreshold)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "disable", cfg.OSMDatabase.SSLMode)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_HOST", "db")
	v.Set("DB_PORT", 5432)
	v.Set("OSM_DB_HOST", "osm")
	v.Set("RESOLVER_STREET_RADII", "150, 300,3000")
	v.Set("RESOLVER_WORKERS", 2)
	v.Set("COMPLEX_BBOX", "30.6,46.3,30.8,46.6")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "osm", cfg.OSMDatabase.Host)
	assert.Equal(t, []float64{150, 300, 3000}, cfg.Resolver.StreetRadii)
	assert.Equal(t, 2, cfg.Resolver.Workers)
	assert.Equal(t, []float64{30.6, 46.3, 30.8, 46.6}, cfg.Complex.BBox)
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db port=5432")

	bbox, ok := cfg.Complex.BoundingBox()
	require.True(t, ok)
	assert.Equal(t, 30.6, bbox.MinLon)
	assert.Equal(t, 46.3, bbox.MinLat)
	assert.Equal(t, 30.8, bbox.MaxLon)
	assert.Equal(t, 46.6, bbox.MaxLat)
	assert.True(t, bbox.Valid())
}

func TestComplexConfig_NoBoundingBox(t *testing.T) {
	_, ok := ComplexConfig{}.BoundingBox()
	assert.False(t, ok)
}

func TestFromViper_ZeroMaxRetries(t *testing.T) {
	v := viper.New()
	v.Set("RESOLVER_MAX_RETRIES", 0)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Resolver.MaxRetries)
}

func TestLoad_ZeroMaxRetriesFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("RESOLVER_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Resolver.MaxRetries)
}

func TestFromViper_InvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("RESOLVER_STREET_RADII", "200,abc")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("COMPLEX_BBOX", "1,2,3")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestRedisEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.RedisEnabled())

	cfg.Redis.Host = "localhost"
	assert.False(t, cfg.RedisEnabled())

	cfg.Resolver.Checkpoint = true
	assert.True(t, cfg.RedisEnabled())
}
