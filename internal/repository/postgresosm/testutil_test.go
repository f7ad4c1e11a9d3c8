package postgresosm

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/config"
)

// osmTestConfig - база osm2pgsql из docker-compose, переопределяется через OSM_DB_*
func osmTestConfig() *config.DatabaseConfig {
	port, err := strconv.Atoi(envOr("OSM_DB_PORT", "5435"))
	if err != nil {
		port = 5435
	}
	return &config.DatabaseConfig{
		Host:         envOr("OSM_DB_HOST", "localhost"),
		Port:         port,
		User:         envOr("OSM_DB_USER", "osmuser"),
		Password:     envOr("OSM_DB_PASSWORD", "osmpass"),
		DBName:       envOr("OSM_DB_NAME", "osm"),
		SSLMode:      envOr("OSM_DB_SSLMODE", "disable"),
		MaxConns:     2,
		MaxIdleConns: 1,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(osmTestConfig(), zap.NewNop())
	if err != nil {
		t.Skipf("OSM test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close osm test database: %v", err)
		}
	})
	return db
}

// skipIfNoOSMData пропускает тест, если osm2pgsql не загружал данные
func skipIfNoOSMData(t *testing.T, db *DB) {
	t.Helper()

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s LIMIT 1)", planetPolygonTable)
	if err := db.QueryRowContext(context.Background(), query).Scan(&exists); err != nil || !exists {
		t.Skipf("OSM data not available (err=%v)", err)
	}
}

func assertValidCoordinates(t *testing.T, lat, lon float64) {
	t.Helper()
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		t.Errorf("invalid coordinates: lat=%f lon=%f", lat, lon)
	}
}
