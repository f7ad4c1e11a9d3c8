package postgresosm

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/config"
)

// DB - подключение к OSM PostgreSQL (таблицы planet_osm_*, загруженные osm2pgsql с --hstore).
// Используется только офлайн при построении таблицы ЖК.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New создает новое подключение к OSM базе данных
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to osm database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping osm database: %w", err)
	}

	logger.Info("OSM PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
	)

	return &DB{DB: db, logger: logger}, nil
}

// Close закрывает соединение с БД
func (db *DB) Close() error {
	db.logger.Info("Closing OSM PostgreSQL connection")
	return db.DB.Close()
}

// NewDBForTest создает экземпляр DB для тестов
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}
