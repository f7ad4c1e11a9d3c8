package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/listing-resolver/internal/domain"
)

type Config struct {
	Database    DatabaseConfig
	OSMDatabase DatabaseConfig
	Redis       RedisConfig
	Log         LogConfig
	Resolver    ResolverConfig
	Complex     ComplexConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// ResolverConfig - параметры пакетного резолвинга объявлений
type ResolverConfig struct {
	Enabled        bool
	RunName        string
	BatchSize      int
	Workers        int
	StreetRadii    []float64 // метры, по возрастанию
	MaxRetries     int
	RetryBackoff   time.Duration
	Checkpoint     bool
	PublishResults bool
}

// ComplexConfig - параметры офлайн построения индекса ЖК
type ComplexConfig struct {
	CSVPath              string
	MatchRadius          float64 // метры
	MatchThreshold       float64
	FuzzyLookupThreshold float64
	BBox                 []float64 // min_lon,min_lat,max_lon,max_lat
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile())
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// .env не обязателен: в контейнере всё приходит через окружение
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v)
}

func envFile() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return ".env"
}

func fromViper(v *viper.Viper) (*Config, error) {
	// 0 - допустимое значение (без повторов), поэтому подставляется только незаданный параметр
	v.SetDefault("RESOLVER_MAX_RETRIES", 3)

	radii, err := parseFloats(v.GetString("RESOLVER_STREET_RADII"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESOLVER_STREET_RADII: %w", err)
	}
	bbox, err := parseFloats(v.GetString("COMPLEX_BBOX"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMPLEX_BBOX: %w", err)
	}
	if len(bbox) != 0 && len(bbox) != 4 {
		return nil, fmt.Errorf("invalid COMPLEX_BBOX: expected 4 values, got %d", len(bbox))
	}

	cfg := &Config{
		Database:    databaseConfig(v, "DB"),
		OSMDatabase: databaseConfig(v, "OSM_DB"),
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Resolver: ResolverConfig{
			Enabled:        v.GetBool("RESOLVER_ENABLED"),
			RunName:        v.GetString("RESOLVER_RUN_NAME"),
			BatchSize:      v.GetInt("RESOLVER_BATCH_SIZE"),
			Workers:        v.GetInt("RESOLVER_WORKERS"),
			StreetRadii:    radii,
			MaxRetries:     v.GetInt("RESOLVER_MAX_RETRIES"),
			RetryBackoff:   time.Duration(v.GetInt("RESOLVER_RETRY_BACKOFF")) * time.Millisecond,
			Checkpoint:     v.GetBool("RESOLVER_CHECKPOINT"),
			PublishResults: v.GetBool("RESOLVER_PUBLISH_RESULTS"),
		},
		Complex: ComplexConfig{
			CSVPath:              v.GetString("COMPLEX_CSV_PATH"),
			MatchRadius:          v.GetFloat64("COMPLEX_MATCH_RADIUS"),
			MatchThreshold:       v.GetFloat64("COMPLEX_MATCH_THRESHOLD"),
			FuzzyLookupThreshold: v.GetFloat64("COMPLEX_FUZZY_LOOKUP_THRESHOLD"),
			BBox:                 bbox,
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

func databaseConfig(v *viper.Viper, prefix string) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString(prefix + "_HOST"),
		Port:            v.GetInt(prefix + "_PORT"),
		User:            v.GetString(prefix + "_USER"),
		Password:        v.GetString(prefix + "_PASSWORD"),
		DBName:          v.GetString(prefix + "_NAME"),
		SSLMode:         v.GetString(prefix + "_SSLMODE"),
		MaxConns:        v.GetInt(prefix + "_MAX_CONNS"),
		MaxIdleConns:    v.GetInt(prefix + "_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt(prefix+"_CONN_MAX_LIFETIME")) * time.Second,
		ConnMaxIdleTime: time.Duration(v.GetInt(prefix+"_CONN_MAX_IDLE_TIME")) * time.Second,
	}
}

// applyDefaults подставляет значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	for _, db := range []*DatabaseConfig{&c.Database, &c.OSMDatabase} {
		if db.SSLMode == "" {
			db.SSLMode = "disable"
		}
		if db.MaxConns == 0 {
			db.MaxConns = 10
		}
		if db.MaxIdleConns == 0 {
			db.MaxIdleConns = 5
		}
	}

	if c.Resolver.RunName == "" {
		c.Resolver.RunName = "listings"
	}
	if c.Resolver.BatchSize == 0 {
		c.Resolver.BatchSize = 500
	}
	if c.Resolver.Workers == 0 {
		c.Resolver.Workers = 8
	}
	if len(c.Resolver.StreetRadii) == 0 {
		c.Resolver.StreetRadii = []float64{200, 500, 5000}
	}
	if c.Resolver.RetryBackoff == 0 {
		c.Resolver.RetryBackoff = 500 * time.Millisecond
	}

	if c.Complex.MatchRadius == 0 {
		c.Complex.MatchRadius = 500
	}
	if c.Complex.MatchThreshold == 0 {
		c.Complex.MatchThreshold = 0.5
	}
	if c.Complex.FuzzyLookupThreshold == 0 {
		c.Complex.FuzzyLookupThreshold = 0.9
	}
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	result := make([]float64, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN строит строку подключения для pgx/sqlx
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// RedisEnabled - нужен ли Redis для текущего запуска (чекпоинты или публикация результатов)
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != "" && (c.Resolver.Checkpoint || c.Resolver.PublishResults)
}

// BoundingBox возвращает bbox выборки объектов OSM; false, если COMPLEX_BBOX не задан
func (c ComplexConfig) BoundingBox() (domain.BoundingBox, bool) {
	if len(c.BBox) != 4 {
		return domain.BoundingBox{}, false
	}
	return domain.BoundingBox{
		MinLon: c.BBox[0],
		MinLat: c.BBox[1],
		MaxLon: c.BBox[2],
		MaxLat: c.BBox[3],
	}, true
}
