package postgresosm

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	pkgerrors "github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/geometry"
)

type featureRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFeatureRepository создает репозиторий жилых объектов OSM (planet_osm_polygon)
func NewFeatureRepository(db *DB) repository.OSMFeatureRepository {
	return &featureRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

type featureRow struct {
	OSMID     int64           `db:"osm_id"`
	Name      string          `db:"name"`
	Building  sql.NullString  `db:"building"`
	Landuse   sql.NullString  `db:"landuse"`
	TagsJSON  string          `db:"tags_json"`
	Geometry  []byte          `db:"geometry"`
	CenterLat sql.NullFloat64 `db:"center_lat"`
	CenterLon sql.NullFloat64 `db:"center_lon"`
}

// FeaturesInBBox возвращает именованные жилые здания и жилые зоны в bbox
func (r *featureRepository) FeaturesInBBox(ctx context.Context, bbox domain.BoundingBox) ([]*domain.OSMFeature, error) {
	if !bbox.Valid() {
		return nil, pkgerrors.ErrInvalidConfig.WithDetails(map[string]interface{}{"bbox": bbox})
	}

	query := fmt.Sprintf(`
		SELECT
			osm_id,
			name,
			building,
			landuse,
			COALESCE(hstore_to_json(tags)::text, '{}') AS tags_json,
			ST_AsEWKB(ST_Transform(way, %d)) AS geometry,
			ST_Y(ST_PointOnSurface(ST_Transform(way, %d))) AS center_lat,
			ST_X(ST_PointOnSurface(ST_Transform(way, %d))) AS center_lon
		FROM %s
		WHERE way && ST_Transform(ST_MakeEnvelope($1, $2, $3, $4, %d), %d)
		  AND name IS NOT NULL AND name <> ''
		  AND %s
		ORDER BY osm_id
		LIMIT $5
	`, SRID4326, SRID4326, SRID4326, planetPolygonTable, SRID4326, SRID3857, residentialFilter)

	var rows []featureRow
	err := r.db.SelectContext(ctx, &rows, query,
		bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat, LimitFeatures)
	if err != nil {
		r.logger.Error("failed to load osm residential features", zap.Any("bbox", bbox), zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError.Wrap(err)
	}

	features := make([]*domain.OSMFeature, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		g, err := geometry.DecodeEWKB(row.Geometry)
		if err != nil || g == nil {
			r.logger.Warn("osm feature geometry skipped", zap.Int64("osm_id", row.OSMID), zap.Error(err))
			skipped++
			continue
		}

		f := &domain.OSMFeature{
			OSMID:    row.OSMID,
			Name:     featureName(row.Name, parseTags([]byte(row.TagsJSON))),
			Kind:     featureKind(row.Building.String, row.Landuse.String),
			Geometry: g,
		}
		if row.CenterLat.Valid && row.CenterLon.Valid {
			f.Centroid = domain.Point{Lat: row.CenterLat.Float64, Lon: row.CenterLon.Float64}
		}
		features = append(features, f)
	}

	if len(rows) == LimitFeatures {
		r.logger.Warn("osm feature limit reached, bbox may be too large", zap.Int("limit", LimitFeatures))
	}

	r.logger.Info("osm residential features loaded",
		zap.Int("count", len(features)),
		zap.Int("skipped", skipped))

	return features, nil
}
