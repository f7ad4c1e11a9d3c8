package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/geometry"
)

type complexRepository struct {
	db *DB
}

// NewComplexRepository создает репозиторий итоговой таблицы ЖК
func NewComplexRepository(db *DB) repository.ComplexRepository {
	return &complexRepository{db: db}
}

type complexRow struct {
	ID          int64           `db:"id"`
	NameUk      sql.NullString  `db:"name_uk"`
	NameRu      sql.NullString  `db:"name_ru"`
	NameEn      sql.NullString  `db:"name_en"`
	CentroidLat sql.NullFloat64 `db:"centroid_lat"`
	CentroidLon sql.NullFloat64 `db:"centroid_lon"`
	Footprint   []byte          `db:"footprint"`
	StreetID    sql.NullInt64   `db:"street_id"`
	GeoID       sql.NullInt64   `db:"geo_id"`
	Source      string          `db:"source"`
	OSMID       sql.NullInt64   `db:"osm_id"`
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return domain.Int64Ptr(v.Int64)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// LoadAll возвращает все ЖК по возрастанию ID
func (r *complexRepository) LoadAll(ctx context.Context) ([]*domain.ApartmentComplex, error) {
	query := `
		SELECT id, name_uk, name_ru, name_en, centroid_lat, centroid_lon,
		       ST_AsEWKB(footprint) AS footprint, street_id, geo_id, source, osm_id
		FROM apartment_complexes
		ORDER BY id
	`

	var rows []complexRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.db.logger.Error("Failed to load complexes", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	complexes := make([]*domain.ApartmentComplex, 0, len(rows))
	for _, row := range rows {
		footprint, err := geometry.DecodeEWKB(row.Footprint)
		if err != nil {
			// ЖК без футпринта все еще находится по названию
			r.db.logger.Warn("Complex footprint dropped",
				zap.Int64("id", row.ID),
				zap.Error(err))
			footprint = nil
		}

		complexes = append(complexes, &domain.ApartmentComplex{
			ID: row.ID,
			Name: domain.MultiName{
				Uk: row.NameUk.String,
				Ru: row.NameRu.String,
				En: row.NameEn.String,
			},
			Centroid:  domain.Point{Lat: row.CentroidLat.Float64, Lon: row.CentroidLon.Float64},
			Footprint: footprint,
			StreetID:  nullInt64Ptr(row.StreetID),
			GeoID:     nullInt64Ptr(row.GeoID),
			Source:    domain.ComplexSource(row.Source),
			OSMID:     nullInt64Ptr(row.OSMID),
		})
	}

	r.db.logger.Info("Complexes loaded", zap.Int("count", len(complexes)))

	return complexes, nil
}

// ReplaceAll заменяет таблицу ЖК целиком в одной транзакции
func (r *complexRepository) ReplaceAll(ctx context.Context, complexes []*domain.ApartmentComplex) error {
	insert := `
		INSERT INTO apartment_complexes (
			id, name_uk, name_ru, name_en, centroid_lat, centroid_lon,
			footprint, street_id, geo_id, source, osm_id
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			ST_SetSRID(ST_GeomFromEWKB($7), 4326), $8, $9, $10, $11
		)
	`

	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM apartment_complexes`); err != nil {
			return fmt.Errorf("clear complexes: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range complexes {
			footprint, err := geometry.EncodeEWKB(c.Footprint)
			if err != nil {
				return fmt.Errorf("complex %d: %w", c.ID, err)
			}

			var lat, lon sql.NullFloat64
			if c.Centroid.Valid() {
				lat = sql.NullFloat64{Float64: c.Centroid.Lat, Valid: true}
				lon = sql.NullFloat64{Float64: c.Centroid.Lon, Valid: true}
			}

			if _, err := stmt.ExecContext(ctx,
				c.ID,
				nullString(c.Name.Uk), nullString(c.Name.Ru), nullString(c.Name.En),
				lat, lon,
				geometryArg(footprint),
				c.StreetID, c.GeoID,
				string(c.Source),
				c.OSMID,
			); err != nil {
				return fmt.Errorf("insert complex %d: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.db.logger.Error("Failed to replace complexes", zap.Int("count", len(complexes)), zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}

	r.db.logger.Info("Complex table replaced", zap.Int("count", len(complexes)))
	return nil
}

// AssignReferences заполняет улицу и гео-узел ЖК, только если они пусты
func (r *complexRepository) AssignReferences(ctx context.Context, id int64, streetID, geoID *int64) error {
	query := `
		UPDATE apartment_complexes
		SET street_id = COALESCE(street_id, $2),
		    geo_id    = COALESCE(geo_id, $3)
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, streetID, geoID); err != nil {
		r.db.logger.Error("Failed to assign complex references", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}
	return nil
}
