package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/geometry"
)

type streetRepository struct {
	db *DB
}

// NewStreetRepository создает репозиторий улиц
func NewStreetRepository(db *DB) repository.StreetRepository {
	return &streetRepository{db: db}
}

type streetRow struct {
	ID           int64          `db:"id"`
	GeoID        int64          `db:"geo_id"`
	NameUk       sql.NullString `db:"name_uk"`
	NameRu       sql.NullString `db:"name_ru"`
	NameEn       sql.NullString `db:"name_en"`
	Geometry     []byte         `db:"geometry"`
	HistoryLangs pq.StringArray `db:"history_langs"`
	HistoryNames pq.StringArray `db:"history_names"`
}

// LoadAll возвращает улицы вместе с историей названий.
// История собирается одним запросом: массивы языков и названий выровнены по позиции.
func (r *streetRepository) LoadAll(ctx context.Context) ([]*domain.Street, error) {
	query := `
		SELECT s.id, s.geo_id, s.name_uk, s.name_ru, s.name_en,
		       ST_AsEWKB(s.geometry) AS geometry,
		       COALESCE(array_agg(h.lang ORDER BY h.lang, h.position)
		                FILTER (WHERE h.street_id IS NOT NULL), '{}') AS history_langs,
		       COALESCE(array_agg(h.name ORDER BY h.lang, h.position)
		                FILTER (WHERE h.street_id IS NOT NULL), '{}') AS history_names
		FROM streets s
		LEFT JOIN street_name_history h ON h.street_id = s.id
		GROUP BY s.id
		ORDER BY s.id
	`

	var rows []streetRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.db.logger.Error("Failed to load streets", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	streets := make([]*domain.Street, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		g, err := geometry.DecodeEWKB(row.Geometry)
		if err != nil {
			r.db.logger.Warn("Street geometry skipped",
				zap.Int64("id", row.ID),
				zap.Error(err))
			skipped++
			continue
		}

		streets = append(streets, &domain.Street{
			ID:    row.ID,
			GeoID: row.GeoID,
			Name: domain.MultiName{
				Uk: row.NameUk.String,
				Ru: row.NameRu.String,
				En: row.NameEn.String,
			},
			History:  groupHistory(row.HistoryLangs, row.HistoryNames),
			Geometry: g,
		})
	}

	r.db.logger.Info("Streets loaded",
		zap.Int("count", len(streets)),
		zap.Int("skipped", skipped))

	return streets, nil
}

// groupHistory раскладывает выровненные массивы в map язык -> названия по позиции
func groupHistory(langs, names []string) map[string][]string {
	if len(langs) == 0 || len(langs) != len(names) {
		return nil
	}
	history := make(map[string][]string)
	for i, lang := range langs {
		history[lang] = append(history[lang], names[i])
	}
	return history
}
