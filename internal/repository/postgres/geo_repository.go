package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/geometry"
)

type geoNodeRepository struct {
	db *DB
}

// NewGeoNodeRepository создает репозиторий географической иерархии
func NewGeoNodeRepository(db *DB) repository.GeoNodeRepository {
	return &geoNodeRepository{db: db}
}

type geoNodeRow struct {
	ID       int64          `db:"id"`
	ParentID sql.NullInt64  `db:"parent_id"`
	Type     string         `db:"type"`
	NameUk   sql.NullString `db:"name_uk"`
	NameRu   sql.NullString `db:"name_ru"`
	NameEn   sql.NullString `db:"name_en"`
	Left     int            `db:"lft"`
	Right    int            `db:"rgt"`
	Polygon  []byte         `db:"polygon"`
}

// LoadAll возвращает все узлы; строки с нечитаемой геометрией пропускаются с предупреждением
func (r *geoNodeRepository) LoadAll(ctx context.Context) ([]*domain.GeoNode, error) {
	query := `
		SELECT id, parent_id, type, name_uk, name_ru, name_en, lft, rgt,
		       ST_AsEWKB(polygon) AS polygon
		FROM geo_nodes
		ORDER BY lft
	`

	var rows []geoNodeRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.db.logger.Error("Failed to load geo nodes", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	nodes := make([]*domain.GeoNode, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		polygon, err := geometry.DecodeEWKB(row.Polygon)
		if err != nil {
			r.db.logger.Warn("Geo node geometry skipped",
				zap.Int64("id", row.ID),
				zap.Error(err))
			skipped++
			continue
		}

		node := &domain.GeoNode{
			ID:   row.ID,
			Type: domain.GeoType(row.Type),
			Name: domain.MultiName{
				Uk: row.NameUk.String,
				Ru: row.NameRu.String,
				En: row.NameEn.String,
			},
			Left:    row.Left,
			Right:   row.Right,
			Polygon: polygon,
		}
		if row.ParentID.Valid {
			node.ParentID = domain.Int64Ptr(row.ParentID.Int64)
		}
		nodes = append(nodes, node)
	}

	r.db.logger.Info("Geo nodes loaded",
		zap.Int("count", len(nodes)),
		zap.Int("skipped", skipped))

	return nodes, nil
}
