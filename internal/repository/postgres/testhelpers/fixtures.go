package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/geometry"
)

// SeedGeoNodes записывает узлы иерархии; родители должны идти раньше детей
func SeedGeoNodes(ctx context.Context, db *sqlx.DB, nodes []*domain.GeoNode) error {
	for _, n := range nodes {
		polygon, err := geometry.EncodeEWKB(n.Polygon)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO geo_nodes (id, parent_id, type, name_uk, name_ru, name_en, lft, rgt, polygon)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8,
			        ST_SetSRID(ST_GeomFromEWKB($9), 4326))`,
			n.ID, n.ParentID, string(n.Type), n.Name.Uk, n.Name.Ru, n.Name.En, n.Left, n.Right, polygon)
		if err != nil {
			return fmt.Errorf("seed geo node %d: %w", n.ID, err)
		}
	}
	return nil
}

// SeedStreets записывает улицы и историю названий
func SeedStreets(ctx context.Context, db *sqlx.DB, streets []*domain.Street) error {
	for _, s := range streets {
		g, err := geometry.EncodeEWKB(s.Geometry)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO streets (id, geo_id, name_uk, name_ru, name_en, geometry)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			        ST_SetSRID(ST_GeomFromEWKB($6), 4326))`,
			s.ID, s.GeoID, s.Name.Uk, s.Name.Ru, s.Name.En, g)
		if err != nil {
			return fmt.Errorf("seed street %d: %w", s.ID, err)
		}

		langs := make([]string, 0, len(s.History))
		for lang := range s.History {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			for pos, name := range s.History[lang] {
				_, err = db.ExecContext(ctx, `
					INSERT INTO street_name_history (street_id, lang, position, name)
					VALUES ($1, $2, $3, $4)`,
					s.ID, lang, pos, name)
				if err != nil {
					return fmt.Errorf("seed street %d history: %w", s.ID, err)
				}
			}
		}
	}
	return nil
}

// SeedListing записывает объявление
func SeedListing(ctx context.Context, db *sqlx.DB, in domain.ListingInput) error {
	methods := "{}"
	if len(in.Methods) > 0 {
		methods = "{" + strings.Join(in.Methods, ",") + "}"
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO listings (id, lat, lng, title, description, geo_id, street_id, complex_id, resolution_methods)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text[])`,
		in.ID, in.Lat, in.Lng, in.Title, in.Description, in.GeoID, in.StreetID, in.ComplexID, methods)
	if err != nil {
		return fmt.Errorf("seed listing %d: %w", in.ID, err)
	}
	return nil
}

// ListingState - сохраненное состояние объявления
type ListingState struct {
	GeoID     sql.NullInt64 `db:"geo_id"`
	StreetID  sql.NullInt64 `db:"street_id"`
	ComplexID sql.NullInt64 `db:"complex_id"`
	Methods   string        `db:"methods"`
	State     string        `db:"resolution_state"`
}

// GetListingState читает поля привязки объявления
func GetListingState(ctx context.Context, db *sqlx.DB, id int64) (*ListingState, error) {
	var st ListingState
	err := db.GetContext(ctx, &st, `
		SELECT geo_id, street_id, complex_id,
		       array_to_string(resolution_methods, ',') AS methods,
		       resolution_state
		FROM listings WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	return &st, nil
}
