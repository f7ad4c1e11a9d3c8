package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/errors"
)

type listingRepository struct {
	db *DB
}

// NewListingRepository создает репозиторий объявлений
func NewListingRepository(db *DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

type listingRow struct {
	domain.ListingInput
	Methods pq.StringArray `db:"resolution_methods"`
}

// FetchBatch возвращает следующий батч объявлений, у которых еще есть пустые поля
func (r *listingRepository) FetchBatch(ctx context.Context, afterID int64, limit int) ([]domain.ListingInput, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	if limit > MaxBatchLimit {
		limit = MaxBatchLimit
	}

	query := `
		SELECT id, lat, lng, title, description, geo_id, street_id, complex_id, resolution_methods
		FROM listings
		WHERE id > $1
		  AND (geo_id IS NULL OR street_id IS NULL OR complex_id IS NULL)
		ORDER BY id
		LIMIT $2
	`

	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, query, afterID, limit); err != nil {
		r.db.logger.Error("Failed to fetch listings batch",
			zap.Int64("after_id", afterID),
			zap.Int("limit", limit),
			zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	inputs := make([]domain.ListingInput, len(rows))
	for i, row := range rows {
		inputs[i] = row.ListingInput
		inputs[i].Methods = []string(row.Methods)
	}
	return inputs, nil
}

// applyUpdateQuery пишет значения только в пустые поля.
// Метки добавляются только для полей, которые были пусты до записи.
// Объявление, в котором нечего менять, не трогается.
const applyUpdateQuery = `
	UPDATE listings SET
		geo_id     = COALESCE(geo_id, $2),
		street_id  = COALESCE(street_id, $3),
		complex_id = COALESCE(complex_id, $4),
		resolution_methods = resolution_methods
			|| CASE WHEN geo_id IS NULL AND $2::bigint IS NOT NULL
			        THEN COALESCE($5::text[], '{}') ELSE '{}'::text[] END
			|| CASE WHEN street_id IS NULL AND $3::bigint IS NOT NULL
			        THEN COALESCE($6::text[], '{}') ELSE '{}'::text[] END
			|| CASE WHEN complex_id IS NULL AND $4::bigint IS NOT NULL
			        THEN COALESCE($7::text[], '{}') ELSE '{}'::text[] END,
		resolution_state = $8,
		resolved_at = NOW()
	WHERE id = $1
	  AND ((geo_id IS NULL AND $2::bigint IS NOT NULL)
	    OR (street_id IS NULL AND $3::bigint IS NOT NULL)
	    OR (complex_id IS NULL AND $4::bigint IS NOT NULL))
`

// ApplyUpdates записывает батч одной транзакцией: либо весь батч, либо ничего
func (r *listingRepository) ApplyUpdates(ctx context.Context, updates []domain.ResolutionUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	written := 0
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, applyUpdateQuery)
		if err != nil {
			return fmt.Errorf("prepare update: %w", err)
		}
		defer stmt.Close()

		written = 0
		for _, u := range updates {
			res, err := stmt.ExecContext(ctx,
				u.ListingID,
				u.GeoID, u.StreetID, u.ComplexID,
				pq.Array(u.MethodsFor(domain.FieldGeo)),
				pq.Array(u.MethodsFor(domain.FieldStreet)),
				pq.Array(u.MethodsFor(domain.FieldComplex)),
				string(u.State),
			)
			if err != nil {
				return fmt.Errorf("update listing %d: %w", u.ListingID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected for listing %d: %w", u.ListingID, err)
			}
			written += int(n)
		}
		return nil
	})
	if err != nil {
		r.db.logger.Error("Failed to apply resolution updates",
			zap.Int("count", len(updates)),
			zap.Error(err))
		return 0, errors.ErrStoreFailure.Wrap(err)
	}

	return written, nil
}
