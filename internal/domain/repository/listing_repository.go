package repository

import (
	"context"

	"github.com/listing-resolver/internal/domain"
)

// MaxFetchBatch - наибольший limit, который хранилище отдает за один FetchBatch
const MaxFetchBatch = 10000

// ListingRepository - объявления и запись результатов привязки
type ListingRepository interface {
	// FetchBatch возвращает до limit объявлений с id > afterID по возрастанию id.
	// limit больше MaxFetchBatch урезается до MaxFetchBatch.
	FetchBatch(ctx context.Context, afterID int64, limit int) ([]domain.ListingInput, error)

	// ApplyUpdates записывает обновления в одной транзакции по правилу "заполнить, если пусто".
	// Возвращает число объявлений, в которых что-то изменилось.
	ApplyUpdates(ctx context.Context, updates []domain.ResolutionUpdate) (int, error)
}
