package repository

import (
	"context"
)

// CheckpointRepository хранит курсор прогона, чтобы продолжить его после остановки
type CheckpointRepository interface {
	// Get возвращает последний записанный ID объявления (0, если прогона еще не было)
	Get(ctx context.Context, run string) (int64, error)

	// Set сохраняет курсор
	Set(ctx context.Context, run string, lastID int64) error

	// Reset удаляет курсор
	Reset(ctx context.Context, run string) error
}
