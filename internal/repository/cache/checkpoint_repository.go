package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/errors"
)

const checkpointKeyPrefix = "resolver:checkpoint:"

type checkpointRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCheckpointRepository создает хранилище курсоров прогонов в Redis
func NewCheckpointRepository(r *Redis) repository.CheckpointRepository {
	return &checkpointRepository{
		client: r.Client(),
		logger: r.logger,
	}
}

func checkpointKey(run string) string {
	return checkpointKeyPrefix + run
}

func (r *checkpointRepository) Get(ctx context.Context, run string) (int64, error) {
	val, err := r.client.Get(ctx, checkpointKey(run)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Failed to get checkpoint", zap.String("run", run), zap.Error(err))
		return 0, errors.ErrCacheError.Wrap(err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errors.ErrCacheError.Wrap(fmt.Errorf("checkpoint %q is not an id: %w", val, err))
	}

	r.logger.Debug("Checkpoint loaded", zap.String("run", run), zap.Int64("last_id", id))
	return id, nil
}

// Set сохраняет курсор без TTL: прогон может продолжиться через сколько угодно времени
func (r *checkpointRepository) Set(ctx context.Context, run string, lastID int64) error {
	if err := r.client.Set(ctx, checkpointKey(run), lastID, 0).Err(); err != nil {
		r.logger.Error("Failed to set checkpoint", zap.String("run", run), zap.Error(err))
		return errors.ErrCacheError.Wrap(err)
	}
	return nil
}

func (r *checkpointRepository) Reset(ctx context.Context, run string) error {
	if err := r.client.Del(ctx, checkpointKey(run)).Err(); err != nil {
		r.logger.Error("Failed to reset checkpoint", zap.String("run", run), zap.Error(err))
		return errors.ErrCacheError.Wrap(err)
	}
	r.logger.Info("Checkpoint reset", zap.String("run", run))
	return nil
}
