package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain/repository"
)

// DefaultStreamMaxLen - примерная длина, до которой Redis подрезает стрим результатов
const DefaultStreamMaxLen int64 = 100000

type streamRepository struct {
	client *redis.Client
	maxLen int64
	logger *zap.Logger
}

// NewEventPublisher создает публикатор событий. maxLen <= 0 - стрим не подрезается.
func NewEventPublisher(client *redis.Client, maxLen int64, logger *zap.Logger) repository.EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &streamRepository{
		client: client,
		maxLen: maxLen,
		logger: logger,
	}
}

func (r *streamRepository) addArgs(stream string, data interface{}) (*redis.XAddArgs, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}
	return args, nil
}

// PublishToStream публикует сообщение в стрим
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args, err := r.addArgs(stream, data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return err
	}

	result, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", result))
	return nil
}

// PublishBatch публикует сообщения одним pipeline. Ошибка сериализации
// любого элемента отменяет публикацию всей пачки.
func (r *streamRepository) PublishBatch(ctx context.Context, stream string, items []interface{}) error {
	if len(items) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, item := range items {
		args, err := r.addArgs(stream, item)
		if err != nil {
			r.logger.Error("Failed to marshal data",
				zap.String("stream", stream),
				zap.Error(err))
			return err
		}
		pipe.XAdd(ctx, args)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to publish batch to stream",
			zap.String("stream", stream),
			zap.Int("count", len(items)),
			zap.Error(err))
		return fmt.Errorf("failed to publish batch to stream: %w", err)
	}

	r.logger.Debug("Batch published to stream",
		zap.String("stream", stream),
		zap.Int("count", len(items)))
	return nil
}
