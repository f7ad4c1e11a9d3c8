package repository

import (
	"context"
)

// EventPublisher - публикация событий в Redis Streams
type EventPublisher interface {
	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error

	// PublishBatch публикует несколько сообщений одним pipeline
	PublishBatch(ctx context.Context, stream string, items []interface{}) error
}
