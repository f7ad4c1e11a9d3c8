package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	redisRepo "github.com/listing-resolver/internal/repository/redis"
)

const testStream = "test:stream:listing:resolved"

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testStream)
	return client
}

func TestEventPublisher_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewEventPublisher(client, redisRepo.DefaultStreamMaxLen, zap.NewNop())
	ctx := context.Background()
	defer client.Del(ctx, testStream)

	runID := uuid.New()
	event := domain.NewListingResolvedEvent(runID, domain.ResolutionUpdate{
		ListingID: 42,
		GeoID:     domain.Int64Ptr(3),
		StreetID:  domain.Int64Ptr(100),
		Methods:   []domain.MethodTag{domain.MethodGeoContains, domain.MethodStreetNearest},
		State:     domain.StateComplete,
	}, time.Now().UTC())

	require.NoError(t, repo.PublishToStream(ctx, testStream, event))

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.ListingResolvedEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, runID, received.RunID)
	assert.Equal(t, int64(42), received.ListingID)
	require.NotNil(t, received.StreetID)
	assert.Equal(t, int64(100), *received.StreetID)
	assert.Equal(t, domain.StateComplete, received.State)
	assert.Nil(t, received.ComplexID)
}

func TestEventPublisher_PublishBatch(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewEventPublisher(client, 0, zap.NewNop())
	ctx := context.Background()
	defer client.Del(ctx, testStream)

	runID := uuid.New()
	items := make([]interface{}, 0, 3)
	for i := int64(1); i <= 3; i++ {
		items = append(items, domain.NewListingResolvedEvent(runID, domain.ResolutionUpdate{
			ListingID: i,
			State:     domain.StateUnresolved,
		}, time.Now().UTC()))
	}

	require.NoError(t, repo.PublishBatch(ctx, testStream, items))

	n, err := client.XLen(ctx, testStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// пустая пачка ничего не пишет
	require.NoError(t, repo.PublishBatch(ctx, testStream, nil))
	n, err = client.XLen(ctx, testStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestEventPublisher_MarshalError(t *testing.T) {
	// клиент не используется: сериализация падает до обращения к Redis
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	repo := redisRepo.NewEventPublisher(client, 0, nil)

	err := repo.PublishToStream(context.Background(), testStream, make(chan int))
	assert.Error(t, err)

	err = repo.PublishBatch(context.Background(), testStream, []interface{}{func() {}})
	assert.Error(t, err)
}
