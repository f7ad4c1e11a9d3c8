package resolution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/index"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/usecase/dto"
	"github.com/listing-resolver/internal/worker"
)

const (
	defaultBatchSize    = 500
	defaultRetryBackoff = 500 * time.Millisecond
)

// Resolver привязывает батч объявлений к снимку справочников
type Resolver interface {
	ResolveBatch(ctx context.Context, snap *index.Snapshot, inputs []domain.ListingInput) (*dto.ResolveBatchResult, error)
}

// Config - параметры прогона
type Config struct {
	RunName        string
	BatchSize      int
	MaxRetries     int
	RetryBackoff   time.Duration
	Checkpoint     bool
	PublishResults bool
}

// BatchWorker проходит таблицу объявлений батчами по первичному ключу,
// привязывает каждый батч и записывает обновления одной транзакцией.
// Курсор сохраняется только пока все батчи прогона записаны успешно.
type BatchWorker struct {
	*worker.BaseWorker
	listings    repository.ListingRepository
	checkpoints repository.CheckpointRepository
	publisher   repository.EventPublisher
	resolver    Resolver
	snap        *index.Snapshot
	cfg         Config

	mu    sync.Mutex
	stats *dto.RunStats
}

// NewBatchWorker создает новый BatchWorker.
// checkpoints и publisher могут быть nil, тогда соответствующие шаги пропускаются.
func NewBatchWorker(
	listings repository.ListingRepository,
	checkpoints repository.CheckpointRepository,
	publisher repository.EventPublisher,
	resolver Resolver,
	snap *index.Snapshot,
	cfg Config,
	logger *zap.Logger,
) *BatchWorker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchSize > repository.MaxFetchBatch {
		logger.Warn("Batch size exceeds fetch limit, clamping",
			zap.Int("batch_size", cfg.BatchSize),
			zap.Int("limit", repository.MaxFetchBatch))
		cfg.BatchSize = repository.MaxFetchBatch
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.RunName == "" {
		cfg.RunName = "listings"
	}

	return &BatchWorker{
		BaseWorker:  worker.NewBaseWorker("listing-resolution", logger),
		listings:    listings,
		checkpoints: checkpoints,
		publisher:   publisher,
		resolver:    resolver,
		snap:        snap,
		cfg:         cfg,
	}
}

// Start запускает прогон; воркер завершается сам, когда объявления закончились
func (w *BatchWorker) Start(ctx context.Context) error {
	_, err := w.Run(ctx)
	return err
}

// Stats возвращает статистику последнего прогона
func (w *BatchWorker) Stats() *dto.RunStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run выполняет прогон и возвращает его статистику.
// Остановка через Stop завершает прогон после текущего батча без ошибки.
func (w *BatchWorker) Run(ctx context.Context) (*dto.RunStats, error) {
	logger := w.Logger()
	stats := dto.NewRunStats(uuid.New(), time.Now())
	defer func() {
		stats.FinishedAt = time.Now()
		w.mu.Lock()
		w.stats = stats
		w.mu.Unlock()
		w.logStats(stats)
	}()

	if w.snap == nil {
		return stats, errors.ErrSnapshotInvalid
	}

	cursor := w.startCursor(ctx)
	checkpointing := w.cfg.Checkpoint && w.checkpoints != nil

	logger.Info("Starting resolution run",
		zap.String("run_id", stats.RunID.String()),
		zap.String("run", w.cfg.RunName),
		zap.Int64("cursor", cursor),
		zap.Int("batch_size", w.cfg.BatchSize))

	for {
		select {
		case <-w.StopChan():
			logger.Info("Run stopped", zap.Int64("cursor", cursor))
			return stats, nil
		case <-ctx.Done():
			logger.Info("Context cancelled", zap.Int64("cursor", cursor))
			return stats, ctx.Err()
		default:
		}

		inputs, err := w.listings.FetchBatch(ctx, cursor, w.cfg.BatchSize)
		if err != nil {
			return stats, errors.ErrDatabaseError.Wrap(fmt.Errorf("fetch batch after %d: %w", cursor, err))
		}
		if len(inputs) == 0 {
			return stats, nil
		}

		res, err := w.resolver.ResolveBatch(ctx, w.snap, inputs)
		if err != nil {
			return stats, err
		}

		written, err := w.writeWithRetry(ctx, res.Updates)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Batches++
			stats.FailedBatches++
			stats.Processed += res.Meta.TotalListings
			stats.Errors += res.Meta.ErrorCount
			// курсор в хранилище больше не двигаем: батч придется пройти заново
			checkpointing = false
			logger.Error("Batch skipped after write retries",
				zap.Int64("after_id", cursor),
				zap.Int64("last_id", res.Meta.LastListingID),
				zap.Int("updates", len(res.Updates)),
				zap.Error(err))
		} else {
			stats.AddBatch(res.Meta, written)
			w.publish(ctx, stats.RunID, res.Updates)
			if checkpointing {
				if err := w.checkpoints.Set(ctx, w.cfg.RunName, res.Meta.LastListingID); err != nil {
					logger.Warn("Failed to save checkpoint",
						zap.Int64("cursor", res.Meta.LastListingID),
						zap.Error(err))
				}
			}
			logger.Info("Batch written",
				zap.Int64("after_id", cursor),
				zap.Int64("last_id", res.Meta.LastListingID),
				zap.Int("listings", res.Meta.TotalListings),
				zap.Int("updates", len(res.Updates)),
				zap.Int("written", written),
				zap.Int("errors", res.Meta.ErrorCount))
		}

		if res.Meta.LastListingID > cursor {
			cursor = res.Meta.LastListingID
		}
		// короткий батч - последний: BatchSize не больше того, что отдает FetchBatch
		if len(inputs) < w.cfg.BatchSize {
			return stats, nil
		}
	}
}

// startCursor читает сохраненный курсор; ошибка чтения не фатальна, прогон начинается сначала
func (w *BatchWorker) startCursor(ctx context.Context) int64 {
	if !w.cfg.Checkpoint || w.checkpoints == nil {
		return 0
	}
	cursor, err := w.checkpoints.Get(ctx, w.cfg.RunName)
	if err != nil {
		w.Logger().Warn("Failed to read checkpoint, starting from the beginning", zap.Error(err))
		return 0
	}
	return cursor
}

// writeWithRetry записывает батч целиком, повторяя до MaxRetries раз с линейной задержкой
func (w *BatchWorker) writeWithRetry(ctx context.Context, updates []domain.ResolutionUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	var lastErr error
	for attempt := 0; attempt <= w.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * w.cfg.RetryBackoff
			w.Logger().Warn("Retrying batch write",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(delay):
			}
		}

		written, err := w.listings.ApplyUpdates(ctx, updates)
		if err == nil {
			return written, nil
		}
		lastErr = err
	}

	return 0, errors.ErrStoreFailure.Wrap(lastErr)
}

// publish отправляет записанные обновления в стрим; ошибка публикации не отменяет запись
func (w *BatchWorker) publish(ctx context.Context, runID uuid.UUID, updates []domain.ResolutionUpdate) {
	if !w.cfg.PublishResults || w.publisher == nil || len(updates) == 0 {
		return
	}

	now := time.Now().UTC()
	items := make([]interface{}, len(updates))
	for i, u := range updates {
		items[i] = domain.NewListingResolvedEvent(runID, u, now)
	}

	if err := w.publisher.PublishBatch(ctx, domain.StreamListingResolved, items); err != nil {
		w.Logger().Warn("Failed to publish resolved events",
			zap.Int("count", len(items)),
			zap.Error(err))
	}
}

func (w *BatchWorker) logStats(s *dto.RunStats) {
	fields := []zap.Field{
		zap.String("run_id", s.RunID.String()),
		zap.Int("batches", s.Batches),
		zap.Int("failed_batches", s.FailedBatches),
		zap.Int("processed", s.Processed),
		zap.Int("written", s.Written),
		zap.Int("errors", s.Errors),
		zap.Int("geo_resolved", s.GeoResolved),
		zap.Int("street_resolved", s.StreetResolved),
		zap.Int("complex_resolved", s.ComplexResolved),
		zap.Int64("last_listing_id", s.LastListingID),
		zap.Duration("duration", s.Duration()),
	}
	for method, n := range s.Methods {
		fields = append(fields, zap.Int("method_"+method, n))
	}
	w.Logger().Info("Resolution run finished", fields...)
}
