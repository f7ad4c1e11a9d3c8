package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// shutdownTimeout - максимальное время ожидания завершения воркеров
	shutdownTimeout = 30 * time.Second
)

// WorkerManager управляет несколькими воркерами
type WorkerManager struct {
	workers []Worker
	logger  *zap.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	errs    []error
	done    chan struct{}
	started bool
}

// NewWorkerManager создает новый WorkerManager
func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerManager{
		workers: make([]Worker, 0),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Register регистрирует воркер
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Start запускает все зарегистрированные воркеры
func (m *WorkerManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("workers already started")
	}
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	m.started = len(workers) > 0
	m.mu.Unlock()

	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, worker := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()

			m.logger.Info("Starting worker", zap.String("name", w.Name()))
			if err := w.Start(ctx); err != nil {
				m.logger.Error("Worker failed",
					zap.String("name", w.Name()),
					zap.Error(err))
				m.mu.Lock()
				m.errs = append(m.errs, fmt.Errorf("%s: %w", w.Name(), err))
				m.mu.Unlock()
				return
			}
			m.logger.Info("Worker finished", zap.String("name", w.Name()))
		}(worker)
	}

	go func() {
		m.wg.Wait()
		close(m.done)
	}()

	return nil
}

// Done закрывается, когда все запущенные воркеры завершились сами
func (m *WorkerManager) Done() <-chan struct{} {
	return m.done
}

// Err возвращает ошибки воркеров, завершившихся неуспешно
func (m *WorkerManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}

// Stop останавливает все воркеры с timeout
func (m *WorkerManager) Stop() error {
	m.mu.Lock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	started := m.started
	m.mu.Unlock()

	if !started {
		return nil
	}

	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	// сигнализируем о завершении, текущий батч дописывается
	for _, worker := range workers {
		if err := worker.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("name", worker.Name()),
				zap.Error(err))
		}
	}

	select {
	case <-m.done:
		m.logger.Info("All workers stopped gracefully")
	case <-time.After(shutdownTimeout):
		m.logger.Warn("Workers shutdown timed out, some batches may not have been written",
			zap.Duration("timeout", shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", shutdownTimeout)
	}

	return nil
}
