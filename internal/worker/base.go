package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker содержит общую логику для всех воркеров
type BaseWorker struct {
	name     string
	logger   *zap.Logger
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewBaseWorker создает новый BaseWorker
func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseWorker{
		name:     name,
		logger:   logger.With(zap.String("worker", name)),
		stopChan: make(chan struct{}),
	}
}

// Name возвращает имя воркера
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop сигнализирует воркеру завершиться после текущего батча
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true

	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan возвращает канал остановки
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// Logger возвращает логгер
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
