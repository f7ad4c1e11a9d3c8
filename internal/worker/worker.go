package worker

import (
	"context"
)

// Worker - фоновый процесс под управлением WorkerManager
type Worker interface {
	// Start запускает воркер и блокируется до его завершения.
	// Пакетный воркер может завершиться сам, когда работа закончилась.
	Start(ctx context.Context) error

	// Stop просит воркер завершиться
	Stop() error

	// Name возвращает имя воркера
	Name() string
}
