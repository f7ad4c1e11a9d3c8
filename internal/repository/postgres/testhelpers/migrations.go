package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations накатывает *.up.sql из dir по порядку имен и возвращает примененные файлы.
// Миграции написаны идемпотентно (IF NOT EXISTS), повторный запуск безопасен.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	applied := make([]string, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
		applied = append(applied, filepath.Base(file))
	}
	return applied, nil
}
