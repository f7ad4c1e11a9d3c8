// Package csvsource читает курируемую выгрузку ЖК в CSV.
//
// Ожидаемые колонки (порядок не важен, лишние игнорируются):
//
//	id,name_uk,name_ru,name_en,latitude,longitude
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/validator"
)

// complexRow - строка выгрузки как она лежит в файле
type complexRow struct {
	ID        string  `csv:"id"`
	NameUk    string  `csv:"name_uk,omitempty"`
	NameRu    string  `csv:"name_ru,omitempty"`
	NameEn    string  `csv:"name_en,omitempty"`
	Latitude  float64 `csv:"latitude" validate:"latitude"`
	Longitude float64 `csv:"longitude" validate:"longitude"`
}

func (r complexRow) record() domain.ComplexRecord {
	return domain.ComplexRecord{
		ExternalID: strings.TrimSpace(r.ID),
		Name: domain.MultiName{
			Uk: strings.TrimSpace(r.NameUk),
			Ru: strings.TrimSpace(r.NameRu),
			En: strings.TrimSpace(r.NameEn),
		},
		Centroid: domain.Point{Lat: r.Latitude, Lon: r.Longitude},
	}
}

// ReadStats - итог чтения выгрузки
type ReadStats struct {
	Rows    int
	Valid   int
	Skipped int
}

// ReadComplexes декодирует выгрузку. Строки с невалидными координатами,
// без единого названия или не разбираемые как числа пропускаются с предупреждением;
// ошибка возвращается только если файл нельзя прочитать как CSV с заголовком.
func ReadComplexes(r io.Reader, logger *zap.Logger) ([]domain.ComplexRecord, ReadStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var stats ReadStats

	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		if err == io.EOF {
			return nil, stats, nil
		}
		return nil, stats, errors.ErrSourceError.Wrap(fmt.Errorf("failed to read csv header: %w", err))
	}

	var records []domain.ComplexRecord
	for {
		var row complexRow
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		stats.Rows++
		line := stats.Rows + 1
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				return nil, stats, errors.ErrSourceError.Wrap(err)
			}
			logger.Warn("Skipping undecodable complex row", zap.Int("line", line), zap.Error(err))
			stats.Skipped++
			continue
		}

		if err := validator.Validate(row); err != nil {
			logger.Warn("Skipping complex row with invalid coordinates",
				zap.Int("line", line),
				zap.String("id", row.ID),
				zap.String("violations", validator.Describe(err)))
			stats.Skipped++
			continue
		}

		rec := row.record()
		if rec.Name.IsEmpty() {
			logger.Warn("Skipping complex row without name", zap.Int("line", line), zap.String("id", row.ID))
			stats.Skipped++
			continue
		}

		records = append(records, rec)
		stats.Valid++
	}

	return records, stats, nil
}

type complexFileSource struct {
	path   string
	logger *zap.Logger
}

// NewComplexFileSource создает источник записей ЖК из CSV-файла
func NewComplexFileSource(path string, logger *zap.Logger) repository.ComplexRecordSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &complexFileSource{path: path, logger: logger}
}

func (s *complexFileSource) ReadComplexes(ctx context.Context) ([]domain.ComplexRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, errors.ErrInvalidConfig.WithDetails(map[string]interface{}{"field": "complex.csv_path"})
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.ErrSourceError.Wrap(fmt.Errorf("failed to open %s: %w", s.path, err))
	}
	defer f.Close()

	records, stats, err := ReadComplexes(f, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complex CSV loaded",
		zap.String("path", s.path),
		zap.Int("rows", stats.Rows),
		zap.Int("valid", stats.Valid),
		zap.Int("skipped", stats.Skipped))

	return records, nil
}
