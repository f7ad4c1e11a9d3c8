package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/listing-resolver/internal/domain"
)

// ResolveBatchResult - результат привязки одного батча объявлений
type ResolveBatchResult struct {
	Updates  []domain.ResolutionUpdate `json:"updates"`
	Failures []ListingFailure          `json:"failures,omitempty"`
	Meta     ResolutionBatchMeta       `json:"meta"`
}

// ListingFailure - объявление, которое не удалось обработать
type ListingFailure struct {
	ListingID int64  `json:"listing_id"`
	Error     string `json:"error"`
}

// ResolutionBatchMeta - метаданные батча
type ResolutionBatchMeta struct {
	TotalListings  int            `json:"total_listings"`
	ChangedCount   int            `json:"changed_count"`   // есть что записать
	UnchangedCount int            `json:"unchanged_count"` // ничего нового не найдено
	MalformedCount int            `json:"malformed_count"` // координаты отброшены, текст обработан
	ErrorCount     int            `json:"error_count"`
	GeoCount       int            `json:"geo_count"`
	StreetCount    int            `json:"street_count"`
	ComplexCount   int            `json:"complex_count"`
	CompleteCount  int            `json:"complete_count"`
	Methods        map[string]int `json:"methods"`
	LastListingID  int64          `json:"last_listing_id"`
}

// Count учитывает обновление в метаданных
func (m *ResolutionBatchMeta) Count(u domain.ResolutionUpdate) {
	if m.Methods == nil {
		m.Methods = make(map[string]int)
	}
	if u.IsEmpty() {
		m.UnchangedCount++
	} else {
		m.ChangedCount++
	}
	if u.GeoID != nil {
		m.GeoCount++
	}
	if u.StreetID != nil {
		m.StreetCount++
	}
	if u.ComplexID != nil {
		m.ComplexCount++
	}
	if u.State == domain.StateComplete {
		m.CompleteCount++
	}
	for _, method := range u.Methods {
		m.Methods[string(method)]++
	}
}

// RunStats - итог прогона
type RunStats struct {
	RunID           uuid.UUID      `json:"run_id"`
	Batches         int            `json:"batches"`
	FailedBatches   int            `json:"failed_batches"`
	Processed       int            `json:"processed"`
	Written         int            `json:"written"`
	Errors          int            `json:"errors"`
	GeoResolved     int            `json:"geo_resolved"`
	StreetResolved  int            `json:"street_resolved"`
	ComplexResolved int            `json:"complex_resolved"`
	Methods         map[string]int `json:"methods"`
	LastListingID   int64          `json:"last_listing_id"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
}

// NewRunStats создает статистику прогона
func NewRunStats(runID uuid.UUID, startedAt time.Time) *RunStats {
	return &RunStats{
		RunID:     runID,
		Methods:   make(map[string]int),
		StartedAt: startedAt,
	}
}

// AddBatch добавляет метаданные записанного батча
func (s *RunStats) AddBatch(meta ResolutionBatchMeta, written int) {
	s.Batches++
	s.Processed += meta.TotalListings
	s.Written += written
	s.Errors += meta.ErrorCount
	s.GeoResolved += meta.GeoCount
	s.StreetResolved += meta.StreetCount
	s.ComplexResolved += meta.ComplexCount
	for k, v := range meta.Methods {
		s.Methods[k] += v
	}
	if meta.LastListingID > s.LastListingID {
		s.LastListingID = meta.LastListingID
	}
}

// Duration - длительность прогона
func (s *RunStats) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
