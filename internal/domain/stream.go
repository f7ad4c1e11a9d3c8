package domain

import (
	"time"

	"github.com/google/uuid"
)

// StreamListingResolved - стрим с результатами привязки объявлений
const StreamListingResolved = "stream:listing:resolved"

// ListingResolvedEvent - событие о записанной привязке объявления
type ListingResolvedEvent struct {
	RunID      uuid.UUID       `json:"run_id"`
	ListingID  int64           `json:"listing_id"`
	GeoID      *int64          `json:"geo_id,omitempty"`
	StreetID   *int64          `json:"street_id,omitempty"`
	ComplexID  *int64          `json:"complex_id,omitempty"`
	Methods    []string        `json:"resolution_methods"`
	State      ResolutionState `json:"state"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// NewListingResolvedEvent строит событие из обновления
func NewListingResolvedEvent(runID uuid.UUID, u ResolutionUpdate, at time.Time) ListingResolvedEvent {
	return ListingResolvedEvent{
		RunID:      runID,
		ListingID:  u.ListingID,
		GeoID:      u.GeoID,
		StreetID:   u.StreetID,
		ComplexID:  u.ComplexID,
		Methods:    u.MethodStrings(),
		State:      u.State,
		ResolvedAt: at,
	}
}
