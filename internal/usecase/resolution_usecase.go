package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/index"
	"github.com/listing-resolver/internal/matching"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/utils"
	"github.com/listing-resolver/internal/pkg/validator"
	"github.com/listing-resolver/internal/usecase/dto"
)

// DefaultStreetRadii - радиусы поиска ближайшей улицы, м: плотная застройка, окраины, села
var DefaultStreetRadii = []float64{200, 500, 5000}

// ResolutionConfig - настройки конвейера привязки
type ResolutionConfig struct {
	StreetRadii          []float64
	FuzzyLookupThreshold float64
	Workers              int
}

// ResolutionUseCase - конвейер привязки объявления к гео-узлу, улице и ЖК.
// Шаги выполняются в фиксированном порядке, каждый пропускается, если поле уже заполнено:
// гео по полигонам, ЖК (текст, затем футпринт), наследование улицы и гео от ЖК,
// улица по тексту (заголовок, затем описание), ближайшая улица с расширением радиуса.
type ResolutionUseCase struct {
	matcher   *matching.TextMatcher
	complexes *matching.ComplexResolver
	radii     []float64
	workers   int
	logger    *zap.Logger
}

// NewResolutionUseCase создает новый ResolutionUseCase
func NewResolutionUseCase(cfg ResolutionConfig, logger *zap.Logger) *ResolutionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	radii := streetRadii(cfg.StreetRadii, logger)
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &ResolutionUseCase{
		matcher: matching.NewTextMatcher(),
		complexes: matching.NewComplexResolver(
			matching.NewComplexExtractor(),
			matching.DefaultBlacklist(),
			cfg.FuzzyLookupThreshold,
			logger.Named("complex"),
		),
		radii:   radii,
		workers: workers,
		logger:  logger,
	}
}

// streetRadii оставляет допустимые радиусы в исходном порядке; без них - радиусы по умолчанию
func streetRadii(radii []float64, logger *zap.Logger) []float64 {
	out := make([]float64, 0, len(radii))
	for _, r := range radii {
		if !utils.ValidateRadius(r) {
			logger.Warn("Street radius out of range, skipped", zap.Float64("radius_m", r))
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return DefaultStreetRadii
	}
	return out
}

// Resolve привязывает одно объявление к справочникам снимка.
// Объявление не изменяется; результат - частичное обновление "заполнить, если пусто".
func (uc *ResolutionUseCase) Resolve(snap *index.Snapshot, listing *domain.Listing) domain.ResolutionUpdate {
	u := domain.ResolutionUpdate{ListingID: listing.ID}
	state := newStateTracker(listing)

	geoID := listing.GeoID
	streetID := listing.StreetID
	hasPoint := listing.HasPoint()

	var point *domain.Point
	if hasPoint {
		point = listing.Point
	}

	// 1. гео-узел по полигонам
	if geoID == nil && hasPoint {
		if node := snap.Geo.Resolve(*point); node != nil {
			geoID = domain.Int64Ptr(node.ID)
			u.GeoID = geoID
			u.Methods = append(u.Methods, domain.MethodGeoContains)
			state.advance(domain.StateGeoResolved)
		}
	}

	// 2. ЖК, независимо от результата шага 1
	if listing.ComplexID == nil {
		if m := uc.complexes.Resolve(snap.Complexes, listing.Title, listing.Description, point); m != nil {
			u.ComplexID = domain.Int64Ptr(m.Complex.ID)
			u.ComplexResolved = true
			u.Methods = append(u.Methods, m.Method)

			// 3. улица и гео наследуются от ЖК без отдельной метки
			if geoID == nil && m.Complex.GeoID != nil {
				geoID = domain.Int64Ptr(*m.Complex.GeoID)
				u.GeoID = geoID
				state.advance(domain.StateGeoResolved)
			}
			if streetID == nil && m.Complex.StreetID != nil {
				streetID = domain.Int64Ptr(*m.Complex.StreetID)
				u.StreetID = streetID
				state.advance(domain.StateStreetResolved)
			}
		}
	}

	// 4. улица по тексту
	if streetID == nil {
		if st, method := uc.streetFromText(snap, geoID, listing); st != nil {
			streetID = domain.Int64Ptr(st.ID)
			u.StreetID = streetID
			u.Methods = append(u.Methods, method)
			state.advance(domain.StateStreetResolved)
		}
	}

	// 5. ближайшая улица с расширением радиуса
	if streetID == nil && hasPoint {
		for _, r := range uc.radii {
			if ns := snap.Streets.Nearest(*point, geoID, r); ns != nil {
				streetID = domain.Int64Ptr(ns.Street.ID)
				u.StreetID = streetID
				u.Methods = append(u.Methods, domain.MethodStreetNearest)
				state.advance(domain.StateStreetResolved)
				uc.logger.Debug("Street resolved by distance",
					zap.Int64("listing_id", listing.ID),
					zap.Int64("street_id", ns.Street.ID),
					zap.Float64("distance_m", ns.Distance),
					zap.Float64("radius_m", r))
				break
			}
		}
	}

	u.State = state.finish(streetID != nil, hasPoint || hasText(listing))
	return u
}

func (uc *ResolutionUseCase) streetFromText(snap *index.Snapshot, geoID *int64, listing *domain.Listing) (*domain.Street, domain.MethodTag) {
	var candidates *matching.CandidateSet
	if geoID != nil {
		candidates = snap.Streets.NamesForGeo(*geoID)
	} else {
		candidates = snap.Streets.GlobalNames()
	}
	if candidates.Len() == 0 {
		return nil, ""
	}

	texts := []struct {
		text   string
		method domain.MethodTag
	}{
		{listing.Title, domain.MethodStreetTextTitle},
		{listing.Description, domain.MethodStreetTextDescription},
	}
	for _, t := range texts {
		name, ok := uc.matcher.FindInText(candidates, t.text)
		if !ok {
			continue
		}
		if st := snap.Streets.StreetByName(name, geoID); st != nil {
			if uc.logger.Core().Enabled(zap.DebugLevel) {
				for _, renamed := range snap.Streets.RenameLookup(name) {
					if renamed.ID == st.ID {
						uc.logger.Debug("Street matched by former name",
							zap.Int64("listing_id", listing.ID),
							zap.String("former", name),
							zap.String("current", st.Name.Primary()))
					}
				}
			}
			return st, t.method
		}
	}
	return nil, ""
}

func hasText(l *domain.Listing) bool {
	return strings.TrimSpace(l.Title) != "" || strings.TrimSpace(l.Description) != ""
}

// ResolveBatch привязывает батч объявлений параллельно.
// Ошибка или паника на одном объявлении не прерывает остальные.
// Ошибка возвращается только при отмене контекста.
func (uc *ResolutionUseCase) ResolveBatch(ctx context.Context, snap *index.Snapshot, inputs []domain.ListingInput) (*dto.ResolveBatchResult, error) {
	if snap == nil {
		return nil, errors.ErrSnapshotInvalid
	}

	type outcome struct {
		update    domain.ResolutionUpdate
		malformed bool
		err       error
	}
	outcomes := make([]outcome, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			update, malformed, err := uc.resolveOne(snap, inputs[i])
			outcomes[i] = outcome{update: update, malformed: malformed, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve batch: %w", err)
	}

	result := &dto.ResolveBatchResult{
		Updates: make([]domain.ResolutionUpdate, 0, len(inputs)),
		Meta:    dto.ResolutionBatchMeta{TotalListings: len(inputs), Methods: make(map[string]int)},
	}
	for i, o := range outcomes {
		if inputs[i].ID > result.Meta.LastListingID {
			result.Meta.LastListingID = inputs[i].ID
		}
		if o.malformed {
			result.Meta.MalformedCount++
		}
		if o.err != nil {
			result.Meta.ErrorCount++
			result.Failures = append(result.Failures, dto.ListingFailure{ListingID: inputs[i].ID, Error: o.err.Error()})
			continue
		}
		result.Meta.Count(o.update)
		if !o.update.IsEmpty() {
			result.Updates = append(result.Updates, o.update)
		}
	}

	return result, nil
}

// resolveOne валидирует вход и привязывает одно объявление.
// Невалидные координаты отбрасываются, текстовые шаги все равно выполняются.
func (uc *ResolutionUseCase) resolveOne(snap *index.Snapshot, in domain.ListingInput) (update domain.ResolutionUpdate, malformed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Listing resolution panicked",
				zap.Int64("listing_id", in.ID),
				zap.Any("panic", r))
			err = fmt.Errorf("listing %d: panic: %v", in.ID, r)
		}
	}()

	if in.ID <= 0 {
		return update, true, errors.ErrMalformedInput.WithDetails(map[string]interface{}{"listing_id": in.ID})
	}

	if verr := validator.Validate(in); verr != nil {
		uc.logger.Debug("Listing coordinates dropped",
			zap.Int64("listing_id", in.ID),
			zap.String("reason", validator.Describe(verr)))
		in.Lat, in.Lng = nil, nil
		malformed = true
	}

	listing := in.ToListing()
	if listing.Point != nil && !listing.Point.Valid() {
		listing.Point = nil
		malformed = true
	}

	return uc.Resolve(snap, listing), malformed, nil
}

// stateTracker ведет объявление по состояниям Unresolved -> GeoResolved -> StreetResolved -> Complete.
// Переходы только вперед.
type stateTracker struct {
	state domain.ResolutionState
}

func newStateTracker(l *domain.Listing) *stateTracker {
	t := &stateTracker{state: domain.StateUnresolved}
	if l.GeoID != nil {
		t.advance(domain.StateGeoResolved)
	}
	if l.StreetID != nil {
		t.advance(domain.StateStreetResolved)
	}
	return t
}

func stateRank(s domain.ResolutionState) int {
	switch s {
	case domain.StateGeoResolved:
		return 1
	case domain.StateStreetResolved:
		return 2
	case domain.StateComplete:
		return 3
	default:
		return 0
	}
}

func (t *stateTracker) advance(to domain.ResolutionState) {
	if stateRank(to) > stateRank(t.state) {
		t.state = to
	}
}

// finish: Complete, если улица найдена или пробовать больше нечего (нет ни координат, ни текста)
func (t *stateTracker) finish(streetResolved, hasInput bool) domain.ResolutionState {
	if streetResolved || !hasInput {
		t.advance(domain.StateComplete)
	}
	return t.state
}
