package matching

import (
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/normalizer"
)

// ComplexLookup - индекс ЖК, по которому резолвер ищет кандидатов
type ComplexLookup interface {
	// ByName ищет ЖК по точному нормализованному названию
	ByName(normalized string) *domain.ApartmentComplex

	// Fuzzy ищет ЖК с самым похожим названием не ниже порога
	Fuzzy(normalized string, threshold float64) (*domain.ApartmentComplex, float64)

	// Containing ищет ЖК, в футпринт которого попадает точка
	Containing(p domain.Point) *domain.ApartmentComplex
}

// ComplexMatch - найденный ЖК и способ, которым он найден
type ComplexMatch struct {
	Complex   *domain.ApartmentComplex
	Method    domain.MethodTag
	Candidate string
}

// ComplexResolver привязывает объявление к ЖК: сначала по названию из текста,
// затем по попаданию координат в футпринт
type ComplexResolver struct {
	extractor      *ComplexExtractor
	blacklist      *Blacklist
	fuzzyThreshold float64
	logger         *zap.Logger
}

// NewComplexResolver создает резолвер. fuzzyThreshold <= 0 отключает нечеткий поиск.
func NewComplexResolver(extractor *ComplexExtractor, blacklist *Blacklist, fuzzyThreshold float64, logger *zap.Logger) *ComplexResolver {
	if extractor == nil {
		extractor = NewComplexExtractor()
	}
	if blacklist == nil {
		blacklist = DefaultBlacklist()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplexResolver{
		extractor:      extractor,
		blacklist:      blacklist,
		fuzzyThreshold: fuzzyThreshold,
		logger:         logger,
	}
}

// Candidates возвращает названия из заголовка, затем из описания, прошедшие черный список.
// Каждый кандидат раскрывается в укороченные варианты.
func (r *ComplexResolver) Candidates(title, description string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, text := range []string{title, description} {
		for _, raw := range r.extractor.Extract(text) {
			for _, variant := range Shorten(raw) {
				if r.blacklist.IsBlocked(variant) {
					r.logger.Debug("Complex candidate blacklisted", zap.String("candidate", variant))
					continue
				}
				key := normalizer.Normalize(variant)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, key)
			}
		}
	}
	return out
}

// Resolve ищет ЖК для объявления. nil - ЖК не найден, это нормальный исход.
func (r *ComplexResolver) Resolve(lookup ComplexLookup, title, description string, point *domain.Point) *ComplexMatch {
	candidates := r.Candidates(title, description)

	for _, key := range candidates {
		if c := lookup.ByName(key); c != nil {
			return &ComplexMatch{Complex: c, Method: domain.MethodComplexText, Candidate: key}
		}
	}

	if r.fuzzyThreshold > 0 {
		for _, key := range candidates {
			if c, score := lookup.Fuzzy(key, r.fuzzyThreshold); c != nil {
				r.logger.Debug("Complex matched by fuzzy lookup",
					zap.String("candidate", key),
					zap.Int64("complex_id", c.ID),
					zap.Float64("score", score))
				return &ComplexMatch{Complex: c, Method: domain.MethodComplexFuzzy, Candidate: key}
			}
		}
	}

	if point != nil && point.Valid() {
		if c := lookup.Containing(*point); c != nil {
			return &ComplexMatch{Complex: c, Method: domain.MethodComplexContains}
		}
	}

	return nil
}
