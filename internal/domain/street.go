package domain

import "github.com/twpayne/go-geom"

const (
	LangUk = "uk"
	LangRu = "ru"
	LangEn = "en"
)

// Street - улица с текущим названием, историей переименований и линейной геометрией.
// History[lang][0] совпадает с текущим названием на этом языке.
type Street struct {
	ID       int64
	GeoID    int64
	Name     MultiName
	History  map[string][]string
	Geometry geom.T
}

// NameVariants возвращает текущие и исторические названия без повторов
func (s *Street) NameVariants() []string {
	out := s.Name.Variants()
	seen := make(map[string]struct{}, len(out))
	for _, v := range out {
		seen[v] = struct{}{}
	}
	for _, lang := range []string{LangUk, LangRu, LangEn} {
		for _, v := range s.History[lang] {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// HistoricalNames возвращает только прежние названия (без текущего варианта 0)
func (s *Street) HistoricalNames() []string {
	var out []string
	for _, lang := range []string{LangUk, LangRu, LangEn} {
		h := s.History[lang]
		if len(h) > 1 {
			out = append(out, h[1:]...)
		}
	}
	return out
}
