package domain

import "github.com/twpayne/go-geom"

// GeoType - уровень узла географической иерархии
type GeoType string

const (
	GeoTypeRegion         GeoType = "region"
	GeoTypeRegionDistrict GeoType = "region_district"
	GeoTypeCity           GeoType = "city"
	GeoTypeCityDistrict   GeoType = "city_district"
	GeoTypeVillage        GeoType = "village"
)

// Priority - порядок специфичности: чем меньше число, тем точнее узел
func (t GeoType) Priority() int {
	switch t {
	case GeoTypeCityDistrict:
		return 1
	case GeoTypeCity:
		return 2
	case GeoTypeVillage:
		return 3
	case GeoTypeRegionDistrict:
		return 4
	case GeoTypeRegion:
		return 5
	default:
		return 100
	}
}

// Valid проверяет, что тип известен
func (t GeoType) Valid() bool {
	return t.Priority() < 100
}

// MultiName - название на нескольких языках
type MultiName struct {
	Uk string `json:"uk,omitempty" db:"name_uk"`
	Ru string `json:"ru,omitempty" db:"name_ru"`
	En string `json:"en,omitempty" db:"name_en"`
}

// Variants возвращает непустые варианты названия без повторов (uk, ru, en)
func (n MultiName) Variants() []string {
	out := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	for _, v := range []string{n.Uk, n.Ru, n.En} {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Primary возвращает первое непустое название
func (n MultiName) Primary() string {
	if v := n.Variants(); len(v) > 0 {
		return v[0]
	}
	return ""
}

// IsEmpty проверяет отсутствие названий
func (n MultiName) IsEmpty() bool {
	return n.Uk == "" && n.Ru == "" && n.En == ""
}

// GeoNode - узел иерархии (область, район, город, район города, село)
// с границами nested set и опциональным полигоном
type GeoNode struct {
	ID       int64
	ParentID *int64
	Type     GeoType
	Name     MultiName
	Left     int
	Right    int
	Polygon  geom.T
}

// Encloses проверяет, что other строго вложен в узел по nested set
func (n *GeoNode) Encloses(other *GeoNode) bool {
	return other.Left > n.Left && other.Right < n.Right
}
