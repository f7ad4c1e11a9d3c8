package postgresosm

import (
	"testing"

	"github.com/listing-resolver/internal/domain"
)

func TestParseTags(t *testing.T) {
	tags := parseTags([]byte(`{"name:uk":"Перлина","building":"apartments"}`))
	if tags["name:uk"] != "Перлина" {
		t.Fatalf("parseTags should decode hstore json, got %v", tags)
	}

	if len(parseTags(nil)) != 0 {
		t.Fatalf("parseTags should return empty map for nil")
	}
	if len(parseTags([]byte("not json"))) != 0 {
		t.Fatalf("parseTags should return empty map for invalid json")
	}
}

func TestPickTag(t *testing.T) {
	tags := map[string]string{"name:en": "  ", "int_name": "Perlyna"}

	if got := pickTag(tags, "name:en", "int_name"); got != "Perlyna" {
		t.Fatalf("pickTag should skip blank values, got %q", got)
	}
	if got := pickTag(tags, "name:ru"); got != "" {
		t.Fatalf("pickTag should return empty for missing key, got %q", got)
	}
}

func TestFeatureName(t *testing.T) {
	got := featureName("Перлина", map[string]string{"name:ru": "Жемчужина"})
	want := domain.MultiName{Uk: "Перлина", Ru: "Жемчужина"}
	if got != want {
		t.Fatalf("featureName expected %+v, got %+v", want, got)
	}

	got = featureName("Pearl", map[string]string{"name:uk": "Перлина", "name:en": "Pearl"})
	if got.Uk != "Перлина" || got.En != "Pearl" {
		t.Fatalf("explicit name:uk must win over name, got %+v", got)
	}
}

func TestFeatureKind(t *testing.T) {
	tests := []struct {
		building, landuse, expected string
	}{
		{"apartments", "", KindBuilding},
		{"", "residential", KindLanduse},
		{"house", "residential", KindBuilding},
		{"", "industrial", ""},
	}

	for _, tt := range tests {
		if got := featureKind(tt.building, tt.landuse); got != tt.expected {
			t.Fatalf("featureKind(%q, %q) expected %q, got %q", tt.building, tt.landuse, tt.expected, got)
		}
	}
}
