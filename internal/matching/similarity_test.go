package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listing-resolver/internal/domain"
)

func TestStringSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, StringSimilarity("ЖК «Аврора»", "аврора"))
	assert.Equal(t, 0.9, StringSimilarity("Аврора", "Аврора Плюс"))
	assert.InDelta(t, 0.25, StringSimilarity("Sky Tower", "Sea Tower Residence"), 1e-9)
	assert.Equal(t, 0.0, StringSimilarity("Перлина", "Аврора"))
	assert.Equal(t, 0.0, StringSimilarity("", "Аврора"))
}

func TestNameSimilarity_TakesBestLanguagePair(t *testing.T) {
	csv := domain.MultiName{Uk: "Перлина", Ru: "Жемчужина"}
	osm := domain.MultiName{Ru: "Жемчужина"}

	assert.Equal(t, 1.0, NameSimilarity(csv, osm))
	assert.Equal(t, 0.0, NameSimilarity(csv, domain.MultiName{}))
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, Jaccard([]string{"sky", "tower"}, []string{"tower", "sky", "city", "city"}), 1e-9)
	assert.Equal(t, 0.0, Jaccard(nil, []string{"sky"}))
}

func TestLevenshteinRatio(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinRatio("аврора", "аврора"))
	assert.InDelta(t, 5.0/6.0, LevenshteinRatio("аврора", "аврара"), 1e-9)
	assert.Equal(t, 1.0, LevenshteinRatio("", ""))
	assert.Equal(t, 0.0, LevenshteinRatio("abc", ""))
}
