package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StreetVariantsAgree(t *testing.T) {
	want := "шевченка"
	for _, raw := range []string{"вул. Шевченка", "Шевченка", "Вулиця Шевченка,", "Шевченка вулиця", "  ВУЛ.  Шевченка  "} {
		assert.Equal(t, want, Normalize(raw), raw)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"russian prefix", "ул. Дерибасовская", "дерибасовская"},
		{"avenue abbreviation with dash", "пр-т Гагарина", "гагарина"},
		{"boulevard", "б-р Французский", "французский"},
		{"dash variants", "Мала Арнаутська — Нова", "мала арнаутська нова"},
		{"en dash inside name", "Івано–Франківська", "івано-франківська"},
		{"guillemets", "ЖК «Аврора»", "аврора"},
		{"smart quotes", "ЖК “Sky Tower”", "sky tower"},
		{"two word complex type", "Житловий комплекс Перлина", "перлина"},
		{"yo", "Зелёная", "зеленая"},
		{"city prefix", "м. Одеса", "одеса"},
		{"only type is kept", "Набережна", "набережна"},
		{"apostrophe", "Прем'єр", "премєр"},
		{"number kept", "вул. 10 Квітня", "10 квітня"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeText_KeepsTypes(t *testing.T) {
	got := NormalizeText("Продам квартиру, вул. Шевченка 12,  «ЖК Аврора» — центр")
	assert.Equal(t, "продам квартиру вул шевченка 12 жк аврора - центр", got)
}

func TestNormalizeText_AgreesWithNormalize(t *testing.T) {
	for _, name := range []string{"вул. Ак. Павлова", "Ген. Петрова (Черемушки)", "Маршала Говорова, 10/2", "Івано–Франківська"} {
		key := Normalize(name)
		assert.Contains(t, NormalizeText("Продаж: "+name+" 12"), key, name)
	}
}

func TestNormalize_InitialsAfterStreetType(t *testing.T) {
	assert.Equal(t, "м арнаутська", Normalize("вул. М. Арнаутська"))
	assert.Equal(t, "в арнаутська", Normalize("вул. В. Арнаутська"))
	assert.Equal(t, "с петлюри", Normalize("вулиця С. Петлюри"))
	assert.NotEqual(t, Normalize("вул. М. Арнаутська"), Normalize("вул. В. Арнаутська"))

	// в начале названия однобуквенный тип - это населенный пункт
	assert.Equal(t, "одеса", Normalize("м. Одеса"))
	assert.Equal(t, "петрівка", Normalize("с. Петрівка"))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"sky", "tower", "residence"}, Words("Sky-Tower Residence"))
	assert.Equal(t, []string{"perlina", "moria"}, Words("Perlina de Moria"))
	assert.Equal(t, []string{"cafe"}, Words("Café"))
	assert.Empty(t, Words("ЖК 12"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "creme brulee", Fold("crème brûlée"))
}
