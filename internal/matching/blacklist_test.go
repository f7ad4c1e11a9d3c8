package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlacklist_IsBlocked(t *testing.T) {
	b := DefaultBlacklist()

	blocked := []string{"Сільпо", "АТБ", "Нова Пошта", "корпус", "Будинок", "школа №5", "Свято-Троїцький собор", "ТРЦ Рів'єра", ""}
	for _, name := range blocked {
		assert.True(t, b.IsBlocked(name), name)
	}

	allowed := []string{"Аврора", "Перлина", "Квартал Лісовий", "Sky Tower", "Гранд Марин"}
	for _, name := range allowed {
		assert.False(t, b.IsBlocked(name), name)
	}
}

func TestBlacklist_Custom(t *testing.T) {
	b := NewBlacklist([]string{"«Тест»"}, []string{"офіс"})

	assert.True(t, b.IsBlocked("тест"))
	assert.True(t, b.IsBlocked("Бізнес офіс"))
	assert.False(t, b.IsBlocked("Сільпо"))
}
