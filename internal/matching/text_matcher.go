package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/listing-resolver/internal/pkg/normalizer"
)

// TextMatcher ищет в свободном тексте одно из известных нормализованных названий
type TextMatcher struct{}

// NewTextMatcher создает TextMatcher
func NewTextMatcher() *TextMatcher {
	return &TextMatcher{}
}

// FindInText возвращает первое название из candidates, найденное в тексте.
// Текст нормализуется без снятия типов улиц: "вул. Шевченка 12" остается сигналом.
// Вхождение засчитывается, если слева граница слова, а справа конец текста
// или не буква: пробел, цифра или дефис ("ріг Шевченка-Пушкіна").
// Составное название из набора находится раньше своей части, так как длинные идут первыми.
func (m *TextMatcher) FindInText(candidates *CandidateSet, text string) (string, bool) {
	if candidates.Len() == 0 || strings.TrimSpace(text) == "" {
		return "", false
	}

	normalized := normalizer.NormalizeText(text)
	for _, name := range candidates.Names() {
		if containsBounded(normalized, name) {
			return name, true
		}
	}
	return "", false
}

func containsBounded(text, name string) bool {
	from := 0
	for from <= len(text) {
		idx := strings.Index(text[from:], name)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(name)

		if leftBoundary(text, start) && rightBoundary(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func leftBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func rightBoundary(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLetter(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}
