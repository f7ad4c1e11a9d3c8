package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/listing-resolver/internal/pkg/normalizer"
)

const (
	minComplexNameLen = 3
	maxComplexNameLen = 35
)

// triggerKeywords - ключевые слова ЖК.
// КГ и КМ принимаются только в верхнем регистре, иначе "5 км" дает ложные срабатывания.
const triggerKeywords = `(?:(?i:житловий\s+комплекс|жилой\s+комплекс|жилищный\s+комплекс|жилой\s+массив|житловий\s+масив|` +
	`котеджне\s+містечко|коттеджный\s+городок|коттеджное\s+поселок|клубний\s+будинок|клубный\s+дом|` +
	`residential\s+complex|ж/к|жк)|КГ|КМ)`

// complexTriggerPattern - ключевое слово ЖК, затем название в кавычках или без них
var complexTriggerPattern = regexp.MustCompile(
	`(?:^|[^\p{L}\p{N}])` + triggerKeywords +
		`(?:\.?\s*[:\-]?\s*[«"“„]([^«»"“”„\n]{1,60})[»"”“]` +
		`|(?:\.\s*|\s*[:\-]\s*|\s+)([\p{L}\p{N}][\p{L}\p{N}'’\-]*(?:\s+[\p{Lu}][\p{L}\p{N}'’\-]*){0,3}))`,
)

// triggerAtStart - текст начинается с ключевого слова ЖК
var triggerAtStart = regexp.MustCompile(`^` + triggerKeywords + `(?:[^\p{L}\p{N}]|$)`)

// ComplexExtractor извлекает из текста объявления кандидатов в названия ЖК
type ComplexExtractor struct {
	pattern *regexp.Regexp
}

// NewComplexExtractor создает ComplexExtractor
func NewComplexExtractor() *ComplexExtractor {
	return &ComplexExtractor{pattern: complexTriggerPattern}
}

// Extract возвращает кандидатов в порядке появления в тексте, без повторов
// (повтором считается совпадение нормализованных названий)
func (e *ComplexExtractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for pos := 0; pos < len(text); {
		loc := e.pattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		next := pos + loc[1]

		var name string
		if loc[2] >= 0 {
			name = text[pos+loc[2] : pos+loc[3]]
		} else {
			start, end := pos+loc[4], pos+loc[5]
			// название без кавычек обрывается на следующем ключевом слове,
			// с него начинается следующий поиск
			if cut := triggerInside(text, start, end); cut > 0 {
				end, next = cut, cut
			}
			name = text[start:end]
		}
		pos = next
		name = cleanCandidate(name)

		n := utf8.RuneCountInString(name)
		if n < minComplexNameLen || n > maxComplexNameLen {
			continue
		}

		key := normalizer.Normalize(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// triggerInside возвращает позицию первого ключевого слова ЖК среди слов text[start:end],
// не считая первого слова, или -1
func triggerInside(text string, start, end int) int {
	prevSpace := false
	for i, r := range text[start:end] {
		if unicode.IsSpace(r) {
			prevSpace = true
			continue
		}
		if prevSpace && triggerAtStart.MatchString(text[start+i:]) {
			return start + i
		}
		prevSpace = false
	}
	return -1
}

func cleanCandidate(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// Shorten возвращает кандидата и его укороченные слева направо варианты:
// "Аврора Продаж" -> ["Аврора Продаж", "Аврора"]. Варианты короче минимума отбрасываются.
func Shorten(candidate string) []string {
	words := strings.Fields(candidate)
	out := make([]string, 0, len(words))
	for i := len(words); i > 0; i-- {
		v := strings.Join(words[:i], " ")
		if utf8.RuneCountInString(v) < minComplexNameLen {
			break
		}
		out = append(out, v)
	}
	return out
}
