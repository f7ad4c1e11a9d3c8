// Package normalizer приводит названия улиц, населенных пунктов и ЖК
// к каноническому виду, который используется как ключ поиска.
package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus
	"­", "", // soft hyphen
)

var quoteReplacer = strings.NewReplacer(
	"«", "", "»", "",
	"„", "", "“", "", "”", "", "‟", "",
	"‘", "", "’", "", "‚", "", "‛", "",
	"\"", "", "'", "", "`", "", "ʼ", "", "´", "",
)

// typeTokens - типы улиц и населенных пунктов, которые снимаются в начале названия
var typeTokens = map[string]struct{}{
	"вулиця": {}, "вул": {}, "улица": {}, "ул": {},
	"проспект": {}, "просп": {}, "пр-т": {}, "пр": {},
	"бульвар": {}, "бульв": {}, "бул": {}, "б-р": {},
	"провулок": {}, "пров": {}, "переулок": {}, "пер": {},
	"площа": {}, "площадь": {}, "пл": {},
	"шосе": {}, "шоссе": {},
	"набережна": {}, "набережная": {}, "наб": {},
	"узвіз": {}, "спуск": {}, "тупик": {},
	"проїзд": {}, "проезд": {},
	"алея": {}, "аллея": {}, "майдан": {},
	"місто": {}, "м": {}, "город": {}, "г": {},
	"село": {}, "с": {}, "смт": {}, "пгт": {}, "селище": {},
	"район": {}, "р-н": {}, "область": {}, "обл": {},
	"мікрорайон": {}, "микрорайон": {}, "мкр": {}, "масив": {}, "массив": {},
	"жк": {}, "ж/к": {}, "кг": {}, "км": {},
}

// streetTypeTokens - типы, которые снимаются и в конце названия ("Шевченка вулиця")
var streetTypeTokens = map[string]struct{}{
	"вулиця": {}, "вул": {}, "улица": {}, "ул": {},
	"проспект": {}, "просп": {}, "пр-т": {},
	"бульвар": {}, "бульв": {}, "б-р": {},
	"провулок": {}, "пров": {}, "переулок": {}, "пер": {},
	"площа": {}, "площадь": {}, "пл": {},
	"шосе": {}, "шоссе": {},
	"набережна": {}, "набережная": {},
	"узвіз": {}, "спуск": {}, "тупик": {},
	"проїзд": {}, "проезд": {},
	"алея": {}, "аллея": {}, "майдан": {},
}

// twoWordTypes - составные типы ("житловий комплекс")
var twoWordTypes = map[[2]string]struct{}{
	{"житловий", "комплекс"}:   {},
	{"жилой", "комплекс"}:      {},
	{"жилищный", "комплекс"}:   {},
	{"жилой", "массив"}:        {},
	{"житловий", "масив"}:      {},
	{"котеджне", "містечко"}:   {},
	{"коттеджный", "городок"}:  {},
	{"коттеджное", "поселок"}:  {},
	{"клубний", "будинок"}:     {},
	{"клубный", "дом"}:         {},
	{"residential", "complex"}: {},
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize возвращает канонический ключ названия: нижний регистр, единое тире,
// без кавычек и пунктуации, без типа улицы/населенного пункта в начале и в конце.
// Если название состоит только из типа, тип сохраняется.
func Normalize(raw string) string {
	s := strings.Map(punctToSpace, unify(raw))

	fields := make([]string, 0, 4)
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, "-/")
		if f != "" {
			fields = append(fields, f)
		}
	}

	fields = stripLeading(fields)
	for len(fields) > 1 {
		if _, ok := streetTypeTokens[fields[len(fields)-1]]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}

	return strings.Join(fields, " ")
}

// NormalizeText приводит свободный текст к тем же правилам регистра, тире, кавычек
// и пунктуации, что и Normalize, но сохраняет типы улиц: "вул. Ак. Павлова, 12" -> "вул ак павлова 12".
func NormalizeText(raw string) string {
	return strings.Join(strings.Fields(strings.Map(punctToSpace, unify(raw))), " ")
}

// punctToSpace заменяет пунктуацию и символы пробелом; дефис и слеш остаются частью слова
func punctToSpace(r rune) rune {
	if r == '-' || r == '/' {
		return r
	}
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return ' '
	}
	return r
}

// Words возвращает слова длиной больше двух символов без диакритики.
// Используется для сравнения названий по коэффициенту Жаккара.
func Words(raw string) []string {
	folded := Fold(NormalizeText(raw))
	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if len([]rune(p)) > 2 {
			words = append(words, p)
		}
	}
	return words
}

// Fold убирает диакритические знаки
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

func unify(raw string) string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, "ё", "е")
	s = dashReplacer.Replace(s)
	s = quoteReplacer.Replace(s)
	return s
}

// stripLeading снимает типы в начале названия. Однобуквенный тип (м, г, с) снимается
// только первым: после типа улицы это инициал ("вул. М. Арнаутська").
func stripLeading(fields []string) []string {
	stripped := false
	for len(fields) > 1 {
		if len(fields) > 2 {
			if _, ok := twoWordTypes[[2]string{fields[0], fields[1]}]; ok {
				fields = fields[2:]
				stripped = true
				continue
			}
		}
		if _, ok := typeTokens[fields[0]]; ok {
			if stripped && utf8.RuneCountInString(fields[0]) == 1 {
				break
			}
			fields = fields[1:]
			stripped = true
			continue
		}
		break
	}
	return fields
}
