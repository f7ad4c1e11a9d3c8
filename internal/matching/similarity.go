package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/normalizer"
)

const (
	// exactNameScore - нормализованные названия совпали
	exactNameScore = 1.0
	// substringNameScore - одно нормализованное название содержит другое
	substringNameScore = 0.9
)

// NameSimilarity - максимум сходства по всем парам языковых вариантов названий
func NameSimilarity(a, b domain.MultiName) float64 {
	best := 0.0
	for _, x := range a.Variants() {
		for _, y := range b.Variants() {
			if s := StringSimilarity(x, y); s > best {
				best = s
				if best == exactNameScore {
					return best
				}
			}
		}
	}
	return best
}

// StringSimilarity сравнивает два сырых названия:
// 1.0 при равенстве нормализованных, 0.9 при вхождении, иначе Жаккар по словам.
func StringSimilarity(a, b string) float64 {
	na, nb := normalizer.Normalize(a), normalizer.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return exactNameScore
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return substringNameScore
	}
	return Jaccard(normalizer.Words(a), normalizer.Words(b))
}

// Jaccard - коэффициент Жаккара для множеств слов
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}

	intersection := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if seen[w] {
			continue
		}
		seen[w] = true
		if set[w] {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

// LevenshteinRatio - 1 - расстояние Левенштейна / длина большей строки (в рунах)
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
