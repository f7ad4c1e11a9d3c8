package matching

import (
	"sort"
	"unicode/utf8"
)

// CandidateSet - набор нормализованных названий, упорядоченный для поиска в тексте:
// сначала длинные (чтобы короткое название не сработало внутри длинного),
// при равной длине - лексикографически.
type CandidateSet struct {
	names []string
	set   map[string]struct{}
}

// NewCandidateSet строит набор из уже нормализованных названий, пустые и повторы отбрасываются
func NewCandidateSet(names ...string) *CandidateSet {
	c := &CandidateSet{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := c.set[n]; ok {
			continue
		}
		c.set[n] = struct{}{}
		c.names = append(c.names, n)
	}

	sort.Slice(c.names, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(c.names[i]), utf8.RuneCountInString(c.names[j])
		if li != lj {
			return li > lj
		}
		return c.names[i] < c.names[j]
	})
	return c
}

// Names возвращает названия в порядке перебора
func (c *CandidateSet) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}

// Len - размер набора
func (c *CandidateSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Has проверяет наличие названия
func (c *CandidateSet) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.set[name]
	return ok
}
