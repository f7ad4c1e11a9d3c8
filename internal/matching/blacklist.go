package matching

import (
	"strings"

	"github.com/listing-resolver/internal/pkg/normalizer"
)

// defaultBlockedNames - названия, которые после "ЖК" в тексте почти всегда означают
// соседний ориентир, а не сам комплекс: сети, банки, общие слова
var defaultBlockedNames = []string{
	// торговые сети
	"сільпо", "сильпо", "атб", "атб маркет", "novus", "новус", "фора", "varus", "варус",
	"ашан", "auchan", "metro", "метро", "епіцентр", "эпицентр", "comfy", "фокстрот",
	"eldorado", "ельдорадо", "эльдорадо", "rozetka", "розетка", "таврія в", "таврия в",
	"копійка", "копейка", "велмарт", "billa", "білла", "mcdonalds", "макдональдс", "kfc",
	"окко", "okko", "wog", "socar", "shell", "укрнафта",
	// банки и почта
	"приватбанк", "ощадбанк", "монобанк", "monobank", "пумб", "райффайзен", "укрсиббанк",
	"укрпошта", "нова пошта", "новая почта", "meest",
	// общие слова
	"корпус", "будинок", "дом", "дім", "секція", "секция", "будинку", "дома", "комплекс",
	"новобудова", "новостройка", "новострой", "квартира", "квартал", "центр", "парк",
	"море", "поверх", "этаж", "під'їзд", "подъезд", "житло", "жилье", "класу", "класса",
	"комфорт", "бізнес", "бизнес", "преміум", "премиум", "эконом", "економ",
}

// defaultBlockedWords - категории объектов: любое такое слово в названии отсекает кандидата
var defaultBlockedWords = []string{
	// образование
	"школа", "школи", "школы", "гімназія", "гимназия", "ліцей", "лицей", "садок", "садик",
	"університет", "университет", "інститут", "институт", "коледж", "колледж",
	// медицина
	"лікарня", "больница", "поліклініка", "поликлиника", "клініка", "клиника", "аптека",
	"госпиталь", "шпиталь",
	// религия
	"церква", "церковь", "храм", "собор", "монастир", "монастырь", "мечеть", "синагога",
	// торговля и финансы
	"банк", "супермаркет", "гіпермаркет", "гипермаркет", "маркет", "магазин", "трц", "тц",
	"ринок", "рынок", "базар", "молл", "mall",
	// инфраструктура
	"вокзал", "станція", "станция", "котельня", "котельная", "підстанція", "подстанция",
	"водоканал", "облгаз", "горгаз", "аеропорт", "аэропорт", "стадіон", "стадион", "азс",
	"паркінг", "паркинг", "автостоянка",
	// власть
	"рада", "адміністрація", "администрация", "суд", "прокуратура", "поліція", "полиция",
	"податкова", "налоговая", "цнап",
}

// Blacklist отсекает кандидатов в названия ЖК, которые не являются жилыми комплексами
type Blacklist struct {
	names map[string]struct{}
	words map[string]struct{}
}

// NewBlacklist создает список из точных названий и слов-категорий (нормализуются при создании)
func NewBlacklist(names, words []string) *Blacklist {
	b := &Blacklist{
		names: make(map[string]struct{}, len(names)),
		words: make(map[string]struct{}, len(words)),
	}
	for _, n := range names {
		if k := normalizer.Normalize(n); k != "" {
			b.names[k] = struct{}{}
		}
	}
	for _, w := range words {
		if k := normalizer.Normalize(w); k != "" {
			b.words[k] = struct{}{}
		}
	}
	return b
}

// DefaultBlacklist - список по умолчанию
func DefaultBlacklist() *Blacklist {
	return NewBlacklist(defaultBlockedNames, defaultBlockedWords)
}

// IsBlocked проверяет кандидата: точное совпадение с запрещенным названием
// или наличие слова-категории
func (b *Blacklist) IsBlocked(name string) bool {
	key := normalizer.Normalize(name)
	if key == "" {
		return true
	}
	if _, ok := b.names[key]; ok {
		return true
	}
	for _, w := range strings.Fields(key) {
		if _, ok := b.words[w]; ok {
			return true
		}
	}
	return false
}
