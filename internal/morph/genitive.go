// Package morph is a small rule-based declension engine for Russian personal
// names. It covers the genitive singular of common first names and surnames
// with ending rules in the spirit of the petrovich rule set. Words it does not
// recognize (including anything without Cyrillic letters) are reported as
// non-inflectable so the caller can keep them verbatim.
package morph

import (
	"strings"
	"unicode"

	"github.com/kkrasnov/datesbot/internal/grammar"
)

// Inflector implements grammar.Inflector.
type Inflector struct{}

// New returns the built-in rule-based inflector.
func New() *Inflector {
	return &Inflector{}
}

// Inflect returns the word in the requested case. Only the genitive is
// supported; any other case is reported as not inflectable.
func (m *Inflector) Inflect(word string, c grammar.Case) (string, bool) {
	if c != grammar.CaseGenitive {
		return "", false
	}
	if !isCyrillic(word) {
		return "", false
	}
	return genitive(strings.ToLower(word)), true
}

// suffixRule rewrites a word ending. Rules are tried in order, first match wins.
type suffixRule struct {
	suffix  string
	replace string
}

var genitiveRules = []suffixRule{
	{"ия", "ии"},    // Мария → Марии, Ксения → Ксении
	{"ова", "овой"}, // Краснова → Красновой
	{"ева", "евой"}, // Васильева → Васильевой
	{"ёва", "ёвой"},
	{"ына", "ыной"},   // Синицына → Синицыной
	{"ская", "ской"},  // Вяземская → Вяземской
	{"цкая", "цкой"},  // Троицкая → Троицкой
	{"ая", "ой"},      // Толстая → Толстой
	{"ский", "ского"}, // Вяземский → Вяземского
	{"цкий", "цкого"}, // Троицкий → Троицкого
	{"ый", "ого"},     // Чёрный → Чёрного
	{"я", "и"},        // Катя → Кати
	{"й", "я"},        // Сергей → Сергея, Юрий → Юрия
	{"ь", "я"},        // Игорь → Игоря
}

func genitive(word string) string {
	for _, r := range genitiveRules {
		if strings.HasSuffix(word, r.suffix) {
			return strings.TrimSuffix(word, r.suffix) + r.replace
		}
	}

	runes := []rune(word)
	last := runes[len(runes)-1]

	if last == 'а' {
		// Velar and hushing stems take -и, the rest take -ы:
		// Ольга → Ольги, Наташа → Наташи, Екатерина → Екатерины.
		stem := string(runes[:len(runes)-1])
		if len(runes) >= 2 && strings.ContainsRune("гкхжчшщ", runes[len(runes)-2]) {
			return stem + "и"
		}
		return stem + "ы"
	}

	if strings.ContainsRune("оеёиуюэы", last) {
		// Indeclinable: Петренко, Дурново.
		return word
	}

	// Masculine consonant stem: Кирилл → Кирилла, Краснов → Краснова.
	return word + "а"
}

func isCyrillic(word string) bool {
	for _, r := range word {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
