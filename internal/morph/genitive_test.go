package morph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kkrasnov/datesbot/internal/grammar"
	"github.com/kkrasnov/datesbot/internal/morph"
)

func TestInflect_Genitive(t *testing.T) {
	inf := morph.New()

	tests := []struct {
		word string
		want string
	}{
		// First names
		{"Кирилл", "кирилла"},
		{"Екатерина", "екатерины"},
		{"Ксения", "ксении"},
		{"Мария", "марии"},
		{"Сергей", "сергея"},
		{"Юрий", "юрия"},
		{"Игорь", "игоря"},
		{"Ольга", "ольги"},
		{"Наташа", "наташи"},
		{"Катя", "кати"},
		// Surnames
		{"Краснов", "краснова"},
		{"Краснова", "красновой"},
		{"Васильева", "васильевой"},
		{"Вяземский", "вяземского"},
		{"Вяземская", "вяземской"},
		{"Толстая", "толстой"},
		// Indeclinable
		{"Петренко", "петренко"},
	}

	for _, tt := range tests {
		got, ok := inf.Inflect(tt.word, grammar.CaseGenitive)
		assert.True(t, ok, "word=%s", tt.word)
		assert.Equal(t, tt.want, got, "word=%s", tt.word)
	}
}

func TestInflect_NonCyrillicFails(t *testing.T) {
	inf := morph.New()

	for _, word := range []string{"Ann", "Lee", "O'Neil", "123"} {
		_, ok := inf.Inflect(word, grammar.CaseGenitive)
		assert.False(t, ok, "word=%s", word)
	}
}

func TestInflect_UnsupportedCaseFails(t *testing.T) {
	inf := morph.New()

	_, ok := inf.Inflect("Кирилл", grammar.Case("dative"))
	assert.False(t, ok)
}
