package grammar

import (
	"strings"
	"unicode"
)

// Case is a grammatical case passed to an Inflector.
type Case string

// CaseGenitive is the only case the message templates use ("день рождения кого").
const CaseGenitive Case = "genitive"

// Inflector is a pluggable morphology capability. Inflect returns the word in
// the requested case, or ok=false when the word cannot be inflected.
type Inflector interface {
	Inflect(word string, c Case) (string, bool)
}

// GenitiveName declines a full name into the genitive case token by token.
// Successfully inflected tokens are capitalized; tokens the inflector cannot
// handle are kept exactly as written. Tokens are rejoined with single spaces.
func GenitiveName(inf Inflector, fullName string) string {
	tokens := strings.Fields(fullName)
	for i, tok := range tokens {
		inflected, ok := inf.Inflect(tok, CaseGenitive)
		if !ok {
			continue
		}
		tokens[i] = capitalize(inflected)
	}
	return strings.Join(tokens, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
