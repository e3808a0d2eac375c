package grammar

import "github.com/kkrasnov/datesbot/internal/domain"

// PronounSet holds the gendered forms the message templates need.
type PronounSet struct {
	Possessive string // Его / Её
	Object     string // его / её
	Dative     string // Ему / Ей
	GoneVerb   string // Ушел / Ушла
}

var (
	malePronouns   = PronounSet{Possessive: "Его", Object: "его", Dative: "Ему", GoneVerb: "Ушел"}
	femalePronouns = PronounSet{Possessive: "Её", Object: "её", Dative: "Ей", GoneVerb: "Ушла"}
)

// PronounsFor returns the pronoun set for a gender. An unset gender falls
// back to the male set, see domain.Gender.OrDefault.
func PronounsFor(g domain.Gender) PronounSet {
	if g.OrDefault() == domain.GenderFemale {
		return femalePronouns
	}
	return malePronouns
}
