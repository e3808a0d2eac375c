package domain

import "time"

// Gender is stored as a single character, matching the existing database.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderUnset  Gender = ""
)

// OrDefault resolves an unset gender to male. This is a deliberate, named
// default inherited from the existing data: members added before the gender
// column existed are addressed with male pronouns. It can mis-gender such
// members until /set_gender is used.
func (g Gender) OrDefault() Gender {
	if g == GenderFemale {
		return GenderFemale
	}
	return GenderMale
}

// Person represents a family member, living or deceased.
type Person struct {
	ID          int64
	Name        string     // Display name, also the lookup key for commands
	BirthDate   time.Time  // Required
	DeathDate   *time.Time // Set means the person is deceased
	Gender      Gender
	PhotoFileID string // Telegram file_id of the portrait, optional
	CreatedAt   time.Time
}

// IsDeceased returns true if a death date is recorded.
func (p *Person) IsDeceased() bool {
	return p.DeathDate != nil
}

// BirthdayOn reports whether the person's birthday falls on the given day.
// Only month and day are compared, the year is ignored.
func (p *Person) BirthdayOn(ref time.Time) bool {
	return p.BirthDate.Month() == ref.Month() && p.BirthDate.Day() == ref.Day()
}

// DeathAnniversaryOn reports whether the death anniversary falls on the given day.
func (p *Person) DeathAnniversaryOn(ref time.Time) bool {
	return p.DeathDate != nil && p.DeathDate.Month() == ref.Month() && p.DeathDate.Day() == ref.Day()
}

// StatusEmoji returns the marker used in member listings.
func (p *Person) StatusEmoji() string {
	if p.IsDeceased() {
		return "🕯️"
	}
	return "👤"
}
