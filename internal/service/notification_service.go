package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kkrasnov/datesbot/internal/domain"
	"github.com/kkrasnov/datesbot/internal/grammar"
)

const dateLayout = "02.01.2006"

// Store is the read side of the persistence layer the notification engine needs.
type Store interface {
	ListPeople() ([]*domain.Person, error)
	ListEvents() ([]*domain.Event, error)
}

// NotificationService evaluates which dates fall on a given day and composes
// the notification texts. It never reads the clock itself: the caller passes
// the reference day in, which keeps the whole service deterministic.
type NotificationService struct {
	store     Store
	inflector grammar.Inflector
}

func NewNotificationService(store Store, inflector grammar.Inflector) *NotificationService {
	return &NotificationService{store: store, inflector: inflector}
}

// TodayOccurrences returns three disjoint sets for the reference day:
// birthdays (of the living and the deceased), recurring events, and death
// anniversaries. Only month and day are compared. A person whose birthday and
// death anniversary fall on the same day appears in both sets. Order follows
// store order; callers must not rely on it.
func (s *NotificationService) TodayOccurrences(ref time.Time) (birthdays []*domain.Person, events []*domain.Event, deaths []*domain.Person, err error) {
	people, err := s.store.ListPeople()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list people: %w", err)
	}
	for _, p := range people {
		if p.BirthdayOn(ref) {
			birthdays = append(birthdays, p)
		}
		if p.DeathAnniversaryOn(ref) {
			deaths = append(deaths, p)
		}
	}

	all, err := s.store.ListEvents()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list events: %w", err)
	}
	for _, e := range all {
		// All events recur yearly; the legacy recurring flag is not consulted.
		if e.OccursOn(ref) {
			events = append(events, e)
		}
	}

	return birthdays, events, deaths, nil
}

// YearsElapsed returns whole calendar years between past and ref: the year
// difference, minus one if ref has not yet reached past's month and day. On
// the anniversary day itself the full year counts.
func YearsElapsed(past, ref time.Time) int {
	years := ref.Year() - past.Year()
	if ref.Month() < past.Month() || (ref.Month() == past.Month() && ref.Day() < past.Day()) {
		years--
	}
	return years
}

// BirthdayMessage composes the birthday notification. Deceased members get a
// remembrance text instead of a celebration.
func (s *NotificationService) BirthdayMessage(p *domain.Person, ref time.Time) string {
	age := grammar.PluralizeYears(YearsElapsed(p.BirthDate, ref))
	name := grammar.GenitiveName(s.inflector, p.Name)
	pr := grammar.PronounsFor(p.Gender)

	if p.IsDeceased() {
		return fmt.Sprintf(
			"🕯️ Сегодня был бы день рождения %s!\nМы помним и любим %s. %s исполнилось бы %s. 🙏",
			name, pr.Object, pr.Dative, age,
		)
	}
	return fmt.Sprintf(
		"🎉 Сегодня день рождения %s!\n%s исполняется %s! 🎂",
		name, pr.Dative, age,
	)
}

// EventMessage composes the notification for a recurring event. The template
// depends on the category; title, date and years since the first occurrence
// are always present, the description only when non-empty.
func (s *NotificationService) EventMessage(e *domain.Event, ref time.Time) string {
	years := grammar.PluralizeYears(YearsElapsed(e.EventDate, ref))
	date := e.EventDate.Format(dateLayout)

	var sb strings.Builder
	switch e.Category {
	case domain.CategoryAnniversary:
		fmt.Fprintf(&sb, "💖 %s!\nИсполнилось %s! 💕\nДата: %s", e.Title, years, date)
	case domain.CategoryMemorial:
		fmt.Fprintf(&sb, "🕯️ %s\nПрошло %s.\nДата: %s", e.Title, years, date)
	case domain.CategoryHoliday:
		fmt.Fprintf(&sb, "🎊 %s!\nОтмечаем уже %s! 🎉\nДата: %s", e.Title, years, date)
	default:
		fmt.Fprintf(&sb, "📅 %s\nДата: %s (%s)", e.Title, date, years)
	}
	if e.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Description)
	}
	return sb.String()
}

// DeathAnniversaryMessage composes the remembrance notification. The person
// must have a death date; calling it for a living person is a programming
// error and panics rather than producing wrong text.
func (s *NotificationService) DeathAnniversaryMessage(p *domain.Person, ref time.Time) string {
	if p.DeathDate == nil {
		panic("datesbot: death anniversary message requested for a person without a death date")
	}
	years := grammar.PluralizeYears(YearsElapsed(*p.DeathDate, ref))
	name := grammar.GenitiveName(s.inflector, p.Name)
	pr := grammar.PronounsFor(p.Gender)

	return fmt.Sprintf(
		"🕯️ Сегодня %s со дня смерти %s.\n%s больше нет с нами. %s %s. Светлая память. 🙏",
		years, name, pr.Possessive, pr.GoneVerb, p.DeathDate.Format(dateLayout),
	)
}

// DecodePhotoIDs reads the stored photo list. The canonical format is a JSON
// array of Telegram file ids, but rows written before the format settled may
// hold a bare file id; such a value is treated as a single-element list.
func DecodePhotoIDs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		var out []string
		for _, id := range ids {
			if id != "" {
				out = append(out, id)
			}
		}
		return out
	}
	return []string{raw}
}

// EventPhotoID returns the file id to illustrate an event with, or "" when
// the event has no usable photo.
func EventPhotoID(e *domain.Event) string {
	ids := DecodePhotoIDs(e.PhotoIDs)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
