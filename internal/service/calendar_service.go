package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/kkrasnov/datesbot/internal/clients/caldav"
)

// CalendarService exports the family dates as iCalendar data and publishes
// them to a CalDAV collection when one is configured.
type CalendarService struct {
	store  Store
	client *caldav.Client
}

func NewCalendarService(store Store, client *caldav.Client) *CalendarService {
	return &CalendarService{store: store, client: client}
}

// IsPublishConfigured returns true if a CalDAV endpoint is configured
func (s *CalendarService) IsPublishConfigured() bool {
	return s.client != nil && s.client.IsConfigured()
}

// entry is one projected occurrence within a target year.
type entry struct {
	uid     string
	summary string
	date    time.Time
}

// yearEntries projects every birthday, event and death anniversary into the
// given year. Occurrences before the source date's own year are skipped.
func (s *CalendarService) yearEntries(year int) ([]entry, error) {
	people, err := s.store.ListPeople()
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	events, err := s.store.ListEvents()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var entries []entry
	for _, p := range people {
		if year >= p.BirthDate.Year() {
			summary := "🎂 День рождения: " + p.Name
			if p.IsDeceased() {
				summary = "🕯️ День рождения: " + p.Name
			}
			entries = append(entries, entry{
				uid:     fmt.Sprintf("bday-%d-%d@datesbot", p.ID, year),
				summary: summary,
				date:    projectDate(p.BirthDate, year),
			})
		}
		if p.DeathDate != nil && year >= p.DeathDate.Year() {
			entries = append(entries, entry{
				uid:     fmt.Sprintf("memory-%d-%d@datesbot", p.ID, year),
				summary: "🕯️ Годовщина смерти: " + p.Name,
				date:    projectDate(*p.DeathDate, year),
			})
		}
	}
	for _, e := range events {
		if year >= e.EventDate.Year() {
			entries = append(entries, entry{
				uid:     fmt.Sprintf("event-%d-%d@datesbot", e.ID, year),
				summary: e.CategoryEmoji() + " " + e.Title,
				date:    projectDate(e.EventDate, year),
			})
		}
	}
	return entries, nil
}

// projectDate moves a source date into the target year. time.Date normalizes
// Feb 29 to Mar 1 in non-leap years.
func projectDate(src time.Time, year int) time.Time {
	return time.Date(year, src.Month(), src.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildYearCalendar returns a VCALENDAR with one all-day event per occurrence
// in the given year, plus the number of events it contains.
func (s *CalendarService) BuildYearCalendar(year int) (*ical.Calendar, int, error) {
	entries, err := s.yearEntries(year)
	if err != nil {
		return nil, 0, err
	}

	cal := newCalendar()
	for _, en := range entries {
		cal.Children = append(cal.Children, newAllDayEvent(en).Component)
	}
	return cal, len(entries), nil
}

// PublishYear uploads each occurrence of the year as its own calendar object.
// It returns the number of objects written.
func (s *CalendarService) PublishYear(ctx context.Context, year int) (int, error) {
	if !s.IsPublishConfigured() {
		return 0, fmt.Errorf("CalDAV не настроен")
	}

	entries, err := s.yearEntries(year)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, en := range entries {
		cal := newCalendar()
		cal.Children = append(cal.Children, newAllDayEvent(en).Component)
		if err := s.client.PutEvent(ctx, en.uid, cal); err != nil {
			return published, fmt.Errorf("publish %s: %w", en.uid, err)
		}
		published++
	}
	return published, nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//datesbot//RU")
	return cal
}

func newAllDayEvent(en entry) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, en.uid)
	event.Props.SetText(ical.PropSummary, en.summary)

	dtStart := ical.NewProp(ical.PropDateTimeStart)
	dtStart.SetDate(en.date)
	event.Props.Set(dtStart)

	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	return event
}

// EncodeCalendar serializes a calendar for sending as a document
func EncodeCalendar(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
