package domain

import "time"

// EventCategory determines which message template an event gets.
type EventCategory string

const (
	CategoryAnniversary EventCategory = "anniversary" // Свадьбы и другие годовщины
	CategoryMemorial    EventCategory = "memorial"    // Памятные даты
	CategoryHoliday     EventCategory = "holiday"     // Семейные праздники
	CategoryOther       EventCategory = "other"       // Всё остальное
)

// ParseEventCategory maps user input to a category, defaulting to other.
func ParseEventCategory(s string) EventCategory {
	switch EventCategory(s) {
	case CategoryAnniversary, CategoryMemorial, CategoryHoliday:
		return EventCategory(s)
	default:
		return CategoryOther
	}
}

// Event is a recurring family date not tied to a single person's birth or death.
type Event struct {
	ID          int64
	Title       string    // Also the lookup key for photo attachment
	EventDate   time.Time // First occurrence; only month+day matter for recurrence
	Category    EventCategory
	Description string
	// PhotoIDs holds the stored photo list as-is. New rows are always a JSON
	// array of Telegram file ids, but older rows may contain a bare file id.
	// Use service.EventPhotoID to read it.
	PhotoIDs string
	// Recurring is kept for compatibility with older exports. All events
	// recur yearly; the matcher never filters on this flag.
	Recurring bool
	CreatedAt time.Time
}

// OccursOn reports whether the event falls on the given day, year ignored.
func (e *Event) OccursOn(ref time.Time) bool {
	return e.EventDate.Month() == ref.Month() && e.EventDate.Day() == ref.Day()
}

// CategoryEmoji returns the marker used in event listings.
func (e *Event) CategoryEmoji() string {
	switch e.Category {
	case CategoryAnniversary:
		return "💖"
	case CategoryMemorial:
		return "🕯️"
	case CategoryHoliday:
		return "🎊"
	default:
		return "📅"
	}
}
