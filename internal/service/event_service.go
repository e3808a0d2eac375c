package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kkrasnov/datesbot/internal/domain"
	"github.com/kkrasnov/datesbot/internal/storage"
)

type EventService struct {
	storage *storage.Storage
}

func NewEventService(s *storage.Storage) *EventService {
	return &EventService{storage: s}
}

// Create creates a new recurring event
func (s *EventService) Create(title string, eventDate time.Time, category domain.EventCategory, description string) (*domain.Event, error) {
	if title == "" {
		return nil, errors.New("название события не может быть пустым")
	}
	if eventDate.IsZero() {
		return nil, errors.New("дата события обязательна")
	}

	existing, err := s.storage.GetEventByTitle(title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("событие с таким названием уже существует")
	}

	event := &domain.Event{
		Title:       title,
		EventDate:   eventDate,
		Category:    category,
		Description: description,
		Recurring:   true,
	}

	if err := s.storage.CreateEvent(event); err != nil {
		return nil, err
	}

	return event, nil
}

// GetByTitle returns an event by title (case-insensitive)
func (s *EventService) GetByTitle(title string) (*domain.Event, error) {
	return s.storage.GetEventByTitle(title)
}

// List returns all events in store order
func (s *EventService) List() ([]*domain.Event, error) {
	return s.storage.ListEvents()
}

// Delete removes an event by title
func (s *EventService) Delete(title string) error {
	event, err := s.storage.GetEventByTitle(title)
	if err != nil {
		return err
	}
	if event == nil {
		return errors.New("событие не найдено")
	}
	return s.storage.DeleteEvent(event.ID)
}

// AddPhoto appends a photo to an event. The stored list is normalized to a
// JSON array on every write; duplicate file ids are rejected.
func (s *EventService) AddPhoto(title string, fileID string) (*domain.Event, error) {
	if fileID == "" {
		return nil, errors.New("пустой идентификатор фото")
	}

	event, err := s.storage.GetEventByTitle(title)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, errors.New("событие не найдено")
	}

	ids := DecodePhotoIDs(event.PhotoIDs)
	for _, id := range ids {
		if id == fileID {
			return nil, errors.New("это фото уже добавлено к событию")
		}
	}
	ids = append(ids, fileID)

	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode photo ids: %w", err)
	}
	if err := s.storage.UpdateEventPhotoIDs(event.ID, string(encoded)); err != nil {
		return nil, err
	}
	event.PhotoIDs = string(encoded)
	return event, nil
}

// ParseAddEventArgs parses "/add_event Название | 27.07.2017 | anniversary | Описание".
// Category and description are optional.
func ParseAddEventArgs(args string) (title string, eventDate time.Time, category domain.EventCategory, description string, err error) {
	parts := strings.Split(args, "|")
	if len(parts) < 2 {
		err = errors.New("формат: /add_event Название | ДД.ММ.ГГГГ | категория | описание")
		return
	}

	title = strings.TrimSpace(parts[0])
	if title == "" {
		err = errors.New("укажите название события")
		return
	}

	eventDate, err = ParseDate(strings.TrimSpace(parts[1]))
	if err != nil {
		return
	}

	category = domain.CategoryOther
	if len(parts) >= 3 {
		category = domain.ParseEventCategory(strings.ToLower(strings.TrimSpace(parts[2])))
	}
	if len(parts) >= 4 {
		description = strings.TrimSpace(parts[3])
	}

	return
}

// FormatEventList formats the event list for display
func (s *EventService) FormatEventList(events []*domain.Event, ref time.Time) string {
	if len(events) == 0 {
		return "📅 Событий пока нет"
	}

	var sb strings.Builder
	sb.WriteString("📅 <b>События:</b>\n\n")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("%s <b>%s</b> — %s (%d)\n",
			e.CategoryEmoji(), e.Title, e.EventDate.Format(dateLayout), YearsElapsed(e.EventDate, ref)))
	}
	return sb.String()
}
