package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kkrasnov/datesbot/internal/domain"
	"github.com/kkrasnov/datesbot/internal/grammar"
	"github.com/kkrasnov/datesbot/internal/morph"
	"github.com/kkrasnov/datesbot/internal/service"
)

// fakeStore serves fixed slices in place of the sqlite layer.
type fakeStore struct {
	people []*domain.Person
	events []*domain.Event
	err    error
}

func (f *fakeStore) ListPeople() ([]*domain.Person, error) { return f.people, f.err }
func (f *fakeStore) ListEvents() ([]*domain.Event, error)  { return f.events, f.err }

// failingInflector rejects every word, so names pass through verbatim.
type failingInflector struct{}

func (failingInflector) Inflect(string, grammar.Case) (string, bool) { return "", false }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestYearsElapsed(t *testing.T) {
	tests := []struct {
		name string
		past time.Time
		ref  time.Time
		want int
	}{
		{"anniversary day counts in full", date(1990, 4, 11), date(2024, 4, 11), 34},
		{"day before the anniversary", date(1990, 4, 11), date(2024, 4, 10), 33},
		{"day after the anniversary", date(1990, 4, 11), date(2024, 4, 12), 34},
		{"earlier month", date(1990, 6, 30), date(2024, 4, 11), 33},
		{"later month", date(1990, 2, 1), date(2024, 4, 11), 34},
		{"same year", date(2024, 1, 1), date(2024, 4, 11), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.YearsElapsed(tt.past, tt.ref))
		})
	}
}

func TestTodayOccurrences(t *testing.T) {
	alive := &domain.Person{ID: 1, Name: "Кирилл Краснов", BirthDate: date(1990, 4, 11)}
	// Born and deceased on the same calendar day, different years
	remembered := &domain.Person{
		ID:        2,
		Name:      "Иван Краснов",
		BirthDate: date(1950, 4, 11),
		DeathDate: datePtr(2020, 4, 11),
	}
	other := &domain.Person{ID: 3, Name: "Ксения Краснова", BirthDate: date(2019, 5, 26)}

	wedding := &domain.Event{ID: 1, Title: "Годовщина свадьбы", EventDate: date(2017, 7, 27), Category: domain.CategoryAnniversary}
	todayEvent := &domain.Event{ID: 2, Title: "Переезд", EventDate: date(2015, 4, 11), Category: domain.CategoryOther}

	store := &fakeStore{
		people: []*domain.Person{alive, remembered, other},
		events: []*domain.Event{wedding, todayEvent},
	}
	svc := service.NewNotificationService(store, failingInflector{})

	birthdays, events, deaths, err := svc.TodayOccurrences(date(2024, 4, 11))
	assert.NoError(t, err)

	// Deceased members still appear in the birthday set, and the same person
	// may show up in both sets on the same day.
	assert.ElementsMatch(t, []*domain.Person{alive, remembered}, birthdays)
	assert.ElementsMatch(t, []*domain.Event{todayEvent}, events)
	assert.ElementsMatch(t, []*domain.Person{remembered}, deaths)
}

func TestTodayOccurrences_EmptyDay(t *testing.T) {
	store := &fakeStore{
		people: []*domain.Person{{ID: 1, Name: "Кирилл", BirthDate: date(1990, 4, 11)}},
	}
	svc := service.NewNotificationService(store, failingInflector{})

	birthdays, events, deaths, err := svc.TodayOccurrences(date(2024, 4, 12))
	assert.NoError(t, err)
	assert.Empty(t, birthdays)
	assert.Empty(t, events)
	assert.Empty(t, deaths)
}

func TestTodayOccurrences_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("db is gone")}
	svc := service.NewNotificationService(store, failingInflector{})

	_, _, _, err := svc.TodayOccurrences(date(2024, 4, 11))
	assert.Error(t, err)
}

func TestBirthdayMessage_Alive(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	p := &domain.Person{
		Name:      "Екатерина Краснова",
		BirthDate: date(1991, 6, 30),
		Gender:    domain.GenderFemale,
	}

	msg := svc.BirthdayMessage(p, date(2024, 6, 30))

	assert.Equal(t, "🎉 Сегодня день рождения Екатерины Красновой!\nЕй исполняется 33 года! 🎂", msg)
}

func TestBirthdayMessage_Deceased(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	p := &domain.Person{
		Name:      "Иван Краснов",
		BirthDate: date(1950, 4, 11),
		DeathDate: datePtr(2020, 1, 2),
		Gender:    domain.GenderMale,
	}

	msg := svc.BirthdayMessage(p, date(2024, 4, 11))

	assert.Equal(t, "🕯️ Сегодня был бы день рождения Ивана Краснова!\nМы помним и любим его. Ему исполнилось бы 74 года. 🙏", msg)
}

func TestBirthdayMessage_LatinNameKeptVerbatim(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	p := &domain.Person{
		Name:      "Ann Lee",
		BirthDate: date(1991, 6, 30),
		Gender:    domain.GenderFemale,
	}

	msg := svc.BirthdayMessage(p, date(2024, 6, 30))

	assert.Contains(t, msg, "Ann Lee")
	assert.Contains(t, msg, "33 года")
	assert.Contains(t, msg, "🎉")
}

func TestBirthdayMessage_UnsetGenderUsesMalePronouns(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	p := &domain.Person{Name: "Саша", BirthDate: date(2000, 1, 1)}

	msg := svc.BirthdayMessage(p, date(2024, 1, 1))

	assert.Contains(t, msg, "Ему исполняется")
}

func TestEventMessage(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	ref := date(2024, 7, 27)

	tests := []struct {
		name  string
		event *domain.Event
		want  string
	}{
		{
			name: "anniversary with description",
			event: &domain.Event{
				Title:       "Годовщина свадьбы Кирилла и Екатерины",
				EventDate:   date(2017, 7, 27),
				Category:    domain.CategoryAnniversary,
				Description: "Ура! Поздравляем с годовщиной свадьбы! 💖",
			},
			want: "💖 Годовщина свадьбы Кирилла и Екатерины!\nИсполнилось 7 лет! 💕\nДата: 27.07.2017\nУра! Поздравляем с годовщиной свадьбы! 💖",
		},
		{
			name: "memorial without description",
			event: &domain.Event{
				Title:     "День памяти",
				EventDate: date(2014, 7, 27),
				Category:  domain.CategoryMemorial,
			},
			want: "🕯️ День памяти\nПрошло 10 лет.\nДата: 27.07.2014",
		},
		{
			name: "default category",
			event: &domain.Event{
				Title:     "Переезд в новый дом",
				EventDate: date(2023, 7, 27),
				Category:  domain.CategoryOther,
			},
			want: "📅 Переезд в новый дом\nДата: 27.07.2023 (1 год)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.EventMessage(tt.event, ref))
		})
	}
}

func TestDeathAnniversaryMessage(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	p := &domain.Person{
		Name:      "Иван Краснов",
		BirthDate: date(1950, 4, 11),
		DeathDate: datePtr(2020, 3, 15),
		Gender:    domain.GenderMale,
	}

	msg := svc.DeathAnniversaryMessage(p, date(2024, 3, 15))

	assert.Equal(t, "🕯️ Сегодня 4 года со дня смерти Ивана Краснова.\nЕго больше нет с нами. Ушел 15.03.2020. Светлая память. 🙏", msg)
}

func TestDeathAnniversaryMessage_PanicsWithoutDeathDate(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	p := &domain.Person{Name: "Кирилл", BirthDate: date(1990, 4, 11)}

	assert.Panics(t, func() {
		svc.DeathAnniversaryMessage(p, date(2024, 4, 11))
	})
}

func TestComposersAreIdempotent(t *testing.T) {
	svc := service.NewNotificationService(&fakeStore{}, morph.New())
	ref := date(2024, 6, 30)

	p := &domain.Person{Name: "Екатерина Краснова", BirthDate: date(1991, 6, 30), Gender: domain.GenderFemale}
	e := &domain.Event{Title: "Годовщина", EventDate: date(2017, 7, 27), Category: domain.CategoryAnniversary}
	d := &domain.Person{Name: "Иван", BirthDate: date(1950, 1, 1), DeathDate: datePtr(2020, 6, 30)}

	assert.Equal(t, svc.BirthdayMessage(p, ref), svc.BirthdayMessage(p, ref))
	assert.Equal(t, svc.EventMessage(e, ref), svc.EventMessage(e, ref))
	assert.Equal(t, svc.DeathAnniversaryMessage(d, ref), svc.DeathAnniversaryMessage(d, ref))
}

func TestEventPhotoID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json array", `["abc","def"]`, "abc"},
		{"single element array", `["abc"]`, "abc"},
		{"bare file id", "abc", "abc"},
		{"empty", "", ""},
		{"empty array", "[]", ""},
		{"whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &domain.Event{PhotoIDs: tt.raw}
			assert.Equal(t, tt.want, service.EventPhotoID(e))
		})
	}
}
