package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kkrasnov/datesbot/internal/domain"
	"github.com/kkrasnov/datesbot/internal/service"
)

func calendarFixture() *fakeStore {
	return &fakeStore{
		people: []*domain.Person{
			{ID: 1, Name: "Кирилл Краснов", BirthDate: date(1990, 4, 11)},
			{ID: 2, Name: "Иван Краснов", BirthDate: date(1950, 1, 20), DeathDate: datePtr(2020, 3, 15)},
			{ID: 3, Name: "Ксения Краснова", BirthDate: date(2019, 5, 26)},
		},
		events: []*domain.Event{
			{ID: 1, Title: "Годовщина свадьбы", EventDate: date(2017, 7, 27), Category: domain.CategoryAnniversary},
		},
	}
}

func TestBuildYearCalendar(t *testing.T) {
	svc := service.NewCalendarService(calendarFixture(), nil)

	cal, count, err := svc.BuildYearCalendar(2024)
	assert.NoError(t, err)
	// Three birthdays, one death anniversary, one event
	assert.Equal(t, 5, count)
	assert.Len(t, cal.Children, 5)

	data, err := service.EncodeCalendar(cal)
	assert.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "Кирилл Краснов")
	assert.Contains(t, text, "Годовщина смерти: Иван Краснов")
	assert.Contains(t, text, "Годовщина свадьбы")
	assert.Contains(t, text, "bday-1-2024@datesbot")
}

func TestBuildYearCalendar_SkipsYearsBeforeSource(t *testing.T) {
	svc := service.NewCalendarService(calendarFixture(), nil)

	_, count, err := svc.BuildYearCalendar(2018)
	assert.NoError(t, err)
	// Ксения (2019) and the death anniversary (2020) are not projected into 2018
	assert.Equal(t, 3, count)
}

func TestPublishYear_RequiresConfiguredClient(t *testing.T) {
	svc := service.NewCalendarService(calendarFixture(), nil)

	_, err := svc.PublishYear(context.Background(), 2024)
	assert.Error(t, err)
}
