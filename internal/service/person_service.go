package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kkrasnov/datesbot/internal/domain"
	"github.com/kkrasnov/datesbot/internal/storage"
)

type PersonService struct {
	storage *storage.Storage
}

func NewPersonService(s *storage.Storage) *PersonService {
	return &PersonService{storage: s}
}

// Create creates a new family member
func (s *PersonService) Create(name string, birthDate time.Time, gender domain.Gender) (*domain.Person, error) {
	if name == "" {
		return nil, errors.New("имя не может быть пустым")
	}
	if birthDate.IsZero() {
		return nil, errors.New("дата рождения обязательна")
	}

	existing, err := s.storage.GetPersonByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("человек с таким именем уже существует")
	}

	person := &domain.Person{
		Name:      name,
		BirthDate: birthDate,
		Gender:    gender,
	}

	if err := s.storage.CreatePerson(person); err != nil {
		return nil, err
	}

	return person, nil
}

// GetByName returns a member by name (case-insensitive)
func (s *PersonService) GetByName(name string) (*domain.Person, error) {
	return s.storage.GetPersonByName(name)
}

// List returns all members in store order
func (s *PersonService) List() ([]*domain.Person, error) {
	return s.storage.ListPeople()
}

// SetDeathDate marks a member as deceased. The death date may not precede
// the birth date.
func (s *PersonService) SetDeathDate(name string, deathDate time.Time) (*domain.Person, error) {
	person, err := s.mustGet(name)
	if err != nil {
		return nil, err
	}
	if deathDate.Before(person.BirthDate) {
		return nil, errors.New("дата смерти не может быть раньше даты рождения")
	}
	if err := s.storage.UpdatePersonDeathDate(person.ID, &deathDate); err != nil {
		return nil, err
	}
	person.DeathDate = &deathDate
	return person, nil
}

// SetGender updates the gender used for pronoun selection
func (s *PersonService) SetGender(name string, gender domain.Gender) (*domain.Person, error) {
	person, err := s.mustGet(name)
	if err != nil {
		return nil, err
	}
	if err := s.storage.UpdatePersonGender(person.ID, gender); err != nil {
		return nil, err
	}
	person.Gender = gender
	return person, nil
}

// SetPhoto attaches a portrait photo to a member
func (s *PersonService) SetPhoto(name string, fileID string) (*domain.Person, error) {
	person, err := s.mustGet(name)
	if err != nil {
		return nil, err
	}
	if err := s.storage.UpdatePersonPhoto(person.ID, fileID); err != nil {
		return nil, err
	}
	person.PhotoFileID = fileID
	return person, nil
}

// Delete removes a member by name
func (s *PersonService) Delete(name string) error {
	person, err := s.mustGet(name)
	if err != nil {
		return err
	}
	return s.storage.DeletePerson(person.ID)
}

func (s *PersonService) mustGet(name string) (*domain.Person, error) {
	person, err := s.storage.GetPersonByName(name)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, errors.New("человек не найден")
	}
	return person, nil
}

// ParseAddMemberArgs parses "/add_member Иван Сидоров 15.03.1990 M" format.
// The date separates the name from the optional gender marker.
func ParseAddMemberArgs(args string) (name string, birthDate time.Time, gender domain.Gender, err error) {
	parts := strings.Fields(args)

	dateIdx := -1
	for i, part := range parts {
		if datePattern.MatchString(part) {
			dateIdx = i
			break
		}
	}
	if dateIdx <= 0 {
		err = errors.New("укажите имя и дату рождения: /add_member Иван Сидоров 15.03.1990")
		return
	}

	name = strings.Join(parts[:dateIdx], " ")
	birthDate, err = ParseDate(parts[dateIdx])
	if err != nil {
		return
	}

	if len(parts) > dateIdx+1 {
		switch strings.ToUpper(parts[dateIdx+1]) {
		case "M", "М":
			gender = domain.GenderMale
		case "F", "Ж":
			gender = domain.GenderFemale
		default:
			err = fmt.Errorf("неизвестный пол %q, используйте M или F", parts[dateIdx+1])
			return
		}
	}

	return
}

var datePattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)

// ParseDate parses DD.MM.YYYY and D.M.YYYY dates
func ParseDate(str string) (time.Time, error) {
	for _, format := range []string{"02.01.2006", "2.1.2006"} {
		if t, err := time.Parse(format, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("не удалось разобрать дату %q, формат ДД.ММ.ГГГГ", str)
}

// FormatMemberList formats the member list for display
func (s *PersonService) FormatMemberList(people []*domain.Person, ref time.Time) string {
	if len(people) == 0 {
		return "👥 В базе пока нет членов семьи"
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Члены семьи:</b>\n\n")
	for _, p := range people {
		sb.WriteString(fmt.Sprintf("%s <b>%s</b> — %s", p.StatusEmoji(), p.Name, p.BirthDate.Format(dateLayout)))
		if p.IsDeceased() {
			sb.WriteString(fmt.Sprintf(" (🕯️ %s)", p.DeathDate.Format(dateLayout)))
		} else {
			sb.WriteString(fmt.Sprintf(" (%d)", YearsElapsed(p.BirthDate, ref)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
