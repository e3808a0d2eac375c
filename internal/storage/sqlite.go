package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkrasnov/datesbot/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS family_members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			birth_date DATE NOT NULL,
			death_date DATE,
			gender TEXT NOT NULL DEFAULT '',
			photo_file_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_members_name ON family_members(name)`,
		`CREATE INDEX IF NOT EXISTS idx_members_birth ON family_members(birth_date)`,
		`CREATE TABLE IF NOT EXISTS family_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			event_date DATE NOT NULL,
			category TEXT NOT NULL DEFAULT 'other',
			description TEXT NOT NULL DEFAULT '',
			photo_ids TEXT NOT NULL DEFAULT '[]',
			recurring INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_title ON family_events(title)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON family_events(event_date)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// Ignore "duplicate column" errors for ALTER TABLE
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("exec migration: %w", err)
			}
		}
	}
	return nil
}

// === Family members ===

func (s *Storage) CreatePerson(p *domain.Person) error {
	res, err := s.db.Exec(
		`INSERT INTO family_members (name, birth_date, death_date, gender, photo_file_id) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.BirthDate, p.DeathDate, string(p.Gender), p.PhotoFileID,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	p.ID = id
	p.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetPerson(id int64) (*domain.Person, error) {
	p := &domain.Person{}
	err := s.db.QueryRow(
		`SELECT id, name, birth_date, death_date, gender, photo_file_id, created_at
		 FROM family_members WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.BirthDate, &p.DeathDate, &p.Gender, &p.PhotoFileID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *Storage) GetPersonByName(name string) (*domain.Person, error) {
	// SQLite LOWER() doesn't work with Cyrillic, so we fetch all and compare in Go
	people, err := s.ListPeople()
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

func (s *Storage) ListPeople() ([]*domain.Person, error) {
	rows, err := s.db.Query(
		`SELECT id, name, birth_date, death_date, gender, photo_file_id, created_at
		 FROM family_members ORDER BY strftime('%m-%d', birth_date) ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		p := &domain.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthDate, &p.DeathDate, &p.Gender, &p.PhotoFileID, &p.CreatedAt); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Storage) UpdatePerson(p *domain.Person) error {
	_, err := s.db.Exec(
		`UPDATE family_members SET name = ?, birth_date = ?, death_date = ?, gender = ?, photo_file_id = ? WHERE id = ?`,
		p.Name, p.BirthDate, p.DeathDate, string(p.Gender), p.PhotoFileID, p.ID,
	)
	return err
}

func (s *Storage) UpdatePersonDeathDate(id int64, deathDate *time.Time) error {
	_, err := s.db.Exec(`UPDATE family_members SET death_date = ? WHERE id = ?`, deathDate, id)
	return err
}

func (s *Storage) UpdatePersonGender(id int64, gender domain.Gender) error {
	_, err := s.db.Exec(`UPDATE family_members SET gender = ? WHERE id = ?`, string(gender), id)
	return err
}

func (s *Storage) UpdatePersonPhoto(id int64, fileID string) error {
	_, err := s.db.Exec(`UPDATE family_members SET photo_file_id = ? WHERE id = ?`, fileID, id)
	return err
}

func (s *Storage) DeletePerson(id int64) error {
	_, err := s.db.Exec(`DELETE FROM family_members WHERE id = ?`, id)
	return err
}

// === Family events ===

func (s *Storage) CreateEvent(e *domain.Event) error {
	if e.PhotoIDs == "" {
		e.PhotoIDs = "[]"
	}
	res, err := s.db.Exec(
		`INSERT INTO family_events (title, event_date, category, description, photo_ids, recurring)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Title, e.EventDate, string(e.Category), e.Description, e.PhotoIDs, e.Recurring,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	e.ID = id
	e.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetEvent(id int64) (*domain.Event, error) {
	e := &domain.Event{}
	err := s.db.QueryRow(
		`SELECT id, title, event_date, category, description, photo_ids, recurring, created_at
		 FROM family_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Title, &e.EventDate, &e.Category, &e.Description, &e.PhotoIDs, &e.Recurring, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *Storage) GetEventByTitle(title string) (*domain.Event, error) {
	events, err := s.ListEvents()
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if strings.EqualFold(e.Title, title) {
			return e, nil
		}
	}
	return nil, nil
}

func (s *Storage) ListEvents() ([]*domain.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, title, event_date, category, description, photo_ids, recurring, created_at
		 FROM family_events ORDER BY strftime('%m-%d', event_date) ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.EventDate, &e.Category, &e.Description, &e.PhotoIDs, &e.Recurring, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Storage) UpdateEventPhotoIDs(id int64, photoIDs string) error {
	_, err := s.db.Exec(`UPDATE family_events SET photo_ids = ? WHERE id = ?`, photoIDs, id)
	return err
}

func (s *Storage) DeleteEvent(id int64) error {
	_, err := s.db.Exec(`DELETE FROM family_events WHERE id = ?`, id)
	return err
}

// === Seeding ===

// SeedDefaults inserts the initial family on the very first run. It is
// idempotent: a non-empty members table leaves the store untouched.
func (s *Storage) SeedDefaults() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM family_members`).Scan(&count); err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := []*domain.Person{
		{Name: "Кирилл Краснов", BirthDate: time.Date(1990, 4, 11, 0, 0, 0, 0, time.UTC), Gender: domain.GenderMale},
		{Name: "Екатерина Краснова", BirthDate: time.Date(1991, 6, 30, 0, 0, 0, 0, time.UTC), Gender: domain.GenderFemale},
		{Name: "Ксения Краснова", BirthDate: time.Date(2019, 5, 26, 0, 0, 0, 0, time.UTC), Gender: domain.GenderFemale},
	}
	for _, p := range seed {
		if err := s.CreatePerson(p); err != nil {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
	}
	return nil
}
