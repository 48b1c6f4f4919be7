package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Program is a stored BAL source with parse stats captured at save time.
type Program struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Entities  int       `json:"entities"`
	Errors    int       `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func scanProgram(scanner interface {
	Scan(dest ...any) error
}) (*Program, error) {
	p := &Program{}
	err := scanner.Scan(&p.ID, &p.Name, &p.Source, &p.Entities, &p.Errors, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProgram inserts or updates a program by name. A new program gets
// a generated id; an existing name keeps its id and creation time.
func (s *Store) SaveProgram(p *Program) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO programs (id, name, source, entities, errors)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			entities = excluded.entities,
			errors = excluded.errors,
			updated_at = CURRENT_TIMESTAMP`,
		p.ID, p.Name, p.Source, p.Entities, p.Errors)
	if err != nil {
		return fmt.Errorf("save program: %w", err)
	}
	return nil
}

// GetProgram fetches a program by id. Returns (nil, nil) when missing.
func (s *Store) GetProgram(id string) (*Program, error) {
	row := s.db.QueryRow(`
		SELECT id, name, source, entities, errors, created_at, updated_at
		FROM programs WHERE id = ?`, id)
	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	return p, nil
}

// GetProgramByName fetches a program by name. Returns (nil, nil) when
// missing.
func (s *Store) GetProgramByName(name string) (*Program, error) {
	row := s.db.QueryRow(`
		SELECT id, name, source, entities, errors, created_at, updated_at
		FROM programs WHERE name = ?`, name)
	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get program by name: %w", err)
	}
	return p, nil
}

func (s *Store) ListPrograms() ([]Program, error) {
	rows, err := s.db.Query(`
		SELECT id, name, source, entities, errors, created_at, updated_at
		FROM programs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, *p)
	}
	return programs, rows.Err()
}

func (s *Store) DeleteProgram(id string) error {
	_, err := s.db.Exec(`DELETE FROM programs WHERE id = ?`, id)
	return err
}
