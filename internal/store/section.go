package store

import (
	"database/sql"
	"fmt"

	"github.com/addreeh/ph-shopping-list/internal/model"
)

type SectionStore struct {
	db *sql.DB
}

func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

func scanSection(scanner interface{ Scan(...any) error }) (*model.Section, error) {
	var sec model.Section
	err := scanner.Scan(&sec.ID, &sec.Name, &sec.Icon, &sec.SortOrder)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

const sectionCols = `id, name, icon, sort_order`

// List returns all supermarket sections ordered by sort_order.
func (s *SectionStore) List() ([]model.Section, error) {
	rows, err := s.db.Query(`SELECT ` + sectionCols + ` FROM supermarket_sections ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, *sec)
	}
	return sections, rows.Err()
}

func (s *SectionStore) GetByID(id int64) (*model.Section, error) {
	row := s.db.QueryRow(`SELECT `+sectionCols+` FROM supermarket_sections WHERE id = ?`, id)
	sec, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	return sec, nil
}
