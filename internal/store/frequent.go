package store

import (
	"database/sql"
	"fmt"

	"github.com/addreeh/ph-shopping-list/internal/model"
)

type FrequentItemStore struct {
	db *sql.DB
}

func NewFrequentItemStore(db *sql.DB) *FrequentItemStore {
	return &FrequentItemStore{db: db}
}

// Upsert increments the usage count for (name, sectionID, supermarket),
// creating the row on first use. NULL keys match with IS, so unsectioned
// entries collapse into one row per name/supermarket.
func (s *FrequentItemStore) Upsert(name string, sectionID *int64, supermarket string) error {
	var secID sql.NullInt64
	if sectionID != nil {
		secID = sql.NullInt64{Int64: *sectionID, Valid: true}
	}
	super := nullableString(supermarket)

	result, err := s.db.Exec(
		`UPDATE frequent_items SET usage_count = usage_count + 1
		 WHERE name = ? AND section_id IS ? AND supermarket IS ?`,
		name, secID, super,
	)
	if err != nil {
		return fmt.Errorf("increment frequent item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = s.db.Exec(
		`INSERT INTO frequent_items (name, section_id, supermarket) VALUES (?, ?, ?)`,
		name, secID, super,
	)
	if err != nil {
		return fmt.Errorf("insert frequent item: %w", err)
	}
	return nil
}

// ListTop returns the most used items for suggestion ranking.
func (s *FrequentItemStore) ListTop(limit int) ([]model.FrequentItem, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.name, f.section_id, f.supermarket, f.usage_count, f.created_at,
		       COALESCE(s.name, ''), COALESCE(s.icon, '')
		FROM frequent_items f
		LEFT JOIN supermarket_sections s ON s.id = f.section_id
		ORDER BY f.usage_count DESC, f.name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list frequent items: %w", err)
	}
	defer rows.Close()

	var items []model.FrequentItem
	for rows.Next() {
		var f model.FrequentItem
		var sectionID sql.NullInt64
		var supermarket sql.NullString
		if err := rows.Scan(&f.ID, &f.Name, &sectionID, &supermarket, &f.UsageCount, &f.CreatedAt,
			&f.SectionName, &f.SectionIcon); err != nil {
			return nil, fmt.Errorf("scan frequent item: %w", err)
		}
		if sectionID.Valid {
			f.SectionID = &sectionID.Int64
		}
		f.Supermarket = supermarket.String
		items = append(items, f)
	}
	return items, rows.Err()
}
