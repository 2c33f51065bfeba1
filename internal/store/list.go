package store

import (
	"database/sql"
	"fmt"

	"github.com/addreeh/ph-shopping-list/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var createdBy sql.NullInt64
	var isActive, isTemplate int

	err := scanner.Scan(&l.ID, &l.Name, &isActive, &isTemplate, &createdBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	l.IsActive = isActive != 0
	l.IsTemplate = isTemplate != 0
	if createdBy.Valid {
		l.CreatedBy = &createdBy.Int64
	}
	return &l, nil
}

const listCols = `id, name, is_active, is_template, created_by, created_at`

func (s *ListStore) CreateList(name string, isActive, isTemplate bool, createdBy *int64) (*model.ShoppingList, error) {
	var cBy sql.NullInt64
	if createdBy != nil {
		cBy = sql.NullInt64{Int64: *createdBy, Valid: true}
	}
	result, err := s.db.Exec(
		`INSERT INTO shopping_lists (name, is_active, is_template, created_by) VALUES (?, ?, ?, ?)`,
		name, boolToInt(isActive), boolToInt(isTemplate), cBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetListByID(id)
}

func (s *ListStore) GetListByID(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// GetActiveList returns the single active list, or nil when none exists.
func (s *ListStore) GetActiveList() (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT ` + listCols + ` FROM shopping_lists WHERE is_active = 1 LIMIT 1`)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active list: %w", err)
	}
	return l, nil
}

// ListTemplates returns all template lists newest-first, with creator names resolved.
func (s *ListStore) ListTemplates() ([]model.ShoppingList, error) {
	rows, err := s.db.Query(`
		SELECT l.id, l.name, l.is_active, l.is_template, l.created_by, l.created_at,
		       COALESCE(u.display_name, '')
		FROM shopping_lists l
		LEFT JOIN users u ON u.id = l.created_by
		WHERE l.is_template = 1
		ORDER BY l.created_at DESC, l.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ShoppingList
	for rows.Next() {
		var l model.ShoppingList
		var createdBy sql.NullInt64
		var isActive, isTemplate int
		if err := rows.Scan(&l.ID, &l.Name, &isActive, &isTemplate, &createdBy, &l.CreatedAt, &l.CreatedByName); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		l.IsActive = isActive != 0
		l.IsTemplate = isTemplate != 0
		if createdBy.Valid {
			l.CreatedBy = &createdBy.Int64
		}
		templates = append(templates, l)
	}
	return templates, rows.Err()
}

// DeleteList removes a list; its items go with it via the FK cascade.
func (s *ListStore) DeleteList(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.ShoppingListItem, error) {
	var item model.ShoppingListItem
	var sectionID, addedBy, purchasedBy sql.NullInt64
	var supermarket, notes sql.NullString
	var purchased int

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Unit,
		&sectionID, &supermarket, &notes, &purchased,
		&addedBy, &purchasedBy, &item.CreatedAt,
		&item.SectionName, &item.SectionIcon,
		&item.AddedByName, &item.PurchasedByName,
	)
	if err != nil {
		return nil, err
	}

	item.IsPurchased = purchased != 0
	item.Supermarket = supermarket.String
	item.Notes = notes.String
	if sectionID.Valid {
		item.SectionID = &sectionID.Int64
	}
	if addedBy.Valid {
		item.AddedBy = &addedBy.Int64
	}
	if purchasedBy.Valid {
		item.PurchasedBy = &purchasedBy.Int64
	}
	return &item, nil
}

const itemSelect = `
	SELECT i.id, i.list_id, i.name, i.quantity, i.unit,
	       i.section_id, i.supermarket, i.notes, i.is_purchased,
	       i.added_by, i.purchased_by, i.created_at,
	       COALESCE(s.name, ''), COALESCE(s.icon, ''),
	       COALESCE(ua.display_name, ''), COALESCE(up.display_name, '')
	FROM shopping_list_items i
	LEFT JOIN supermarket_sections s ON s.id = i.section_id
	LEFT JOIN users ua ON ua.id = i.added_by
	LEFT JOIN users up ON up.id = i.purchased_by`

func (s *ListStore) GetItemByID(id int64) (*model.ShoppingListItem, error) {
	row := s.db.QueryRow(itemSelect+` WHERE i.id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// CreateItem inserts a new item and returns it with join attributes resolved.
func (s *ListStore) CreateItem(listID int64, draft model.ItemDraft, addedBy int64) (*model.ShoppingListItem, error) {
	var sectionID sql.NullInt64
	if draft.SectionID != nil {
		sectionID = sql.NullInt64{Int64: *draft.SectionID, Valid: true}
	}
	result, err := s.db.Exec(
		`INSERT INTO shopping_list_items (list_id, name, quantity, unit, section_id, supermarket, notes, added_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		listID, draft.Name, draft.Quantity, draft.Unit, sectionID,
		nullableString(draft.Supermarket), nullableString(draft.Notes), addedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

// ListItems returns a list's items in insertion order.
func (s *ListStore) ListItems(listID int64) ([]model.ShoppingListItem, error) {
	rows, err := s.db.Query(itemSelect+` WHERE i.list_id = ? ORDER BY i.created_at ASC, i.id ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetPurchased updates is_purchased and purchased_by together in one statement.
// purchasedBy is ignored (stored as NULL) when purchased is false.
// Returns nil when the item no longer exists.
func (s *ListStore) SetPurchased(id int64, purchased bool, purchasedBy int64) (*model.ShoppingListItem, error) {
	var pBy sql.NullInt64
	if purchased {
		pBy = sql.NullInt64{Int64: purchasedBy, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE shopping_list_items SET is_purchased = ?, purchased_by = ? WHERE id = ?`,
		boolToInt(purchased), pBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set purchased: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ListStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_list_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ResetItems clears purchase state for every item in the list in one statement.
func (s *ListStore) ResetItems(listID int64) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE shopping_list_items SET is_purchased = 0, purchased_by = NULL WHERE list_id = ?`,
		listID,
	)
	if err != nil {
		return 0, fmt.Errorf("reset items: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// --- Multi-step operations (transactional) ---

// CreateListWithItems creates a list and bulk-inserts its items in one transaction.
func (s *ListStore) CreateListWithItems(name string, isActive, isTemplate bool, createdBy int64, drafts []model.ItemDraft) (*model.ShoppingList, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	listID, err := insertListTx(tx, name, isActive, isTemplate, createdBy)
	if err != nil {
		return nil, err
	}
	if err := insertItemsTx(tx, listID, drafts, createdBy); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetListByID(listID)
}

// InstantiateTemplate deactivates the current active list, creates a new
// active list with the given name, and copies the template's items into it,
// attributed to userID. Supermarket assignments are not carried over.
// The whole sequence is one transaction.
func (s *ListStore) InstantiateTemplate(templateID int64, name string, userID int64) (*model.ShoppingList, error) {
	items, err := s.ListItems(templateID)
	if err != nil {
		return nil, err
	}

	drafts := make([]model.ItemDraft, 0, len(items))
	for _, item := range items {
		drafts = append(drafts, model.ItemDraft{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			SectionID: item.SectionID,
			Notes:     item.Notes,
		})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE shopping_lists SET is_active = 0 WHERE is_active = 1`); err != nil {
		return nil, fmt.Errorf("deactivate active list: %w", err)
	}
	listID, err := insertListTx(tx, name, true, false, userID)
	if err != nil {
		return nil, err
	}
	if err := insertItemsTx(tx, listID, drafts, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetListByID(listID)
}

func insertListTx(tx *sql.Tx, name string, isActive, isTemplate bool, createdBy int64) (int64, error) {
	result, err := tx.Exec(
		`INSERT INTO shopping_lists (name, is_active, is_template, created_by) VALUES (?, ?, ?, ?)`,
		name, boolToInt(isActive), boolToInt(isTemplate), createdBy,
	)
	if err != nil {
		return 0, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func insertItemsTx(tx *sql.Tx, listID int64, drafts []model.ItemDraft, addedBy int64) error {
	stmt, err := tx.Prepare(
		`INSERT INTO shopping_list_items (list_id, name, quantity, unit, section_id, supermarket, notes, added_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range drafts {
		var sectionID sql.NullInt64
		if d.SectionID != nil {
			sectionID = sql.NullInt64{Int64: *d.SectionID, Valid: true}
		}
		if _, err := stmt.Exec(listID, d.Name, d.Quantity, d.Unit, sectionID,
			nullableString(d.Supermarket), nullableString(d.Notes), addedBy); err != nil {
			return fmt.Errorf("insert item %q: %w", d.Name, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
