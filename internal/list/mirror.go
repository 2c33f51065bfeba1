package list

import "github.com/addreeh/ph-shopping-list/internal/model"

// Mirror holds the in-memory copy of a loaded list's items. Mutations
// write through to the store first and then reconcile the mirror, so the
// full list is fetched once and never again while it is open.
type Mirror struct {
	items []model.ShoppingListItem
}

func NewMirror(items []model.ShoppingListItem) *Mirror {
	return &Mirror{items: items}
}

// Items returns the mirrored collection in insertion order.
func (m *Mirror) Items() []model.ShoppingListItem {
	return m.items
}

func (m *Mirror) Len() int {
	return len(m.items)
}

// Get returns a pointer into the mirror, or nil when the id is absent.
func (m *Mirror) Get(id int64) *model.ShoppingListItem {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i]
		}
	}
	return nil
}

// Append adds a freshly created item to the end of the collection.
func (m *Mirror) Append(item model.ShoppingListItem) {
	m.items = append(m.items, item)
}

// SetPurchased updates purchase state, purchaser id and purchaser display
// name in one step, so a stale name can never show against an unpurchased
// item. Returns false when the id is not mirrored.
func (m *Mirror) SetPurchased(id int64, purchased bool, purchaser model.User) bool {
	item := m.Get(id)
	if item == nil {
		return false
	}
	item.IsPurchased = purchased
	if purchased {
		pid := purchaser.ID
		item.PurchasedBy = &pid
		item.PurchasedByName = purchaser.DisplayName
	} else {
		item.PurchasedBy = nil
		item.PurchasedByName = ""
	}
	return true
}

// Remove deletes the item from the mirror. Removing an absent id is a no-op.
func (m *Mirror) Remove(id int64) bool {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// ResetAll clears purchase state on every item in one pass. The item count
// is unchanged.
func (m *Mirror) ResetAll() {
	for i := range m.items {
		m.items[i].IsPurchased = false
		m.items[i].PurchasedBy = nil
		m.items[i].PurchasedByName = ""
	}
}

// Grouped returns the supermarket/section view of the mirrored items.
func (m *Mirror) Grouped() []SupermarketGroup {
	return Group(m.items)
}

// Progress returns purchased and total counts for the mirrored items.
func (m *Mirror) Progress() (purchased, total int) {
	return Progress(m.items)
}
