package model

import "time"

// Units accepted for shopping list items.
const (
	UnitUnidad  = "unidad"
	UnitKg      = "kg"
	UnitG       = "g"
	UnitL       = "l"
	UnitMl      = "ml"
	UnitPaquete = "paquete"
	UnitCaja    = "caja"
)

// Units lists every valid item unit, in menu order.
var Units = []string{UnitUnidad, UnitKg, UnitG, UnitL, UnitMl, UnitPaquete, UnitCaja}

// ValidUnit reports whether u is one of the accepted units.
func ValidUnit(u string) bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}
	return false
}

// Supermarkets is the fixed set of stores items can be assigned to.
var Supermarkets = []string{"Mercadona", "Family Cash", "Lidl"}

type Section struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

type ShoppingList struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	IsTemplate bool      `json:"is_template"`
	CreatedBy  *int64    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`

	// Denormalized creator name, populated on template listings.
	CreatedByName string `json:"created_by_name,omitempty"`
}

type ShoppingListItem struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"list_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit"`
	SectionID   *int64    `json:"section_id"`
	Supermarket string    `json:"supermarket,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	IsPurchased bool      `json:"is_purchased"`
	AddedBy     *int64    `json:"added_by"`
	PurchasedBy *int64    `json:"purchased_by"`
	CreatedAt   time.Time `json:"created_at"`

	// Denormalized join attributes resolved by the store.
	SectionName     string `json:"section_name,omitempty"`
	SectionIcon     string `json:"section_icon,omitempty"`
	AddedByName     string `json:"added_by_name,omitempty"`
	PurchasedByName string `json:"purchased_by_name,omitempty"`
}

// ItemDraft carries the user-supplied fields of a new item.
type ItemDraft struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	SectionID   *int64 `json:"section_id"`
	Supermarket string `json:"supermarket"`
	Notes       string `json:"notes"`
}

type FrequentItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SectionID   *int64    `json:"section_id"`
	Supermarket string    `json:"supermarket,omitempty"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`

	SectionName string `json:"section_name,omitempty"`
	SectionIcon string `json:"section_icon,omitempty"`
}
