package list

import "github.com/addreeh/ph-shopping-list/internal/model"

// Bucket labels for items without a supermarket or section.
const (
	SupermarketUnassigned = "Sin asignar"
	SectionUncategorized  = "Sin categoría"
)

// SectionGroup is one section bucket inside a supermarket bucket.
type SectionGroup struct {
	Name      string                   `json:"name"`
	Icon      string                   `json:"icon,omitempty"`
	Items     []model.ShoppingListItem `json:"items"`
	Purchased int                      `json:"purchased"`
	Total     int                      `json:"total"`
}

// SupermarketGroup is one supermarket bucket of the grouped view.
type SupermarketGroup struct {
	Name      string         `json:"name"`
	Sections  []SectionGroup `json:"sections"`
	Purchased int            `json:"purchased"`
	Total     int            `json:"total"`
}

// Group builds the two-level supermarket/section view of a flat item
// collection. Buckets appear in the order their key is first encountered
// while scanning the input, and items keep their input order within each
// bucket. The result is derived data: it is recomputed on every call and
// never stored.
func Group(items []model.ShoppingListItem) []SupermarketGroup {
	var groups []SupermarketGroup
	superIdx := make(map[string]int)
	sectionIdx := make(map[string]map[string]int)

	for _, item := range items {
		super := item.Supermarket
		if super == "" {
			super = SupermarketUnassigned
		}
		section := item.SectionName
		if section == "" {
			section = SectionUncategorized
		}

		gi, ok := superIdx[super]
		if !ok {
			gi = len(groups)
			superIdx[super] = gi
			sectionIdx[super] = make(map[string]int)
			groups = append(groups, SupermarketGroup{Name: super})
		}
		g := &groups[gi]

		si, ok := sectionIdx[super][section]
		if !ok {
			si = len(g.Sections)
			sectionIdx[super][section] = si
			g.Sections = append(g.Sections, SectionGroup{Name: section, Icon: item.SectionIcon})
		}
		sec := &g.Sections[si]

		sec.Items = append(sec.Items, item)
		sec.Total++
		g.Total++
		if item.IsPurchased {
			sec.Purchased++
			g.Purchased++
		}
	}

	return groups
}

// Progress returns the purchased and total item counts for the whole list.
func Progress(items []model.ShoppingListItem) (purchased, total int) {
	for _, item := range items {
		total++
		if item.IsPurchased {
			purchased++
		}
	}
	return purchased, total
}
