package list

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

var (
	// ErrEmptyName is returned when an item draft has no name.
	ErrEmptyName = errors.New("name is required")
	// ErrInvalidUnit is returned when an item draft carries an unknown unit.
	ErrInvalidUnit = errors.New("invalid unit")
	// ErrEmptyList is returned when saving an empty list as a template.
	ErrEmptyList = errors.New("No hay productos en la lista para guardar como plantilla")
	// ErrEmptyTemplateName is returned when the template name is blank.
	ErrEmptyTemplateName = errors.New("template name is required")
)

// Notifier delivers a user-visible alert. Implementations must be
// best-effort: a failed delivery never surfaces to the mutation that
// triggered it.
type Notifier interface {
	Send(ctx context.Context, title, body, tag string)
}

const (
	weeklyListPrefix = "Lista de la semana"
	dateLayout       = "02/01/2006"
)

// Service owns the active shopping list and its mutations.
type Service struct {
	lists    *store.ListStore
	frequent *store.FrequentItemStore
	notifier Notifier
	logger   *slog.Logger
}

func NewService(lists *store.ListStore, frequent *store.FrequentItemStore, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{lists: lists, frequent: frequent, notifier: notifier, logger: logger}
}

// ActiveList returns the single active list, creating a fresh weekly list
// when none exists. "No active list" is a self-healing state, never an error.
func (s *Service) ActiveList(userID int64) (*model.ShoppingList, error) {
	l, err := s.lists.GetActiveList()
	if err != nil {
		return nil, err
	}
	if l != nil {
		return l, nil
	}

	name := fmt.Sprintf("%s - %s", weeklyListPrefix, time.Now().Format(dateLayout))
	l, err = s.lists.CreateList(name, true, false, &userID)
	if err != nil {
		return nil, fmt.Errorf("create active list: %w", err)
	}
	s.logger.Info("created active list", "list_id", l.ID, "name", l.Name)
	return l, nil
}

// Open loads the list's items once and returns a Mutator operating on the
// in-memory mirror on behalf of user.
func (s *Service) Open(l *model.ShoppingList, user model.User) (*Mutator, error) {
	items, err := s.lists.ListItems(l.ID)
	if err != nil {
		return nil, err
	}
	return &Mutator{
		svc:    s,
		list:   l,
		user:   user,
		mirror: NewMirror(items),
	}, nil
}

// Mutator performs write-through mutations for one user on one loaded
// list, keeping the mirror in sync instead of refetching.
type Mutator struct {
	svc    *Service
	list   *model.ShoppingList
	user   model.User
	mirror *Mirror
}

func (m *Mutator) List() *model.ShoppingList { return m.list }
func (m *Mutator) Mirror() *Mirror           { return m.mirror }

// AddItem validates and stores a new item, appends it to the mirror, and
// kicks off the frequent-item upsert in the background.
func (m *Mutator) AddItem(ctx context.Context, draft model.ItemDraft) (*model.ShoppingListItem, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return nil, ErrEmptyName
	}
	if draft.Quantity <= 0 {
		draft.Quantity = 1
	}
	if draft.Unit == "" {
		draft.Unit = model.UnitUnidad
	}
	if !model.ValidUnit(draft.Unit) {
		return nil, ErrInvalidUnit
	}

	item, err := m.svc.lists.CreateItem(m.list.ID, draft, m.user.ID)
	if err != nil {
		return nil, err
	}
	m.mirror.Append(*item)

	// Fire-and-forget: a failed upsert is logged on its own channel and
	// never rolls back or delays the add.
	go func(name string, sectionID *int64, supermarket string) {
		if err := m.svc.frequent.Upsert(name, sectionID, supermarket); err != nil {
			m.svc.logger.Error("upsert frequent item", "name", name, "error", err)
		}
	}(item.Name, item.SectionID, item.Supermarket)

	body := fmt.Sprintf("%s se añadió a la lista", item.Name)
	if item.Supermarket != "" {
		body = fmt.Sprintf("%s (%s)", body, item.Supermarket)
	}
	m.svc.notifier.Send(ctx, "Producto añadido", body, "item-added")

	return item, nil
}

// TogglePurchased sets purchase state and purchaser in one store update
// and reconciles the mirror in one step. Returns nil when the item no
// longer exists; a notification fires only on the transition to purchased.
func (m *Mutator) TogglePurchased(ctx context.Context, itemID int64, purchased bool) (*model.ShoppingListItem, error) {
	item, err := m.svc.lists.SetPurchased(itemID, purchased, m.user.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		m.mirror.Remove(itemID)
		return nil, nil
	}

	m.mirror.SetPurchased(itemID, purchased, m.user)

	if purchased {
		m.svc.notifier.Send(ctx, "Producto comprado",
			fmt.Sprintf("%s marcado como comprado", item.Name), "item-purchased")
	}
	return item, nil
}

// DeleteItem removes the item remotely then locally. Deleting an id that
// is already gone is not an error.
func (m *Mutator) DeleteItem(itemID int64) error {
	if err := m.svc.lists.DeleteItem(itemID); err != nil {
		return err
	}
	m.mirror.Remove(itemID)
	return nil
}

// Reset clears purchase state for the whole list in one remote statement
// and one mirror pass. Items are kept; this readies a recurring list for
// the next week.
func (m *Mutator) Reset() (int64, error) {
	count, err := m.svc.lists.ResetItems(m.list.ID)
	if err != nil {
		return 0, err
	}
	m.mirror.ResetAll()
	return count, nil
}

// SaveAsTemplate captures the list's current items into a new template,
// re-attributed to the acting user. Supermarket assignments are kept.
func (m *Mutator) SaveAsTemplate(name string) (*model.ShoppingList, error) {
	if m.mirror.Len() == 0 {
		return nil, ErrEmptyList
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTemplateName
	}

	items := m.mirror.Items()
	drafts := make([]model.ItemDraft, 0, len(items))
	for _, item := range items {
		drafts = append(drafts, model.ItemDraft{
			Name:        item.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			SectionID:   item.SectionID,
			Supermarket: item.Supermarket,
			Notes:       item.Notes,
		})
	}

	tmpl, err := m.svc.lists.CreateListWithItems(name, false, true, m.user.ID, drafts)
	if err != nil {
		return nil, fmt.Errorf("save as template: %w", err)
	}
	m.svc.logger.Info("saved list as template", "list_id", m.list.ID, "template_id", tmpl.ID)
	return tmpl, nil
}
