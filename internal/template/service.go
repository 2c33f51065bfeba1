package template

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

var (
	// ErrEmptyName is returned when the template name is blank.
	ErrEmptyName = errors.New("template name is required")
	// ErrNoItems is returned when creating a template with no items.
	ErrNoItems = errors.New("template needs at least one item")
	// ErrNotFound is returned when the referenced template does not exist.
	ErrNotFound = errors.New("template not found")
)

const dateLayout = "02/01/2006"

// Service manages reusable list definitions: creating them, instantiating
// them as the new active list, and deleting them.
type Service struct {
	lists  *store.ListStore
	logger *slog.Logger
}

func NewService(lists *store.ListStore, logger *slog.Logger) *Service {
	return &Service{lists: lists, logger: logger}
}

// Template is a template list together with its items.
type Template struct {
	model.ShoppingList
	Items []model.ShoppingListItem `json:"items"`
}

// List returns all templates newest-first, each with its items.
func (s *Service) List() ([]Template, error) {
	lists, err := s.lists.ListTemplates()
	if err != nil {
		return nil, err
	}

	templates := make([]Template, 0, len(lists))
	for _, l := range lists {
		items, err := s.lists.ListItems(l.ID)
		if err != nil {
			return nil, err
		}
		templates = append(templates, Template{ShoppingList: l, Items: items})
	}
	return templates, nil
}

// Create builds a template from scratch. Both a name and at least one item
// are required. Supermarket assignments are not part of a from-scratch
// template; only the section carries over.
func (s *Service) Create(user model.User, name string, drafts []model.ItemDraft) (*model.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(drafts) == 0 {
		return nil, ErrNoItems
	}

	cleaned := make([]model.ItemDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}
		if d.Quantity <= 0 {
			d.Quantity = 1
		}
		if d.Unit == "" {
			d.Unit = model.UnitUnidad
		}
		d.Supermarket = ""
		cleaned = append(cleaned, d)
	}
	if len(cleaned) == 0 {
		return nil, ErrNoItems
	}

	tmpl, err := s.lists.CreateListWithItems(name, false, true, user.ID, cleaned)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	s.logger.Info("created template", "template_id", tmpl.ID, "items", len(cleaned))
	return tmpl, nil
}

// Use instantiates a template as the new active list: the current active
// list is deactivated, a dated list is created active, and the template's
// items are copied into it attributed to user. The sequence runs in one
// transaction, so a failure leaves the previous active list untouched.
func (s *Service) Use(user model.User, templateID int64) (*model.ShoppingList, error) {
	tmpl, err := s.lists.GetListByID(templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil || !tmpl.IsTemplate {
		return nil, ErrNotFound
	}

	name := fmt.Sprintf("%s - %s", tmpl.Name, time.Now().Format(dateLayout))
	l, err := s.lists.InstantiateTemplate(templateID, name, user.ID)
	if err != nil {
		return nil, fmt.Errorf("use template: %w", err)
	}
	s.logger.Info("instantiated template", "template_id", templateID, "list_id", l.ID)
	return l, nil
}

// Delete removes the template; its items go with it via the FK cascade.
func (s *Service) Delete(templateID int64) error {
	tmpl, err := s.lists.GetListByID(templateID)
	if err != nil {
		return err
	}
	if tmpl == nil || !tmpl.IsTemplate {
		return ErrNotFound
	}
	return s.lists.DeleteList(templateID)
}
