package template

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/addreeh/ph-shopping-list/internal/database"
	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

func setupService(t *testing.T) (*Service, *store.ListStore, model.User) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	u, err := store.NewUserStore(db).Create("adri", "Adri", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	lists := store.NewListStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(lists, logger), lists, *u
}

func TestCreateValidation(t *testing.T) {
	svc, _, user := setupService(t)

	if _, err := svc.Create(user, "  ", []model.ItemDraft{{Name: "Pan"}}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name err = %v, want ErrEmptyName", err)
	}
	if _, err := svc.Create(user, "Semanal", nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("no items err = %v, want ErrNoItems", err)
	}
	// Drafts that clean down to nothing are rejected too.
	if _, err := svc.Create(user, "Semanal", []model.ItemDraft{{Name: "   "}}); !errors.Is(err, ErrNoItems) {
		t.Errorf("blank drafts err = %v, want ErrNoItems", err)
	}
}

func TestCreateDropsSupermarket(t *testing.T) {
	svc, lists, user := setupService(t)

	tmpl, err := svc.Create(user, "Semanal", []model.ItemDraft{
		{Name: "Leche", Quantity: 2, Unit: "l", Supermarket: "Mercadona"},
		{Name: "  Pan  ", Supermarket: "Lidl"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items, _ := lists.ListItems(tmpl.ID)
	if len(items) != 2 {
		t.Fatalf("item count = %d, want 2", len(items))
	}
	for _, item := range items {
		if item.Supermarket != "" {
			t.Errorf("item %q kept supermarket %q, templates built from scratch must not", item.Name, item.Supermarket)
		}
	}
	if items[1].Name != "Pan" || items[1].Quantity != 1 || items[1].Unit != model.UnitUnidad {
		t.Errorf("cleaned draft = %+v, want trimmed name with defaults", items[1])
	}
}

func TestUseTemplate(t *testing.T) {
	svc, lists, user := setupService(t)

	prev, err := lists.CreateList("vieja activa", true, false, &user.ID)
	if err != nil {
		t.Fatalf("create active: %v", err)
	}

	tmpl, err := svc.Create(user, "Semanal", []model.ItemDraft{
		{Name: "Pan"}, {Name: "Leche"}, {Name: "Huevos"},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	l, err := svc.Use(user, tmpl.ID)
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if !strings.HasPrefix(l.Name, "Semanal - ") {
		t.Errorf("name = %q, want template name with date suffix", l.Name)
	}

	// Exactly one active list remains, and it is the new one.
	active, _ := lists.GetActiveList()
	if active == nil || active.ID != l.ID {
		t.Fatalf("active = %+v, want %d", active, l.ID)
	}
	old, _ := lists.GetListByID(prev.ID)
	if old.IsActive {
		t.Error("previous active list not deactivated")
	}

	// Three fresh copies, unpurchased, distinct from the template's rows.
	items, _ := lists.ListItems(l.ID)
	if len(items) != 3 {
		t.Fatalf("copied %d items, want 3", len(items))
	}
	tmplItems, _ := lists.ListItems(tmpl.ID)
	ids := make(map[int64]bool)
	for _, it := range tmplItems {
		ids[it.ID] = true
	}
	for _, it := range items {
		if ids[it.ID] {
			t.Errorf("item %q shares a row with the template", it.Name)
		}
		if it.IsPurchased {
			t.Errorf("item %q copied as purchased", it.Name)
		}
	}
}

func TestUseRejectsNonTemplate(t *testing.T) {
	svc, lists, user := setupService(t)

	l, _ := lists.CreateList("normal", true, false, &user.ID)
	if _, err := svc.Use(user, l.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for non-template", err)
	}
	if _, err := svc.Use(user, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for missing id", err)
	}
}

func TestListAndDelete(t *testing.T) {
	svc, _, user := setupService(t)

	a, _ := svc.Create(user, "Primera", []model.ItemDraft{{Name: "Pan"}})
	b, _ := svc.Create(user, "Segunda", []model.ItemDraft{{Name: "Leche"}, {Name: "Huevos"}})

	templates, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("got %d templates, want 2", len(templates))
	}
	for _, tmpl := range templates {
		if tmpl.CreatedByName != "Adri" {
			t.Errorf("creator name = %q, want Adri", tmpl.CreatedByName)
		}
	}
	// Newest first.
	if templates[0].ID != b.ID {
		t.Errorf("first template = %d, want newest %d", templates[0].ID, b.ID)
	}

	if err := svc.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}

	templates, _ = svc.List()
	if len(templates) != 1 {
		t.Errorf("got %d templates after delete, want 1", len(templates))
	}
}
