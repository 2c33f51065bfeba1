package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/addreeh/ph-shopping-list/internal/database"
	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

type fakeNotifier struct {
	mu    sync.Mutex
	sends []struct{ Title, Body, Tag string }
}

func (f *fakeNotifier) Send(_ context.Context, title, body, tag string) {
	f.mu.Lock()
	f.sends = append(f.sends, struct{ Title, Body, Tag string }{title, body, tag})
	f.mu.Unlock()
}

func (f *fakeNotifier) last() (struct{ Title, Body, Tag string }, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sends) == 0 {
		return struct{ Title, Body, Tag string }{}, false
	}
	return f.sends[len(f.sends)-1], true
}

func setupService(t *testing.T) (*Service, *store.FrequentItemStore, *fakeNotifier, model.User) {
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

	notifier := &fakeNotifier{}
	frequent := store.NewFrequentItemStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store.NewListStore(db), frequent, notifier, logger)
	return svc, frequent, notifier, *u
}

func openActive(t *testing.T, svc *Service, user model.User) *Mutator {
	t.Helper()
	l, err := svc.ActiveList(user.ID)
	if err != nil {
		t.Fatalf("active list: %v", err)
	}
	m, err := svc.Open(l, user)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return m
}

func TestActiveListSelfHeals(t *testing.T) {
	svc, _, _, user := setupService(t)

	l, err := svc.ActiveList(user.ID)
	if err != nil {
		t.Fatalf("active list: %v", err)
	}
	if !l.IsActive {
		t.Error("created list is not active")
	}
	if !strings.HasPrefix(l.Name, "Lista de la semana - ") {
		t.Errorf("name = %q, want weekly prefix with date", l.Name)
	}

	// A second call returns the same list instead of creating another.
	again, err := svc.ActiveList(user.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if again.ID != l.ID {
		t.Errorf("second call created list %d, want %d", again.ID, l.ID)
	}
}

func TestAddItemDefaultsAndNotification(t *testing.T) {
	svc, frequent, notifier, user := setupService(t)
	m := openActive(t, svc, user)

	item, err := m.AddItem(context.Background(), model.ItemDraft{Name: "  Leche  ", Supermarket: "Mercadona"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Name != "Leche" {
		t.Errorf("name = %q, want trimmed Leche", item.Name)
	}
	if item.Quantity != 1 || item.Unit != model.UnitUnidad {
		t.Errorf("defaults = %d %q, want 1 unidad", item.Quantity, item.Unit)
	}
	if m.Mirror().Len() != 1 {
		t.Errorf("mirror len = %d, want 1", m.Mirror().Len())
	}

	got, ok := notifier.last()
	if !ok {
		t.Fatal("no notification sent")
	}
	if got.Title != "Producto añadido" || got.Tag != "item-added" {
		t.Errorf("notification = %+v", got)
	}
	if got.Body != "Leche se añadió a la lista (Mercadona)" {
		t.Errorf("body = %q", got.Body)
	}

	// The frequent-item upsert runs in the background.
	deadline := time.Now().Add(2 * time.Second)
	for {
		items, err := frequent.ListTop(5)
		if err != nil {
			t.Fatalf("list frequent: %v", err)
		}
		if len(items) == 1 && items[0].Name == "Leche" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("frequent item never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc, _, _, user := setupService(t)
	m := openActive(t, svc, user)

	if _, err := m.AddItem(context.Background(), model.ItemDraft{Name: "   "}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name err = %v, want ErrEmptyName", err)
	}
	if _, err := m.AddItem(context.Background(), model.ItemDraft{Name: "Leche", Unit: "toneladas"}); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("bad unit err = %v, want ErrInvalidUnit", err)
	}
	if m.Mirror().Len() != 0 {
		t.Errorf("mirror len = %d after rejected adds, want 0", m.Mirror().Len())
	}
}

func TestTogglePurchasedNotifiesOnlyOnPurchase(t *testing.T) {
	svc, _, notifier, user := setupService(t)
	m := openActive(t, svc, user)

	item, _ := m.AddItem(context.Background(), model.ItemDraft{Name: "Pan"})

	got, err := m.TogglePurchased(context.Background(), item.ID, true)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !got.IsPurchased || got.PurchasedByName != "Adri" {
		t.Errorf("after purchase: %+v", got)
	}
	last, _ := notifier.last()
	if last.Tag != "item-purchased" || last.Body != "Pan marcado como comprado" {
		t.Errorf("notification = %+v", last)
	}

	before := len(notifier.sends)
	if _, err := m.TogglePurchased(context.Background(), item.ID, false); err != nil {
		t.Fatalf("unpurchase: %v", err)
	}
	if len(notifier.sends) != before {
		t.Error("unpurchasing must not notify")
	}

	mirrored := m.Mirror().Get(item.ID)
	if mirrored.IsPurchased || mirrored.PurchasedByName != "" {
		t.Errorf("mirror not reconciled: %+v", mirrored)
	}
}

func TestTogglePurchasedGoneItem(t *testing.T) {
	svc, _, _, user := setupService(t)
	m := openActive(t, svc, user)

	item, _ := m.AddItem(context.Background(), model.ItemDraft{Name: "Pan"})

	// Another device deletes the item out from under the mirror.
	if err := svc.lists.DeleteItem(item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := m.TogglePurchased(context.Background(), item.ID, true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for deleted item", got)
	}
	if m.Mirror().Get(item.ID) != nil {
		t.Error("mirror still holds the deleted item")
	}
}

func TestDeleteItemIdempotent(t *testing.T) {
	svc, _, _, user := setupService(t)
	m := openActive(t, svc, user)

	item, _ := m.AddItem(context.Background(), model.ItemDraft{Name: "Pan"})

	if err := m.DeleteItem(item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteItem(item.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if m.Mirror().Len() != 0 {
		t.Errorf("mirror len = %d, want 0", m.Mirror().Len())
	}
}

func TestResetClearsPurchases(t *testing.T) {
	svc, _, _, user := setupService(t)
	m := openActive(t, svc, user)

	a, _ := m.AddItem(context.Background(), model.ItemDraft{Name: "Pan"})
	b, _ := m.AddItem(context.Background(), model.ItemDraft{Name: "Leche"})
	m.TogglePurchased(context.Background(), a.ID, true)
	m.TogglePurchased(context.Background(), b.ID, true)

	count, err := m.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if count != 2 {
		t.Errorf("reset count = %d, want 2", count)
	}
	purchased, total := m.Mirror().Progress()
	if purchased != 0 || total != 2 {
		t.Errorf("progress = %d/%d, want 0/2", purchased, total)
	}
}

func TestSaveAsTemplate(t *testing.T) {
	svc, _, _, user := setupService(t)
	m := openActive(t, svc, user)

	if _, err := m.SaveAsTemplate("Semanal"); !errors.Is(err, ErrEmptyList) {
		t.Errorf("empty list err = %v, want ErrEmptyList", err)
	}

	m.AddItem(context.Background(), model.ItemDraft{Name: "Leche", Supermarket: "Mercadona"})

	if _, err := m.SaveAsTemplate("  "); !errors.Is(err, ErrEmptyTemplateName) {
		t.Errorf("blank name err = %v, want ErrEmptyTemplateName", err)
	}

	tmpl, err := m.SaveAsTemplate("Semanal")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !tmpl.IsTemplate || tmpl.IsActive {
		t.Errorf("template flags = %+v", tmpl)
	}

	// Snapshot keeps the supermarket assignment.
	items, err := svc.lists.ListItems(tmpl.ID)
	if err != nil {
		t.Fatalf("list template items: %v", err)
	}
	if len(items) != 1 || items[0].Supermarket != "Mercadona" {
		t.Errorf("template items = %+v", items)
	}
}
