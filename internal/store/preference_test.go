package store

import "testing"

func TestPreferenceRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	u, _ := NewUserStore(db).Create("adri", "Adri", "h")
	ps := NewPreferenceStore(db)

	if err := ps.Set(u.ID, "expanded_supermarkets", `["Mercadona"]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := ps.Get(u.ID, "expanded_supermarkets")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != `["Mercadona"]` {
		t.Errorf("value = %q", v)
	}

	// Set again overwrites.
	ps.Set(u.ID, "expanded_supermarkets", `[]`)
	v, _ = ps.Get(u.ID, "expanded_supermarkets")
	if v != `[]` {
		t.Errorf("value after overwrite = %q", v)
	}
}

func TestPreferenceMissingKey(t *testing.T) {
	db := setupTestDB(t)
	u, _ := NewUserStore(db).Create("adri", "Adri", "h")
	ps := NewPreferenceStore(db)

	v, err := ps.Get(u.ID, "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "" {
		t.Errorf("value = %q, want empty", v)
	}
}

func TestPreferencePerUser(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	a, _ := us.Create("adri", "Adri", "h")
	b, _ := us.Create("pau", "Pau", "h")
	ps := NewPreferenceStore(db)

	ps.Set(a.ID, "theme", "dark")
	ps.Set(b.ID, "theme", "light")

	va, _ := ps.Get(a.ID, "theme")
	vb, _ := ps.Get(b.ID, "theme")
	if va != "dark" || vb != "light" {
		t.Errorf("values = %q/%q, want dark/light", va, vb)
	}

	ps.Remove(a.ID, "theme")
	va, _ = ps.Get(a.ID, "theme")
	vb, _ = ps.Get(b.ID, "theme")
	if va != "" || vb != "light" {
		t.Errorf("after remove = %q/%q", va, vb)
	}
}
