package store

import (
	"testing"
	"time"
)

func TestSessionCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u, err := us.Create("adri", "Adri", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user id = %d, want %d", sess.UserID, u.ID)
	}
	if !sess.ExpiresAt.After(time.Now().Add(29 * 24 * time.Hour)) {
		t.Errorf("expiry %v too soon", sess.ExpiresAt)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Errorf("GetByToken = %+v, want id %d", got, sess.ID)
	}
}

func TestSessionTokensUnique(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u, _ := us.Create("adri", "Adri", "h")
	a, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.Token == b.Token {
		t.Error("two sessions share a token")
	}
}

func TestSessionInvalidToken(t *testing.T) {
	ss := NewSessionStore(setupTestDB(t))

	sess, err := ss.GetByToken("no-such-token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil for unknown token, got %+v", sess)
	}
}

func TestSessionDeleteByToken(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u, _ := us.Create("adri", "Adri", "h")
	sess, _ := ss.Create(u.ID)

	if err := ss.DeleteByToken(sess.Token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := ss.GetByToken(sess.Token)
	if got != nil {
		t.Error("session should be gone after delete")
	}

	// Deleting again is not an error.
	if err := ss.DeleteByToken(sess.Token); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u, _ := us.Create("adri", "Adri", "h")
	live, _ := ss.Create(u.ID)

	// Insert an already expired session directly.
	if _, err := db.Exec(
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, datetime('now', '-1 day'))`,
		"expired-token", u.ID,
	); err != nil {
		t.Fatalf("insert expired: %v", err)
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}

	got, _ := ss.GetByToken(live.Token)
	if got == nil {
		t.Error("live session should survive cleanup")
	}
}
