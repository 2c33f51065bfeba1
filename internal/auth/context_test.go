package auth

import (
	"context"
	"testing"

	"github.com/addreeh/ph-shopping-list/internal/model"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		User:      model.User{ID: 1, Username: "adri", DisplayName: "Adri"},
		SessionID: 3,
		Token:     "tok",
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.User.ID != 1 || got.User.Username != "adri" {
		t.Errorf("User = %+v", got.User)
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
	if got.Token != "tok" {
		t.Errorf("Token = %q, want tok", got.Token)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestCurrentUser(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{User: model.User{ID: 7, DisplayName: "Adri"}})
	if u := CurrentUser(ctx); u.ID != 7 || u.DisplayName != "Adri" {
		t.Errorf("CurrentUser = %+v", u)
	}
}

func TestCurrentUserMissing(t *testing.T) {
	if u := CurrentUser(context.Background()); u.ID != 0 {
		t.Errorf("CurrentUser = %+v, want zero user", u)
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{User: model.User{ID: 7}})
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}
