package userstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	internaldb "github.com/discobots/discobots-web/internal/db"
	"github.com/discobots/discobots-web/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := internaldb.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(conn)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Register(ctx, "alice", "a@x.com", "longenough1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.Theme != "light" || created.Language != "en" {
		t.Fatalf("expected default preferences, got theme=%q language=%q", created.Theme, created.Language)
	}
	if created.PasswordHash == "longenough1" {
		t.Fatalf("password stored in plaintext")
	}

	authed, errAuth := store.Authenticate(ctx, "alice", "longenough1")
	if errAuth != nil {
		t.Fatalf("authenticate: %v", errAuth)
	}
	if authed.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, authed.ID)
	}
}

func TestAuthenticate_GenericFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Register(ctx, "alice", "a@x.com", "longenough1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := store.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody", "longenough1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Register(ctx, "alice", "a@x.com", "longenough1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := store.Register(ctx, "alice", "other@x.com", "longenough1")
	var dup *DuplicateFieldError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateFieldError, got %v", err)
	}
	if dup.Field != "username" {
		t.Fatalf("expected field=username, got %q", dup.Field)
	}

	var count int64
	if errCount := store.db.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row for alice, got %d", count)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Register(ctx, "alice", "a@x.com", "longenough1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := store.Register(ctx, "bob", "a@x.com", "longenough1")
	var dup *DuplicateFieldError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateFieldError, got %v", err)
	}
	if dup.Field != "email" {
		t.Fatalf("expected field=email, got %q", dup.Field)
	}
}

func TestUpdatePreferences_Coercion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Register(ctx, "alice", "a@x.com", "longenough1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	theme := "purple"
	updated, errUpdate := store.UpdatePreferences(ctx, created.ID, &theme, nil)
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if updated.Theme != "light" {
		t.Fatalf("expected out-of-enum theme coerced to light, got %q", updated.Theme)
	}
	if updated.Language != "en" {
		t.Fatalf("expected language untouched, got %q", updated.Language)
	}

	dark, fr := "dark", "fr"
	updated, errUpdate = store.UpdatePreferences(ctx, created.ID, &dark, &fr)
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if updated.Theme != "dark" || updated.Language != "fr" {
		t.Fatalf("expected dark/fr, got %q/%q", updated.Theme, updated.Language)
	}

	// Writes are immediately visible to subsequent reads.
	reread, errFind := store.ByID(ctx, created.ID)
	if errFind != nil {
		t.Fatalf("by id: %v", errFind)
	}
	if reread.Theme != "dark" || reread.Language != "fr" {
		t.Fatalf("expected persisted dark/fr, got %q/%q", reread.Theme, reread.Language)
	}
}

func TestUpdatePreferences_UnknownUser(t *testing.T) {
	store := newTestStore(t)
	theme := "dark"
	if _, err := store.UpdatePreferences(context.Background(), 999, &theme, nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
