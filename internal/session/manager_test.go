package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	internaldb "github.com/discobots/discobots-web/internal/db"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T, expiry, rememberExpiry time.Duration) *Manager {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := internaldb.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return NewManager(conn, expiry, rememberExpiry)
}

func TestIssueAndResolve(t *testing.T) {
	m := newTestManager(t, time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, 7, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, errResolve := m.Resolve(ctx, token)
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if userID != 7 {
		t.Fatalf("expected user 7, got %d", userID)
	}
}

func TestResolve_ExpiredSession(t *testing.T) {
	m := newTestManager(t, -time.Second, 30*24*time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, 7, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, errResolve := m.Resolve(ctx, token); !errors.Is(errResolve, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for expired session, got %v", errResolve)
	}
}

func TestClear_Idempotent(t *testing.T) {
	m := newTestManager(t, time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, 7, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if errClear := m.Clear(ctx, token); errClear != nil {
		t.Fatalf("clear: %v", errClear)
	}
	if errClear := m.Clear(ctx, token); errClear != nil {
		t.Fatalf("second clear: %v", errClear)
	}
	if errClear := m.Clear(ctx, "unknown-token"); errClear != nil {
		t.Fatalf("clear unknown: %v", errClear)
	}
	if _, errResolve := m.Resolve(ctx, token); !errors.Is(errResolve, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", errResolve)
	}
}

func TestCookieMaxAge(t *testing.T) {
	m := newTestManager(t, time.Hour, 48*time.Hour)
	if got := m.CookieMaxAge(false); got != 0 {
		t.Fatalf("expected browser-session cookie, got max-age %d", got)
	}
	if got := m.CookieMaxAge(true); got != int(48*time.Hour/time.Second) {
		t.Fatalf("expected remember max-age %d, got %d", int(48*time.Hour/time.Second), got)
	}
}
