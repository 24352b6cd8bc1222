// Package session implements the server-held login state for the
// cookie-based flow. Sessions are opaque identifiers persisted in the
// database; each request resolves its identity fresh from the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/discobots/discobots-web/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CookieName carries the session identifier in the cookie flow.
const CookieName = "discobots_session"

// ErrNoSession indicates the identifier maps to no live session.
var ErrNoSession = errors.New("no active session")

// Manager issues, resolves, and clears cookie-backed sessions.
type Manager struct {
	db             *gorm.DB
	expiry         time.Duration
	rememberExpiry time.Duration
}

// NewManager constructs a Manager with the configured lifetimes.
func NewManager(db *gorm.DB, expiry, rememberExpiry time.Duration) *Manager {
	return &Manager{db: db, expiry: expiry, rememberExpiry: rememberExpiry}
}

// Issue creates a session row for the user and returns its identifier.
// Remember-me sessions get the extended lifetime.
func (m *Manager) Issue(ctx context.Context, userID uint64, remember bool) (string, error) {
	ttl := m.expiry
	if remember {
		ttl = m.rememberExpiry
	}
	record := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Remember:  remember,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if errCreate := m.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return "", fmt.Errorf("session: create: %w", errCreate)
	}
	return record.Token, nil
}

// Resolve maps a session identifier to its user ID. Expired rows are
// treated as absent and removed opportunistically.
func (m *Manager) Resolve(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, ErrNoSession
	}
	var record models.Session
	errFind := m.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("session: query: %w", errFind)
	}
	if time.Now().UTC().After(record.ExpiresAt) {
		_ = m.db.WithContext(ctx).Delete(&models.Session{}, record.ID).Error
		return 0, ErrNoSession
	}
	return record.UserID, nil
}

// Clear removes a session row. Clearing an unknown or already-cleared
// identifier is a no-op.
func (m *Manager) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if errDelete := m.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; errDelete != nil {
		return fmt.Errorf("session: clear: %w", errDelete)
	}
	return nil
}

// PurgeExpired removes all sessions past their expiry.
func (m *Manager) PurgeExpired(ctx context.Context) error {
	if errDelete := m.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&models.Session{}).Error; errDelete != nil {
		return fmt.Errorf("session: purge: %w", errDelete)
	}
	return nil
}

// CookieMaxAge returns the cookie lifetime in seconds. Sessions without
// remember-me ride a browser-session cookie (max-age zero).
func (m *Manager) CookieMaxAge(remember bool) int {
	if !remember {
		return 0
	}
	return int(m.rememberExpiry / time.Second)
}
