// Package userstore holds the credential store shared by the cookie and
// token surfaces. Both consume the same user table through this type.
package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/discobots/discobots-web/internal/models"
	"github.com/discobots/discobots-web/internal/prefs"
	"github.com/discobots/discobots-web/internal/security"
	"gorm.io/gorm"
)

// Store provides user account persistence and credential checks.
type Store struct {
	db *gorm.DB
}

// New constructs a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Register creates a user with a hashed password and default preferences.
// Uniqueness of username and email is checked up front and backstopped by
// the table's unique constraints, so a racing duplicate still fails with
// a DuplicateFieldError and no partial row.
func (s *Store) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fmt.Errorf("userstore: missing username")
	}
	if email == "" {
		return nil, fmt.Errorf("userstore: missing email")
	}

	if errDup := s.checkDuplicate(ctx, username, email); errDup != nil {
		return nil, errDup
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return nil, fmt.Errorf("userstore: %w", errHash)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Theme:        prefs.DefaultTheme,
		Language:     prefs.DefaultLanguage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			// Lost a race; re-check to name the colliding field.
			if errDup := s.checkDuplicate(ctx, username, email); errDup != nil {
				return nil, errDup
			}
			return nil, &DuplicateFieldError{Field: "username"}
		}
		return nil, fmt.Errorf("userstore: create user: %w", errCreate)
	}
	return &user, nil
}

// checkDuplicate reports a DuplicateFieldError when username or email is
// already taken. Matching is exact, as stored.
func (s *Store) checkDuplicate(ctx context.Context, username, email string) error {
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error; errCount != nil {
		return fmt.Errorf("userstore: check username: %w", errCount)
	}
	if count > 0 {
		return &DuplicateFieldError{Field: "username"}
	}
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; errCount != nil {
		return fmt.Errorf("userstore: check email: %w", errCount)
	}
	if count > 0 {
		return &DuplicateFieldError{Field: "email"}
	}
	return nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both report ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("userstore: query user: %w", errFind)
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ByID loads a user by primary key.
func (s *Store) ByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("userstore: query user %d: %w", id, errFind)
	}
	return &user, nil
}

// ByUsername loads a user by exact username.
func (s *Store) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("userstore: query user %q: %w", username, errFind)
	}
	return &user, nil
}

// UpdatePreferences writes theme and/or language on the user row. Nil
// fields are left untouched; out-of-enum values are coerced to defaults,
// never rejected. Returns the updated user.
func (s *Store) UpdatePreferences(ctx context.Context, id uint64, theme, language *string) (*models.User, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if theme != nil {
		updates["theme"] = prefs.NormalizeTheme(*theme)
	}
	if language != nil {
		updates["language"] = prefs.NormalizeLanguage(*language)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("userstore: update preferences: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.ByID(ctx, id)
}
