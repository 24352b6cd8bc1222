package models

import "time"

// Session represents a server-held login session for the cookie flow.
type Session struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Token  string `gorm:"type:text;not null;uniqueIndex"` // Opaque cookie identifier.
	UserID uint64 `gorm:"not null;index"`                 // Owning user ID.

	Remember  bool      `gorm:"not null;default:false"` // Whether "remember me" extended the session.
	ExpiresAt time.Time `gorm:"not null;index"`         // Expiry timestamp.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
