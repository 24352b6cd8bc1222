package models

import "time"

// User represents a registered site account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username     string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email        string `gorm:"type:text;not null;uniqueIndex"` // Unique email address.
	PasswordHash string `gorm:"type:text;not null"`             // Bcrypt password digest.

	Theme    string `gorm:"type:varchar(20);not null;default:light"` // UI theme preference.
	Language string `gorm:"type:varchar(10);not null;default:en"`    // UI language preference.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
