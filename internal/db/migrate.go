package db

import (
	"fmt"
	"time"

	"github.com/discobots/discobots-web/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Session{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// ddl defines an index or DDL statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_sessions_user_id_expires_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_sessions_user_id_expires_at
				ON sessions (user_id, expires_at)
			`,
		},
		{
			name: "idx_users_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_users_created_at
				ON users (created_at DESC)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	if errSweep := sweepExpiredSessions(conn); errSweep != nil {
		return errSweep
	}
	return nil
}

// sweepExpiredSessions drops sessions whose expiry already passed.
func sweepExpiredSessions(conn *gorm.DB) error {
	if errDelete := conn.
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&models.Session{}).Error; errDelete != nil {
		return fmt.Errorf("db: sweep expired sessions: %w", errDelete)
	}
	return nil
}
