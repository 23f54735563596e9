package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"parley/internal/config"
	"parley/internal/model"
)

// Open connects to the configured storage backend. The same gorm adapter
// runs against both engines; only the dialector differs.
func Open(cfg config.DBConfig, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// Without this, concurrent upserts fail instead of converging.
		if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q (want postgres or sqlite)", cfg.Driver)
	}
}

// AutoMigrate creates the schema from the models. Used for the sqlite
// backend and as a fallback when SQL migrations cannot run.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.AuthUser{},
		&model.User{},
		&model.Conversation{},
		&model.Participant{},
		&model.Message{},
		&model.Reaction{},
		&model.ConversationRead{},
		&model.Bookmark{},
	)
}
