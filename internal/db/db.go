package db

import (
	"fmt"
	"log"

	"gutenlens/internal/config"
	"gutenlens/internal/library"
	"gutenlens/internal/user"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database and migrates the schema.
func Init(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := gdb.AutoMigrate(&user.User{}, &library.Analysis{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	DB = gdb
	log.Printf("[DB] Connected using driver %q", cfg.Database.Driver)
	return nil
}

// HasUsers reports whether any user account exists. Used to decide
// whether the first-run setup endpoint is available.
func HasUsers() (bool, error) {
	var count int64
	if err := DB.Model(&user.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
