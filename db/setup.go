package db

import (
	"fmt"

	"github.com/jobpilot-dev/jobpilot/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the configured backend. The driver is chosen once at
// startup: "postgres" for a server deployment, "sqlite" for the flat-file
// fallback. Request handlers never probe which backend is active.
func ConnectDatabase(driver, dsn string) error {
	var dialector gorm.Dialector

	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	var err error

	// TranslateError normalizes driver-specific unique violations into
	// gorm.ErrDuplicatedKey so handlers can map them to conflict responses.
	DB, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.CV{},
		&models.JobApplication{},
		&models.TodoItem{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
