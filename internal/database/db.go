package database

import (
	"log"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Branch{},
		&model.Item{},
		&model.Position{},
		&model.ItemPosition{},
		&model.ItemMovement{},
		&model.ItemStatus{},
		&model.Order{},
		&model.OrderPosition{},
		&model.RawEvent{},
		&model.User{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
