package database

import "hayami/internal/models"

// RegisteredModels returns every model migrated by AutoMigrate, in FK order.
func RegisteredModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Channel{},
		&models.Artwork{},
		&models.Post{},
	}
}
