// File: cmd/server/providers.go
package main

import (
	"fmt"
	"log"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/catalog"
	"localpro_backend/internal/config"
	"localpro_backend/internal/customer"
	"localpro_backend/internal/filestorage"
	"localpro_backend/internal/platform/database"
	"localpro_backend/internal/provider"
	"localpro_backend/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDatabase opens the connection and keeps the schema current.
func provideDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&user.User{},
		&provider.ProviderProfile{},
		&customer.CustomerProfile{},
		&catalog.Service{},
		&activity.Activity{},
	)
	if err != nil {
		return nil, fmt.Errorf("running schema migration: %w", err)
	}
	return db, nil
}

func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.FileStorageService, error) {
	return filestorage.NewFileStorageService(cfg.UploadStoragePath, logger)
}

// provideServiceCounter narrows the catalog repository to the counting
// interface the provider service depends on.
func provideServiceCounter(repo catalog.Repository) provider.ServiceCounter {
	return repo
}

// provideUserFlagger narrows the user repository to the flag setter shared
// by the provider and customer services.
func provideUserFlagger(repo user.Repository) provider.UserFlagger {
	return repo
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
