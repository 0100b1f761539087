package cmd

import (
	"fmt"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles the collaborators every command builds from the configuration.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	storage storage.Client
}

// bootstrap loads the configuration and connects the database and the storage client.
// When requireDB is false a failed database connection is logged and db stays nil.
func bootstrap(requireDB bool) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, log: logg}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		if requireDB {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		a.db = db
		logg.Info("Connected to inventory database", zap.String("driver", cfg.Database.Driver))
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	a.storage = client

	return a, nil
}
