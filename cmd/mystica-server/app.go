package main

import (
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/config"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid mystica configuration", err, logging.Fields{
			"config_path": path,
			"hint":        "create a mystica_config.json with 'tiers', 'enemies', 'weapons', 'materials', 'item_types' and 'pools' arrays; optional: server.address",
		})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string, cfg *config.LoadedConfig) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, cfg)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db, cfg.Enemies, cfg.Tiers)
}
