package main

import (
	"os"
	"strconv"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/api"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/location"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/stats"
)

func main() {
	// Game data configuration file (required). Path may be provided via
	// MYSTICA_CONFIG or defaults to ./mystica_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./mystica_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via MYSTICA_DB. Default to a
	// data/ directory for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/mystica.db"
	}
	repo := createRepositoryOrExit(dbPath, cfg)

	// All combat randomness flows through one seedable source. A fixed
	// seed via MYSTICA_RAND_SEED makes a whole server run reproducible for
	// balance testing.
	seed := time.Now().UnixNano()
	if raw := os.Getenv(constants.EnvRandSeed); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logging.Fatal("Invalid random seed", err, logging.Fields{"value": raw})
		}
		seed = parsed
	}
	rng := engine.NewLockedRand(seed)

	handler := api.NewCombatHandler(repo, location.NewService(cfg.Pools), stats.NewProvider(), rng)
	router := buildRouter(handler)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{"addr": addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
