package storage

import (
	"strings"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/config"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database, keeps the schema updated via
// AutoMigrate and seeds the static game catalog from the loaded config when
// the tables are empty. Balance numbers stay config-sourced; only identity
// rows (names, relations, weights) are persisted.
func OpenAndMigrate(dataSourceName string, cfg *config.LoadedConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&game.Tier{}, &game.EnemyType{}, &game.EnemyStyle{}, &game.LootTableEntry{},
		&game.Weapon{}, &game.Material{}, &game.ItemType{},
		&game.PlayerProfile{}, &game.CombatHistory{}, &game.MaterialStack{}, &game.OwnedItem{},
		&game.CombatSession{}, &game.CombatLogEntry{}, &game.RewardGrant{},
	)
	if err != nil {
		return nil, err
	}

	// Explicit unique indexes for the two invariants the combat core leans
	// on: gapless per-session turn numbering and at-most-one reward grant
	// per session.
	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_combat_log_session_turn ON combat_log_entries(session_id, turn_number);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_reward_grants_session_id ON reward_grants(session_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_material_stack_owner_kind ON material_stacks(player_uuid, material_id, style_id);",
	}
	for _, stmt := range stmts {
		if execErr := db.Exec(stmt).Error; execErr != nil {
			return nil, execErr
		}
	}

	if err := seedGameData(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

func seedGameData(db *gorm.DB, cfg *config.LoadedConfig) error {
	var count int64
	db.Model(&game.EnemyType{}).Count(&count)
	if count > 0 {
		return nil
	}

	if len(cfg.Tiers) > 0 {
		tiers := make([]game.Tier, len(cfg.Tiers))
		copy(tiers, cfg.Tiers)
		if err := db.Create(&tiers).Error; err != nil {
			return err
		}
	}
	if len(cfg.Weapons) > 0 {
		weapons := make([]game.Weapon, len(cfg.Weapons))
		copy(weapons, cfg.Weapons)
		if err := db.Create(&weapons).Error; err != nil {
			return err
		}
	}

	materialIDs := make(map[string]uint, len(cfg.Materials))
	for _, m := range cfg.Materials {
		row := m
		if err := db.Create(&row).Error; err != nil {
			return err
		}
		materialIDs[strings.ToLower(row.Name)] = row.ID
	}
	itemTypeIDs := make(map[string]uint, len(cfg.ItemTypes))
	for _, it := range cfg.ItemTypes {
		row := it
		if err := db.Create(&row).Error; err != nil {
			return err
		}
		itemTypeIDs[strings.ToLower(row.Name)] = row.ID
	}

	for _, e := range cfg.Enemies {
		row := game.EnemyType{Name: e.Name, TierName: e.TierName, Styles: e.Styles}
		for _, l := range e.LootTable {
			entry := l
			switch l.Kind {
			case game.LootableMaterial:
				entry.TargetID = materialIDs[strings.ToLower(l.TargetName)]
			case game.LootableItem:
				entry.TargetID = itemTypeIDs[strings.ToLower(l.TargetName)]
			}
			row.LootTable = append(row.LootTable, entry)
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	}

	logging.Info("game catalog seeded", logging.Fields{
		"enemies":   len(cfg.Enemies),
		"tiers":     len(cfg.Tiers),
		"weapons":   len(cfg.Weapons),
		"materials": len(cfg.Materials),
	})
	return nil
}
