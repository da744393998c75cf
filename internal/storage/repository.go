package storage

import (
	"errors"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

var (
	// ErrNotFound is returned by lookups that matched nothing.
	ErrNotFound = errors.New("record not found")

	// ErrTurnConflict is returned when a log append's expected turn number
	// does not match the log's current length plus one. Two concurrent
	// submissions for the same session cannot both succeed.
	ErrTurnConflict = errors.New("combat log turn conflict")

	// ErrDuplicateGrant is returned when a reward grant already exists for
	// the session (idempotency gate).
	ErrDuplicateGrant = errors.New("rewards already granted for session")
)

type Repository interface {
	// Static game data (config is source of truth for balance numbers).
	GetEnemyTypeByID(id uint) (*game.EnemyType, error)
	GetEnemyTypeByName(name string) (*game.EnemyType, error)
	GetTierByName(name string) (*game.Tier, error)
	GetWeaponByID(id uint) (*game.Weapon, error)
	GetMaterialByID(id uint) (*game.Material, error)
	GetItemTypeByID(id uint) (*game.ItemType, error)

	// Player profile and owned state. Credits are atomic read-modify-write
	// operations; retries cannot produce lost updates.
	GetOrCreateProfile(playerUUID string) (*game.PlayerProfile, error)
	GetEquippedStats(playerUUID string) (game.PlayerStats, error)
	CreditGold(playerUUID string, amount int) error
	CreditExperience(playerUUID string, amount int) error
	AddMaterialStack(playerUUID string, materialID uint, styleID string, quantity int) error
	CreateOwnedItem(item *game.OwnedItem) error
	UpdateCombatHistory(playerUUID, locationID string, outcome game.CombatOutcome) error
	GetCombatHistory(playerUUID string) ([]game.CombatHistory, error)

	// Sessions and the append-only combat log. AppendLogEntry performs a
	// conditional write: it fails with ErrTurnConflict unless the entry's
	// turn number is exactly the next one for the session.
	CreateSession(s *game.CombatSession) error
	GetSessionBySessionID(sessionID string) (*game.CombatSession, error)
	UpdateSession(s *game.CombatSession) error
	GetLogEntries(sessionID string) ([]game.CombatLogEntry, error)
	AppendLogEntry(e *game.CombatLogEntry) error

	// CreateRewardGrant inserts the per-session idempotency record, failing
	// with ErrDuplicateGrant on replay.
	CreateRewardGrant(g *game.RewardGrant) error
}
