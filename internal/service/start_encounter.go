package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/location"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"

	"github.com/google/uuid"
)

// StartEncounter initializes a combat session: it resolves the eligible
// enemy pools for the location and level, samples one enemy uniformly and
// one cosmetic style by weight, realizes the enemy's stats, snapshots the
// player's equipped stats and weapon layout, and persists the immutable
// session. Equipment changes after this point never affect the encounter.
func StartEncounter(repo storage.Repository, loc location.Service, provider engine.StatsProvider, rng *rand.Rand, playerUUID, locationID string, level int) (*game.CombatSession, error) {
	if level <= 0 {
		return nil, ErrInvalidLevel
	}

	pools, err := loc.MatchingEnemyPools(locationID, level)
	if err != nil {
		if errors.Is(err, location.ErrNoEligiblePools) {
			return nil, ErrNoEnemies
		}
		return nil, err
	}
	members, err := loc.PoolMembers(pools)
	if err != nil {
		if errors.Is(err, location.ErrNoEligiblePools) {
			return nil, ErrNoEnemies
		}
		return nil, err
	}
	enemyName, err := loc.PickRandom(members, rng)
	if err != nil {
		return nil, err
	}

	enemy, err := repo.GetEnemyTypeByName(enemyName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEnemyNotFound, enemyName)
		}
		return nil, err
	}
	tier, err := repo.GetTierByName(enemy.TierName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTierNotFound, enemy.TierName)
		}
		return nil, err
	}

	styleID, err := engine.PickWeightedStyle(enemy.Styles, rng)
	if err != nil {
		return nil, err
	}

	enemyStats, err := provider.RealizeEnemyStats(enemy, level, tier)
	if err != nil {
		return nil, err
	}
	enemyStats.StyleID = styleID

	playerStats, err := repo.GetEquippedStats(playerUUID)
	if err != nil {
		return nil, err
	}
	if playerStats.HitPoints <= 0 {
		playerStats.HitPoints = game.DefaultPlayerHP
	}

	layout, err := equippedLayout(repo, playerUUID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &game.CombatSession{
		SessionID:    uuid.NewString(),
		PlayerUUID:   playerUUID,
		EnemyTypeID:  enemy.ID,
		EnemyName:    enemy.Name,
		StyleID:      styleID,
		LocationID:   locationID,
		CombatLevel:  level,
		Status:       game.StatusActive,
		PlayerHP:     playerStats.HitPoints,
		EnemyHP:      enemyStats.HitPoints,
		PlayerMaxHP:  playerStats.HitPoints,
		EnemyMaxHP:   enemyStats.HitPoints,
		TurnNumber:   0,
		TurnOwner:    game.TurnOwnerPlayer,
		PlayerStats:  playerStats,
		EnemyStats:   enemyStats,
		WeaponLayout: layout,
		StartedAt:    now,
		ExpiresAt:    now.Add(game.SessionTTL),
	}
	if err := repo.CreateSession(s); err != nil {
		return nil, err
	}

	logging.Info("encounter started", logging.Fields{
		"session_id": s.SessionID,
		"player":     playerUUID,
		"enemy":      enemy.Name,
		"style":      styleID,
		"level":      level,
	})
	return s, nil
}

// equippedLayout resolves the active weapon's band layout. No equipped
// weapon (or a dangling reference) falls back to the default layout; this
// is the one lookup that is documented to default instead of failing.
func equippedLayout(repo storage.Repository, playerUUID string) (game.WeaponBandLayout, error) {
	profile, err := repo.GetOrCreateProfile(playerUUID)
	if err != nil {
		return game.WeaponBandLayout{}, err
	}
	if profile.EquippedWeaponID == nil {
		return game.DefaultBandLayout(), nil
	}
	w, err := repo.GetWeaponByID(*profile.EquippedWeaponID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logging.Warn("equipped weapon missing, using default layout", err, logging.Fields{"player": playerUUID})
			return game.DefaultBandLayout(), nil
		}
		return game.WeaponBandLayout{}, err
	}
	return w.Layout, nil
}
