package service

import (
	"errors"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

// RecoveredSession is the full recovery payload a reconnecting client needs
// to resume an encounter mid-flight. HP figures are derived from the combat
// log tail, never from cached session fields.
type RecoveredSession struct {
	SessionID    string                `json:"session_id"`
	PlayerUUID   string                `json:"player_uuid"`
	EnemyTypeID  uint                  `json:"enemy_type_id"`
	EnemyName    string                `json:"enemy_name"`
	StyleID      string                `json:"style_id"`
	LocationID   string                `json:"location_id,omitempty"`
	CombatLevel  int                   `json:"combat_level"`
	Status       game.SessionStatus    `json:"status"`
	PlayerHP     int                   `json:"player_hp"`
	EnemyHP      int                   `json:"enemy_hp"`
	PlayerMaxHP  int                   `json:"player_max_hp"`
	EnemyMaxHP   int                   `json:"enemy_max_hp"`
	TurnNumber   int                   `json:"turn_number"`
	TurnOwner    game.TurnOwner        `json:"turn_owner"`
	PlayerStats  game.PlayerStats      `json:"player_stats"`
	EnemyStats   game.EnemyStats       `json:"enemy_stats"`
	WeaponLayout game.WeaponBandLayout `json:"weapon_layout"`
	Log          []game.CombatLogEntry `json:"log"`
	StartedAt    time.Time             `json:"started_at"`
	ExpiresAt    time.Time             `json:"expires_at"`
	Expired      bool                  `json:"expired"`
}

// SessionSummary is the minimal recovery payload for list views.
type SessionSummary struct {
	SessionID string             `json:"session_id"`
	EnemyName string             `json:"enemy_name"`
	Status    game.SessionStatus `json:"status"`
	PlayerHP  int                `json:"player_hp"`
	EnemyHP   int                `json:"enemy_hp"`
	TurnCount int                `json:"turn_count"`
	ExpiresAt time.Time          `json:"expires_at"`
	Expired   bool               `json:"expired"`
}

// RecoverSession reconstructs the full encounter state from the persisted
// session metadata plus its combat log. Pure read path: no mutation, no
// randomness, and a zero-length log (fresh encounter) recovers to the
// initial max HPs.
func RecoverSession(repo storage.Repository, playerUUID, sessionID string) (*RecoveredSession, error) {
	s, log, err := loadSessionAndLog(repo, playerUUID, sessionID)
	if err != nil {
		return nil, err
	}

	playerHP, enemyHP := game.CurrentHP(log, s.PlayerMaxHP, s.EnemyMaxHP)
	owner := s.TurnOwner
	if owner == "" {
		owner = game.TurnOwnerPlayer
	}

	return &RecoveredSession{
		SessionID:    s.SessionID,
		PlayerUUID:   s.PlayerUUID,
		EnemyTypeID:  s.EnemyTypeID,
		EnemyName:    s.EnemyName,
		StyleID:      s.StyleID,
		LocationID:   s.LocationID,
		CombatLevel:  s.CombatLevel,
		Status:       s.Status,
		PlayerHP:     playerHP,
		EnemyHP:      enemyHP,
		PlayerMaxHP:  s.PlayerMaxHP,
		EnemyMaxHP:   s.EnemyMaxHP,
		TurnNumber:   len(log),
		TurnOwner:    owner,
		PlayerStats:  s.PlayerStats,
		EnemyStats:   s.EnemyStats,
		WeaponLayout: s.WeaponLayout,
		Log:          log,
		StartedAt:    s.StartedAt,
		ExpiresAt:    s.ExpiresAt,
		Expired:      s.Expired(time.Now().UTC()),
	}, nil
}

// SummarizeSession is the lightweight variant of RecoverSession.
func SummarizeSession(repo storage.Repository, playerUUID, sessionID string) (*SessionSummary, error) {
	s, log, err := loadSessionAndLog(repo, playerUUID, sessionID)
	if err != nil {
		return nil, err
	}
	playerHP, enemyHP := game.CurrentHP(log, s.PlayerMaxHP, s.EnemyMaxHP)
	return &SessionSummary{
		SessionID: s.SessionID,
		EnemyName: s.EnemyName,
		Status:    s.Status,
		PlayerHP:  playerHP,
		EnemyHP:   enemyHP,
		TurnCount: len(log),
		ExpiresAt: s.ExpiresAt,
		Expired:   s.Expired(time.Now().UTC()),
	}, nil
}

func loadSessionAndLog(repo storage.Repository, playerUUID, sessionID string) (*game.CombatSession, []game.CombatLogEntry, error) {
	s, err := repo.GetSessionBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}
	if s.PlayerUUID != playerUUID {
		return nil, nil, ErrSessionNotOwned
	}
	log, err := repo.GetLogEntries(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return s, log, nil
}
