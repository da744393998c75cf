package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

// TurnOutcome is what turn submission returns to the transport layer: the
// updated session, the turn's log entry, and — on victory or defeat — the
// finalized rewards with their application report.
type TurnOutcome struct {
	Session *game.CombatSession `json:"session"`
	Entry   game.CombatLogEntry `json:"entry"`
	Rewards *game.CombatRewards `json:"rewards,omitempty"`
	Report  *game.RewardReport  `json:"reward_report,omitempty"`

	// RewardError is set when the terminal turn committed but its rewards
	// could not be fully finalized. The combat result stands either way;
	// the field tells the client which part of completion is incomplete.
	RewardError string `json:"reward_error,omitempty"`
}

// SubmitAttackTurn resolves one attack turn for the player's session.
func SubmitAttackTurn(repo storage.Repository, provider engine.StatsProvider, rng *rand.Rand, playerUUID, sessionID string, angle float64) (*TurnOutcome, error) {
	return submitTurn(repo, provider, rng, playerUUID, sessionID, angle, engine.ResolveAttackTurn)
}

// SubmitDefenseTurn resolves one defense turn for the player's session.
func SubmitDefenseTurn(repo storage.Repository, provider engine.StatsProvider, rng *rand.Rand, playerUUID, sessionID string, angle float64) (*TurnOutcome, error) {
	return submitTurn(repo, provider, rng, playerUUID, sessionID, angle, engine.ResolveDefenseTurn)
}

type turnResolver func(*game.CombatSession, []game.CombatLogEntry, float64, engine.StatsProvider, *rand.Rand) (*engine.TurnResult, error)

func submitTurn(repo storage.Repository, provider engine.StatsProvider, rng *rand.Rand, playerUUID, sessionID string, angle float64, resolve turnResolver) (*TurnOutcome, error) {
	s, err := repo.GetSessionBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if s.PlayerUUID != playerUUID {
		return nil, ErrSessionNotOwned
	}
	if s.Status != game.StatusActive {
		return nil, ErrSessionNotActive
	}
	if s.Expired(time.Now().UTC()) {
		return nil, ErrSessionExpired
	}

	log, err := repo.GetLogEntries(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := resolve(s, log, angle, provider, rng)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrAngleOutOfRange):
			return nil, ErrInvalidTapAngle
		case errors.Is(err, engine.ErrSessionNotActive):
			return nil, ErrSessionNotActive
		}
		return nil, err
	}

	// Conditional append serializes concurrent submissions: the loser of a
	// race fails here before any session mutation.
	if err := repo.AppendLogEntry(&res.Entry); err != nil {
		if errors.Is(err, storage.ErrTurnConflict) {
			return nil, ErrTurnConflict
		}
		return nil, err
	}

	s.PlayerHP = res.PlayerHP
	s.EnemyHP = res.EnemyHP
	s.TurnNumber = res.Entry.TurnNumber
	s.Status = res.Status
	if err := repo.UpdateSession(s); err != nil {
		return nil, err
	}

	out := &TurnOutcome{Session: s, Entry: res.Entry}
	if s.Terminal() {
		rewards, report, err := finalizeEncounter(repo, rng, s)
		out.Rewards = rewards
		out.Report = report
		if err != nil {
			// The turn itself committed; the failure is surfaced on the
			// payload, never used to roll back combat state.
			logging.Error("failed to finalize encounter rewards", err, logging.Fields{"session_id": s.SessionID})
			out.RewardError = err.Error()
		}
	}
	return out, nil
}

// finalizeEncounter builds the CombatRewards for a terminal session and
// applies them exactly once. Victories roll loot; defeats carry zero
// credits but still roll up combat history. A failed loot roll does not
// abort the commit: the grant row and the history rollup land with zero
// loot and the error is returned alongside them.
func finalizeEncounter(repo storage.Repository, rng *rand.Rand, s *game.CombatSession) (*game.CombatRewards, *game.RewardReport, error) {
	rewards := &game.CombatRewards{
		SessionID:  s.SessionID,
		PlayerUUID: s.PlayerUUID,
		LocationID: s.LocationID,
		Outcome:    game.OutcomeDefeat,
	}

	var lootErr error
	if s.Status == game.StatusVictory {
		rewards.Outcome = game.OutcomeVictory
		loot, err := generateVictoryLoot(repo, rng, s)
		if err != nil {
			lootErr = err
		} else {
			rewards.Gold = loot.Gold
			rewards.Experience = loot.Experience
			rewards.Materials = loot.Materials
			rewards.Item = loot.Item
		}
	}

	report, err := ApplyRewards(repo, rewards)
	if err != nil {
		return rewards, nil, err
	}
	return rewards, report, lootErr
}

// generateVictoryLoot rolls the enemy's loot table and resolves display
// metadata for every selected drop. An enemy with no loot table is not an
// error: gold and experience are deterministic in level and tier, so the
// victory still pays those with no drops.
func generateVictoryLoot(repo storage.Repository, rng *rand.Rand, s *game.CombatSession) (*game.LootResult, error) {
	enemy, err := repo.GetEnemyTypeByID(s.EnemyTypeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEnemyNotFound
		}
		return nil, err
	}
	tier, err := repo.GetTierByName(enemy.TierName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	if len(enemy.LootTable) == 0 {
		return &game.LootResult{
			Gold:       engine.GoldReward(s.CombatLevel, tier),
			Experience: engine.XPReward(s.CombatLevel, tier),
		}, nil
	}

	draw, err := engine.GenerateLoot(enemy.LootTable, s.CombatLevel, tier, s.StyleID, rng)
	if err != nil {
		return nil, err
	}

	out := &game.LootResult{Gold: draw.Gold, Experience: draw.Experience}
	for _, m := range draw.Materials {
		mat, err := repo.GetMaterialByID(m.TargetID)
		if err != nil {
			return nil, err
		}
		out.Materials = append(out.Materials, game.MaterialDrop{
			MaterialID: mat.ID,
			Name:       mat.Name,
			StyleID:    m.StyleID,
		})
	}
	if draw.Item != nil {
		it, err := repo.GetItemTypeByID(draw.Item.TargetID)
		if err != nil {
			return nil, err
		}
		out.Item = &game.ItemDrop{ItemTypeID: it.ID, Name: it.Name, StyleID: draw.Item.StyleID}
	}
	return out, nil
}
