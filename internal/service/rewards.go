package service

import (
	"errors"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/dedupe"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/keys"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

// ApplyRewards commits a terminal session's rewards to durable player
// state exactly once. Two guards make replays safe: a singleflight group
// keyed by session id collapses concurrent attempts in-process, and the
// reward_grants unique index rejects replays across restarts. Once the
// grant row exists, each category is applied best-effort: one failed
// material award is logged and reported without blocking gold or XP.
func ApplyRewards(repo storage.Repository, rewards *game.CombatRewards) (*game.RewardReport, error) {
	v, err, _ := dedupe.RewardGroup.Do(keys.RewardGrantKey(rewards.SessionID), func() (interface{}, error) {
		return applyRewardsOnce(repo, rewards)
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.RewardReport), nil
}

func applyRewardsOnce(repo storage.Repository, rewards *game.CombatRewards) (*game.RewardReport, error) {
	report := &game.RewardReport{}

	grant := &game.RewardGrant{
		SessionID:  rewards.SessionID,
		PlayerUUID: rewards.PlayerUUID,
		Outcome:    rewards.Outcome,
		Gold:       rewards.Gold,
		Experience: rewards.Experience,
	}
	if err := repo.CreateRewardGrant(grant); err != nil {
		if errors.Is(err, storage.ErrDuplicateGrant) {
			report.AlreadyGranted = true
			return report, nil
		}
		return nil, err
	}

	// Ensure the profile row exists before the atomic credits below.
	if _, err := repo.GetOrCreateProfile(rewards.PlayerUUID); err != nil {
		return nil, err
	}

	if rewards.Gold > 0 {
		report.Gold = applyCategory("gold", rewards.SessionID, func() error {
			return repo.CreditGold(rewards.PlayerUUID, rewards.Gold)
		})
	}
	if rewards.Experience > 0 {
		report.Experience = applyCategory("experience", rewards.SessionID, func() error {
			return repo.CreditExperience(rewards.PlayerUUID, rewards.Experience)
		})
	}
	for _, m := range rewards.Materials {
		mat := m
		report.Materials = append(report.Materials, applyCategory("material", rewards.SessionID, func() error {
			return repo.AddMaterialStack(rewards.PlayerUUID, mat.MaterialID, mat.StyleID, 1)
		}))
	}
	if rewards.Item != nil {
		report.Items = append(report.Items, applyCategory("item", rewards.SessionID, func() error {
			return repo.CreateOwnedItem(&game.OwnedItem{
				PlayerUUID: rewards.PlayerUUID,
				ItemTypeID: rewards.Item.ItemTypeID,
				StyleID:    rewards.Item.StyleID,
				SessionID:  rewards.SessionID,
			})
		}))
	}
	report.History = applyCategory("history", rewards.SessionID, func() error {
		return repo.UpdateCombatHistory(rewards.PlayerUUID, rewards.LocationID, rewards.Outcome)
	})

	return report, nil
}

func applyCategory(name, sessionID string, fn func() error) game.RewardCategoryResult {
	if err := fn(); err != nil {
		logging.Warn("reward category skipped", err, logging.Fields{
			"category":   name,
			"session_id": sessionID,
		})
		return game.RewardCategoryResult{Applied: false, Error: err.Error()}
	}
	return game.RewardCategoryResult{Applied: true}
}
