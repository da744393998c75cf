package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

const (
	goldPerLevel = 10
	xpPerLevel   = 20
)

// ErrInvalidTierMultiplier rejects tiers whose gold/xp multipliers are not
// positive; raised before any random draw.
var ErrInvalidTierMultiplier = errors.New("tier multipliers must be positive")

// LootDraw is the raw (unresolved) output of loot generation: selected
// entries with final style ids, before the storage layer attaches display
// metadata.
type LootDraw struct {
	Materials  []game.LootTableEntry
	Item       *game.LootTableEntry
	Gold       int
	Experience int
}

// GenerateLoot rolls one victory's loot. It draws k ∈ {1,2,3} entries with
// replacement over the whole table, keeps every material draw and only the
// first item-type draw (one equipment drop per victory), then applies the
// style override rule: a themed enemy stamps its rolled style on every
// drop, a baseline enemy leaves each entry's declared style (or baseline)
// in place. Gold and experience are deterministic in level and tier.
//
// All validation (empty table, non-positive weights, non-positive tier
// multipliers) happens before the first draw so failures are never partial.
func GenerateLoot(entries []game.LootTableEntry, level int, tier *game.Tier, enemyStyleID string, rng *rand.Rand) (*LootDraw, error) {
	if tier == nil {
		return nil, fmt.Errorf("%w: missing tier", ErrInvalidTierMultiplier)
	}
	if tier.GoldMultiplier <= 0 || tier.XPMultiplier <= 0 {
		return nil, fmt.Errorf("%w: gold=%.2f xp=%.2f", ErrInvalidTierMultiplier, tier.GoldMultiplier, tier.XPMultiplier)
	}
	if level <= 0 {
		return nil, fmt.Errorf("invalid combat level %d", level)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}

	k := 1 + rng.Intn(3)
	picked, err := WeightedSample(entries, k, true, rng)
	if err != nil {
		return nil, err
	}

	draw := &LootDraw{
		Gold:       GoldReward(level, tier),
		Experience: XPReward(level, tier),
	}
	for i := range picked {
		e := picked[i]
		e.StyleID = resolveDropStyle(e.StyleID, enemyStyleID)
		switch e.Kind {
		case game.LootableMaterial:
			draw.Materials = append(draw.Materials, e)
		case game.LootableItem:
			if draw.Item == nil {
				item := e
				draw.Item = &item
			}
		}
	}
	return draw, nil
}

// GoldReward is deterministic: floor(10 * level * tier gold multiplier).
func GoldReward(level int, tier *game.Tier) int {
	return int(math.Floor(float64(goldPerLevel) * float64(level) * tier.GoldMultiplier))
}

// XPReward is deterministic: floor(20 * level * tier xp multiplier).
func XPReward(level int, tier *game.Tier) int {
	return int(math.Floor(float64(xpPerLevel) * float64(level) * tier.XPMultiplier))
}

func resolveDropStyle(declared, enemyStyle string) string {
	if enemyStyle != "" && enemyStyle != game.BaselineStyleID {
		return enemyStyle
	}
	if declared == "" {
		return game.BaselineStyleID
	}
	return declared
}
