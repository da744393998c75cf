package engine

import (
	"errors"
	"math/rand"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

// ErrNonPositiveWeight rejects loot tables containing entries with weight
// <= 0 before any draw happens.
var ErrNonPositiveWeight = errors.New("loot entry weight must be positive")

// ErrEmptyTable rejects sampling over an empty entry list.
var ErrEmptyTable = errors.New("loot table is empty")

// WeightedSample draws k entries by cumulative-sum weighted sampling.
// withReplacement=true allows repeats (the live drop behavior);
// withReplacement=false removes each winner from the pool, and k is capped
// at the pool size. All weights are validated up front so no partial result
// can escape on bad data.
func WeightedSample(entries []game.LootTableEntry, k int, withReplacement bool, rng *rand.Rand) ([]game.LootTableEntry, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	for _, e := range entries {
		if e.Weight <= 0 {
			return nil, ErrNonPositiveWeight
		}
	}
	if k <= 0 {
		return nil, nil
	}

	pool := make([]game.LootTableEntry, len(entries))
	copy(pool, entries)
	if !withReplacement && k > len(pool) {
		k = len(pool)
	}

	out := make([]game.LootTableEntry, 0, k)
	for i := 0; i < k; i++ {
		idx := weightedIndex(pool, rng)
		out = append(out, pool[idx])
		if !withReplacement {
			pool = append(pool[:idx], pool[idx+1:]...)
		}
	}
	return out, nil
}

func weightedIndex(pool []game.LootTableEntry, rng *rand.Rand) int {
	total := 0
	for _, e := range pool {
		total += e.Weight
	}
	roll := rng.Intn(total)
	cumulative := 0
	for i := range pool {
		cumulative += pool[i].Weight
		if roll < cumulative {
			return i
		}
	}
	return len(pool) - 1
}

// PickWeightedStyle selects one cosmetic style by weight. All-zero weights
// fall back to a uniform pick, which is also the path for providers that
// never supply real weights.
func PickWeightedStyle(styles []game.EnemyStyle, rng *rand.Rand) (string, error) {
	if len(styles) == 0 {
		return game.BaselineStyleID, nil
	}
	total := 0
	for _, s := range styles {
		if s.Weight < 0 {
			return "", ErrNonPositiveWeight
		}
		total += s.Weight
	}
	if total == 0 {
		return styles[rng.Intn(len(styles))].StyleID, nil
	}
	roll := rng.Intn(total)
	cumulative := 0
	for i := range styles {
		cumulative += styles[i].Weight
		if roll < cumulative {
			return styles[i].StyleID, nil
		}
	}
	return styles[len(styles)-1].StyleID, nil
}
