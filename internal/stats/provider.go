// Package stats is the default stats provider: it realizes enemy base
// stats into per-encounter combat stats and owns the crit, zone-modifier
// and zone-simulation math the combat engine delegates to.
package stats

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

const (
	// critMultiplier applies on top of the zone multiplier when a crit
	// lands. Only rank 1 (crit band) crits.
	critMultiplier = 2.0

	// Per-level growth applied when realizing enemy stats.
	hpGrowthPerLevel    = 0.10
	powerGrowthPerLevel = 0.05

	// accuracyScale converts config accuracy figures (0-100) into the
	// normalized fractions the zone simulation consumes.
	accuracyScale = 100.0
)

type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

var _ engine.StatsProvider = (*Provider)(nil)

// RealizeEnemyStats scales an enemy type's base stats by combat level and
// tier. HP takes the tier difficulty multiplier plus 10% per level above 1;
// powers grow 5% per level above 1. Accuracy figures pass through and are
// additionally normalized to 0-1 for the zone simulation.
func (p *Provider) RealizeEnemyStats(enemy *game.EnemyType, level int, tier *game.Tier) (game.EnemyStats, error) {
	if enemy == nil {
		return game.EnemyStats{}, fmt.Errorf("nil enemy type")
	}
	if tier == nil || tier.HPMultiplier <= 0 {
		return game.EnemyStats{}, fmt.Errorf("enemy %q: missing or invalid tier", enemy.Name)
	}
	if level < 1 {
		level = 1
	}

	levelScale := 1 + powerGrowthPerLevel*float64(level-1)
	hp := int(math.Floor(float64(enemy.BaseHitPoints) * tier.HPMultiplier * (1 + hpGrowthPerLevel*float64(level-1))))
	if hp < 1 {
		hp = 1
	}

	return game.EnemyStats{
		AtkPower:          enemy.BaseAtkPower * levelScale,
		AtkAccuracy:       enemy.BaseAtkAccuracy,
		DefPower:          enemy.BaseDefPower * levelScale,
		DefAccuracy:       enemy.BaseDefAccuracy,
		HitPoints:         hp,
		AtkAccuracyNorm:   normalize(enemy.BaseAtkAccuracy),
		DefAccuracyNorm:   normalize(enemy.BaseDefAccuracy),
		DialogueTone:      enemy.DialogueTone,
		PersonalityTraits: enemy.PersonalityTraits,
	}, nil
}

// CritMultiplier signals a crit only on the crit band itself.
func (p *Provider) CritMultiplier(rank int) (float64, bool) {
	if rank == 1 {
		return critMultiplier, true
	}
	return 0, false
}

// ApplyZoneModifiers multiplies base damage by the fixed zone multiplier
// and, when a crit is signalled, by the crit multiplier.
func (p *Provider) ApplyZoneModifiers(baseDamage float64, rank int, critMult *float64) float64 {
	out := baseDamage * engine.ZoneMultiplier(rank)
	if critMult != nil {
		out *= *critMult
	}
	return out
}

// SimulateZoneHit draws an NPC zone rank. The distribution interpolates
// with accuracy: at 0 most mass sits on miss/injure, at 1 on crit/normal,
// and the row sums to 1 for every accuracy value.
func (p *Provider) SimulateZoneHit(normalizedAccuracy float64, rng *rand.Rand) int {
	a := normalizedAccuracy
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}

	weights := [5]float64{
		0.05 + 0.20*a, // crit
		0.15 + 0.15*a, // normal
		0.30,          // graze
		0.30 - 0.20*a, // miss
		0.20 - 0.15*a, // injure
	}

	roll := rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i + 1
		}
	}
	return 5
}

func normalize(accuracy float64) float64 {
	n := accuracy / accuracyScale
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
