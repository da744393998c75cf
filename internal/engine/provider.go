package engine

import (
	"math/rand"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

// StatsProvider realizes base stats into combat stats and owns the
// crit/zone-modifier math plus the probabilistic enemy zone simulation.
// The engine consumes it as an injected interface so tests can substitute
// deterministic doubles.
type StatsProvider interface {
	// RealizeEnemyStats produces a level/tier-adjusted stat block for one
	// encounter.
	RealizeEnemyStats(enemy *game.EnemyType, level int, tier *game.Tier) (game.EnemyStats, error)

	// CritMultiplier reports whether the given zone rank crits and with what
	// multiplier. ok=false means no crit.
	CritMultiplier(rank int) (mult float64, ok bool)

	// ApplyZoneModifiers scales base damage by the zone multiplier for rank
	// and, when critMult is non-nil, by the crit multiplier.
	ApplyZoneModifiers(baseDamage float64, rank int, critMult *float64) float64

	// SimulateZoneHit draws a weighted random zone rank for an NPC. Higher
	// normalized accuracy (0-1) shifts probability mass toward better ranks.
	SimulateZoneHit(normalizedAccuracy float64, rng *rand.Rand) int
}
