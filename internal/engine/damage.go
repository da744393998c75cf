package engine

import (
	"math"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

// MinDamage is the floor on every resolved damage figure. A landed turn
// always moves HP; encounters cannot stall on zero-damage exchanges.
const MinDamage = 1

// DamageResult carries the resolved damage plus the crit information
// clients display alongside it.
type DamageResult struct {
	Damage         int
	Zone           game.Zone
	ZoneRank       int
	Crit           bool
	CritMultiplier *float64
}

// ResolveDamage computes final damage for one hit: base is attacker power
// minus defender power floored at MinDamage, then the stats provider's zone
// and crit modifiers apply and the result is floored to an int, again no
// lower than MinDamage.
func ResolveDamage(attackerPower, defenderPower float64, zone game.Zone, provider StatsProvider) DamageResult {
	rank := zone.Rank()

	base := attackerPower - defenderPower
	if base < MinDamage {
		base = MinDamage
	}

	res := DamageResult{Zone: zone, ZoneRank: rank}
	if mult, ok := provider.CritMultiplier(rank); ok {
		res.Crit = true
		m := mult
		res.CritMultiplier = &m
	}

	final := int(math.Floor(provider.ApplyZoneModifiers(base, rank, res.CritMultiplier)))
	if final < MinDamage {
		final = MinDamage
	}
	res.Damage = final
	return res
}

// BlockedAmount converts a defender's power and defensive zone into the
// damage absorbed before it reaches HP. Better defensive zones block more;
// the same rule serves the player's tap on defense turns and the enemy's
// simulated zone on attack turns.
func BlockedAmount(defenderPower float64, rank int) int {
	blocked := int(math.Floor(defenderPower * ZoneMultiplier(rank) * 0.5))
	if blocked < 0 {
		blocked = 0
	}
	return blocked
}
