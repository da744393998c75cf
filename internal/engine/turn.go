package engine

import (
	"errors"
	"math/rand"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

// ErrSessionNotActive rejects turn execution against a session that has
// already reached victory or defeat.
var ErrSessionNotActive = errors.New("session is not active")

// TurnResult is the outcome of resolving one turn: the log entry to append
// (turn number already set to len(log)+1) and the session fields the caller
// must persist.
type TurnResult struct {
	Entry    game.CombatLogEntry
	Status   game.SessionStatus
	PlayerHP int
	EnemyHP  int
}

// ResolveAttackTurn resolves one player attack. The tap angle is classified
// against the weapon layout; on any band but injure the enemy's defensive
// zone is simulated (weighted by its normalized defense accuracy) and the
// absorbed portion subtracted before damage lands on enemy HP. An injure
// tap turns the attack on the player: self damage uses the player's own
// attack power with no defender reduction and the enemy is untouched.
//
// The enemy does not counter-attack on attack turns; it only deals damage
// on defense turns.
func ResolveAttackTurn(s *game.CombatSession, log []game.CombatLogEntry, angle float64, provider StatsProvider, rng *rand.Rand) (*TurnResult, error) {
	zone, err := classifyForSession(s, angle)
	if err != nil {
		return nil, err
	}

	playerHP, enemyHP := game.CurrentHP(log, s.PlayerMaxHP, s.EnemyMaxHP)
	entry := newEntry(s, log, game.ActionAttack, angle, zone)

	if zone == game.ZoneInjure {
		self := ResolveDamage(s.PlayerStats.AtkPower, 0, zone, provider)
		playerHP = clampHP(playerHP-self.Damage, s.PlayerMaxHP)
		entry.Taken = self.Damage
		entry.Crit = self.Crit
		entry.CritMultiplier = self.CritMultiplier
	} else {
		hit := ResolveDamage(s.PlayerStats.AtkPower, s.EnemyStats.DefPower, zone, provider)
		defRank := provider.SimulateZoneHit(s.EnemyStats.DefAccuracyNorm, rng)
		absorbed := BlockedAmount(s.EnemyStats.DefPower, defRank)

		net := hit.Damage - absorbed
		if net < MinDamage {
			net = MinDamage
		}
		enemyHP = clampHP(enemyHP-net, s.EnemyMaxHP)

		entry.EnemyZoneRank = defRank
		entry.Damage = net
		entry.Blocked = absorbed
		entry.Crit = hit.Crit
		entry.CritMultiplier = hit.CritMultiplier
	}

	entry.PlayerHP = playerHP
	entry.EnemyHP = enemyHP
	return finishTurn(entry, playerHP, enemyHP), nil
}

// ResolveDefenseTurn resolves one player defense. The enemy's offensive
// zone is simulated (weighted by its normalized attack accuracy) to produce
// incoming damage; the player's tap zone determines how much is blocked and
// the net, floored at MinDamage, lands on player HP.
func ResolveDefenseTurn(s *game.CombatSession, log []game.CombatLogEntry, angle float64, provider StatsProvider, rng *rand.Rand) (*TurnResult, error) {
	zone, err := classifyForSession(s, angle)
	if err != nil {
		return nil, err
	}

	playerHP, enemyHP := game.CurrentHP(log, s.PlayerMaxHP, s.EnemyMaxHP)
	entry := newEntry(s, log, game.ActionDefend, angle, zone)

	atkRank := provider.SimulateZoneHit(s.EnemyStats.AtkAccuracyNorm, rng)
	atkZone, zerr := game.ZoneFromRank(atkRank)
	if zerr != nil {
		atkZone = game.ZoneGraze
	}
	incoming := ResolveDamage(s.EnemyStats.AtkPower, s.PlayerStats.DefPower, atkZone, provider)
	blocked := BlockedAmount(s.PlayerStats.DefPower, zone.Rank())

	net := incoming.Damage - blocked
	if net < MinDamage {
		net = MinDamage
	}
	playerHP = clampHP(playerHP-net, s.PlayerMaxHP)

	entry.EnemyZoneRank = atkRank
	entry.Blocked = blocked
	entry.Taken = net
	entry.Crit = incoming.Crit
	entry.CritMultiplier = incoming.CritMultiplier
	entry.PlayerHP = playerHP
	entry.EnemyHP = enemyHP
	return finishTurn(entry, playerHP, enemyHP), nil
}

func classifyForSession(s *game.CombatSession, angle float64) (game.Zone, error) {
	if s.Status != game.StatusActive {
		return "", ErrSessionNotActive
	}
	return ClassifyAngle(angle, s.WeaponLayout)
}

func newEntry(s *game.CombatSession, log []game.CombatLogEntry, action game.ActionKind, angle float64, zone game.Zone) game.CombatLogEntry {
	return game.CombatLogEntry{
		SessionID:  s.SessionID,
		TurnNumber: len(log) + 1,
		Action:     action,
		TapAngle:   angle,
		Zone:       zone,
		ZoneRank:   zone.Rank(),
		CreatedAt:  time.Now().UTC(),
	}
}

// finishTurn applies the terminal check: enemy at zero wins first, then the
// player at zero loses, otherwise the session stays active.
func finishTurn(entry game.CombatLogEntry, playerHP, enemyHP int) *TurnResult {
	status := game.StatusActive
	if enemyHP <= 0 {
		status = game.StatusVictory
	} else if playerHP <= 0 {
		status = game.StatusDefeat
	}
	return &TurnResult{Entry: entry, Status: status, PlayerHP: playerHP, EnemyHP: enemyHP}
}

func clampHP(hp, max int) int {
	if hp < 0 {
		return 0
	}
	if hp > max {
		return max
	}
	return hp
}
