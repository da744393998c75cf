package game

import (
	"fmt"
	"time"
)

// SessionStatus is the lifecycle state of a combat session.
type SessionStatus string

const (
	StatusActive  SessionStatus = "active"
	StatusVictory SessionStatus = "victory"
	StatusDefeat  SessionStatus = "defeat"
)

// TurnOwner names whose input drives the current turn. The mobile client
// drives both attack and defense turns, so the owner stays "player" for the
// whole encounter; recovery defaults to it as well.
type TurnOwner string

const TurnOwnerPlayer TurnOwner = "player"

// ActionKind distinguishes the two turn kinds in the combat log.
type ActionKind string

const (
	ActionAttack ActionKind = "attack"
	ActionDefend ActionKind = "defend"
)

// CombatOutcome is the terminal result of an encounter.
type CombatOutcome string

const (
	OutcomeVictory CombatOutcome = "victory"
	OutcomeDefeat  CombatOutcome = "defeat"
)

// LootableKind tags a loot table entry as material or item-type.
type LootableKind string

const (
	LootableMaterial LootableKind = "material"
	LootableItem     LootableKind = "item"
)

// Zone is one of the five discrete hit bands on the spinning dial.
type Zone string

const (
	ZoneCrit   Zone = "crit"
	ZoneNormal Zone = "normal"
	ZoneGraze  Zone = "graze"
	ZoneMiss   Zone = "miss"
	ZoneInjure Zone = "injure"
)

// Rank returns the zone's rank, 1 (crit) through 5 (injure). Unknown zones
// return 0.
func (z Zone) Rank() int {
	switch z {
	case ZoneCrit:
		return 1
	case ZoneNormal:
		return 2
	case ZoneGraze:
		return 3
	case ZoneMiss:
		return 4
	case ZoneInjure:
		return 5
	}
	return 0
}

// ZoneFromRank is the inverse of Zone.Rank.
func ZoneFromRank(rank int) (Zone, error) {
	switch rank {
	case 1:
		return ZoneCrit, nil
	case 2:
		return ZoneNormal, nil
	case 3:
		return ZoneGraze, nil
	case 4:
		return ZoneMiss, nil
	case 5:
		return ZoneInjure, nil
	}
	return "", fmt.Errorf("invalid zone rank %d", rank)
}

// SessionTTL is how long a session stays playable after creation. Expiry is
// computed once at initialization and checked by callers before acting.
const SessionTTL = 15 * time.Minute

// BaselineStyleID is the "no theme" style. Themed enemies impose their
// style on drops; baseline enemies leave per-entry styling alone.
const BaselineStyleID = "normal"

// DefaultPlayerHP is the snapshot HP used when a player has no HP-granting
// equipment realized yet.
const DefaultPlayerHP = 100

// WeaponBandLayout is the five degree widths of a weapon's dial, in fixed
// band order. Widths must be non-negative and sum to exactly 360; the
// injure width is implicit at classification time (the classifier treats
// everything past the first four bands as injure) so coverage of [0,360)
// holds even for a layout that failed validation upstream.
type WeaponBandLayout struct {
	CritDegrees   float64 `json:"crit_degrees"`
	NormalDegrees float64 `json:"normal_degrees"`
	GrazeDegrees  float64 `json:"graze_degrees"`
	MissDegrees   float64 `json:"miss_degrees"`
	InjureDegrees float64 `json:"injure_degrees"`
}

// Total returns the declared width sum.
func (l WeaponBandLayout) Total() float64 {
	return l.CritDegrees + l.NormalDegrees + l.GrazeDegrees + l.MissDegrees + l.InjureDegrees
}

// Validate checks non-negative widths summing to 360 (within a hundredth of
// a degree to absorb float noise in config files).
func (l WeaponBandLayout) Validate() error {
	for name, w := range map[string]float64{
		"crit":   l.CritDegrees,
		"normal": l.NormalDegrees,
		"graze":  l.GrazeDegrees,
		"miss":   l.MissDegrees,
		"injure": l.InjureDegrees,
	} {
		if w < 0 {
			return fmt.Errorf("band %q has negative width %.2f", name, w)
		}
	}
	if diff := l.Total() - 360; diff > 0.01 || diff < -0.01 {
		return fmt.Errorf("band widths sum to %.2f, want 360", l.Total())
	}
	return nil
}

// DefaultBandLayout is the fallback when no weapon is equipped: a single
// arc spinning at 180 degrees per second with widths 10/20/110/110/110.
// These sum to exactly 360, so the default is used as-is.
func DefaultBandLayout() WeaponBandLayout {
	return WeaponBandLayout{
		CritDegrees:   10,
		NormalDegrees: 20,
		GrazeDegrees:  110,
		MissDegrees:   110,
		InjureDegrees: 110,
	}
}

const (
	DefaultSpinSpeed = 180.0
	DefaultArcCount  = 1
)

// PlayerStats is the immutable snapshot of the player's equipped combat
// stats taken at encounter initialization.
type PlayerStats struct {
	AtkPower    float64 `json:"atk_power"`
	AtkAccuracy float64 `json:"atk_accuracy"`
	DefPower    float64 `json:"def_power"`
	DefAccuracy float64 `json:"def_accuracy"`
	HitPoints   int     `json:"hp"`
}

// EnemyStats is the realized per-encounter enemy stat block. The normalized
// fractions (0-1) feed the probabilistic zone simulation only.
type EnemyStats struct {
	AtkPower    float64 `json:"atk_power"`
	AtkAccuracy float64 `json:"atk_accuracy"`
	DefPower    float64 `json:"def_power"`
	DefAccuracy float64 `json:"def_accuracy"`
	HitPoints   int     `json:"hp"`

	AtkAccuracyNorm float64 `json:"atk_accuracy_normalized"`
	DefAccuracyNorm float64 `json:"def_accuracy_normalized"`

	StyleID           string   `json:"style_id"`
	DialogueTone      string   `json:"dialogue_tone"`
	PersonalityTraits []string `json:"personality_traits"`
}

// CurrentHP derives both sides' current HP from the combat log: the last
// entry's resulting HP fields when the log is non-empty, otherwise the
// initial maxima. This fold is the single source of truth; session rows
// cache its result but never override it.
func CurrentHP(log []CombatLogEntry, initialPlayerHP, initialEnemyHP int) (playerHP, enemyHP int) {
	if len(log) == 0 {
		return initialPlayerHP, initialEnemyHP
	}
	last := log[len(log)-1]
	return last.PlayerHP, last.EnemyHP
}

// MaterialDrop is one rewarded material with resolved display metadata.
type MaterialDrop struct {
	MaterialID uint   `json:"material_id"`
	Name       string `json:"name"`
	StyleID    string `json:"style_id"`
}

// ItemDrop is the (at most one) rewarded equipment item.
type ItemDrop struct {
	ItemTypeID uint   `json:"item_type_id"`
	Name       string `json:"name"`
	StyleID    string `json:"style_id"`
}

// LootResult aggregates one victory's generated loot.
type LootResult struct {
	Materials  []MaterialDrop `json:"materials"`
	Item       *ItemDrop      `json:"item,omitempty"`
	Gold       int            `json:"gold"`
	Experience int            `json:"experience"`
}

// CombatRewards is the finalized reward payload for a terminal session.
// Defeats carry zero credits but still roll up combat history.
type CombatRewards struct {
	SessionID  string         `json:"session_id"`
	PlayerUUID string         `json:"player_uuid"`
	LocationID string         `json:"location_id"`
	Outcome    CombatOutcome  `json:"outcome"`
	Gold       int            `json:"gold"`
	Materials  []MaterialDrop `json:"materials"`
	Item       *ItemDrop      `json:"item,omitempty"`
	Experience int            `json:"experience"`
}

// RewardCategoryResult reports one reward category's application outcome.
// Failures are recorded, not thrown, so callers can inspect partial failure
// precisely.
type RewardCategoryResult struct {
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
}

// RewardReport lists per-category outcomes of a reward application.
type RewardReport struct {
	AlreadyGranted bool                   `json:"already_granted"`
	Gold           RewardCategoryResult   `json:"gold"`
	Experience     RewardCategoryResult   `json:"experience"`
	History        RewardCategoryResult   `json:"history"`
	Materials      []RewardCategoryResult `json:"materials"`
	Items          []RewardCategoryResult `json:"items"`
}
