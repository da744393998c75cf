package game

import (
	"time"

	"gorm.io/gorm"
)

// EnemyType is a catalog row describing one kind of enemy. Balance numbers
// (base stats, narrative metadata) come from the server config and are the
// config's responsibility, not the database's. Mark them with `gorm:"-"` so
// GORM ignores them for schema/migration purposes while keeping the fields
// available in-memory and in JSON responses.
type EnemyType struct {
	gorm.Model
	Name     string `json:"name" gorm:"uniqueIndex"`
	TierName string `json:"tier" gorm:"column:tier_name"`

	BaseHitPoints   int     `json:"base_hit_points" gorm:"-"`
	BaseAtkPower    float64 `json:"base_atk_power" gorm:"-"`
	BaseAtkAccuracy float64 `json:"base_atk_accuracy" gorm:"-"`
	BaseDefPower    float64 `json:"base_def_power" gorm:"-"`
	BaseDefAccuracy float64 `json:"base_def_accuracy" gorm:"-"`

	// Narrative metadata passed through to clients; the combat core never
	// interprets these.
	DialogueTone      string   `json:"dialogue_tone" gorm:"-"`
	PersonalityTraits []string `json:"personality_traits" gorm:"-"`

	Styles    []EnemyStyle     `json:"styles"`
	LootTable []LootTableEntry `json:"loot_table"`
}

func (EnemyType) TableName() string { return "enemy_types" }

// Tier is an enemy difficulty bracket. Multipliers are config-sourced.
type Tier struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex"`

	HPMultiplier   float64 `json:"hp_multiplier" gorm:"-"`
	GoldMultiplier float64 `json:"gold_multiplier" gorm:"-"`
	XPMultiplier   float64 `json:"xp_multiplier" gorm:"-"`
}

func (Tier) TableName() string { return "enemy_tiers" }

// EnemyStyle is one cosmetic variant an enemy type can roll at encounter
// start. A zero weight means "uniform" (the initializer treats all-zero
// weights as equal).
type EnemyStyle struct {
	gorm.Model
	EnemyTypeID uint   `json:"-" gorm:"index"`
	StyleID     string `json:"style_id"`
	Weight      int    `json:"weight"`
}

func (EnemyStyle) TableName() string { return "enemy_styles" }

// LootTableEntry is one weighted row of an enemy's loot table. Kind selects
// the target catalog (materials vs item types).
type LootTableEntry struct {
	gorm.Model
	EnemyTypeID uint         `json:"-" gorm:"index"`
	Kind        LootableKind `json:"kind"`
	TargetID    uint         `json:"target_id"`
	// TargetName is the config-file reference to the material/item-type by
	// name; the seeder resolves it to TargetID. Never persisted.
	TargetName string `json:"-" gorm:"-"`
	Weight     int    `json:"weight"`
	// StyleID is the entry's own declared style, used when the rolled enemy
	// style is the baseline style. Empty means baseline.
	StyleID string `json:"style_id"`
}

func (LootTableEntry) TableName() string { return "loot_table_entries" }

// Weapon holds a dial band layout plus spin parameters for the client.
type Weapon struct {
	gorm.Model
	Name      string           `json:"name" gorm:"uniqueIndex"`
	Layout    WeaponBandLayout `json:"layout" gorm:"embedded;embeddedPrefix:band_"`
	SpinSpeed float64          `json:"spin_speed"`
	ArcCount  int              `json:"arc_count"`
}

func (Weapon) TableName() string { return "weapons" }

// Material is a craftable resource that can drop as loot.
type Material struct {
	gorm.Model
	Name    string `json:"name" gorm:"uniqueIndex"`
	StyleID string `json:"style_id"`
}

func (Material) TableName() string { return "materials" }

// ItemType is an equipment archetype that can drop as loot (at most one per
// victory).
type ItemType struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex"`
	Slot string `json:"slot"`
}

func (ItemType) TableName() string { return "item_types" }

// PlayerProfile stores durable player-owned currency and progression.
// Gold/experience are only ever mutated through atomic credits in the
// storage layer.
type PlayerProfile struct {
	gorm.Model
	PlayerUUID       string `json:"player_uuid" gorm:"uniqueIndex"`
	Gold             int64  `json:"gold"`
	Experience       int64  `json:"experience"`
	CombatLevel      int    `json:"combat_level"`
	EquippedWeaponID *uint  `json:"equipped_weapon_id"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// CombatHistory is the per-location rollup updated once per terminal
// session.
type CombatHistory struct {
	gorm.Model
	PlayerUUID string `json:"-" gorm:"index:idx_combat_history_player_location,unique"`
	LocationID string `json:"location_id" gorm:"index:idx_combat_history_player_location,unique"`
	Attempts   int    `json:"attempts"`
	Victories  int    `json:"victories"`
	Defeats    int    `json:"defeats"`
	WinStreak  int    `json:"win_streak"`
	BestStreak int    `json:"best_streak"`
}

func (CombatHistory) TableName() string { return "combat_history" }

// MaterialStack is a player-owned pile of one material+style combination.
type MaterialStack struct {
	gorm.Model
	PlayerUUID string `json:"-" gorm:"index:idx_material_stack_owner_kind,unique"`
	MaterialID uint   `json:"material_id" gorm:"index:idx_material_stack_owner_kind,unique"`
	StyleID    string `json:"style_id" gorm:"index:idx_material_stack_owner_kind,unique"`
	Quantity   int    `json:"quantity"`
}

func (MaterialStack) TableName() string { return "material_stacks" }

// OwnedItem is one equipment item awarded to a player.
type OwnedItem struct {
	gorm.Model
	PlayerUUID string `json:"-" gorm:"index"`
	ItemTypeID uint   `json:"item_type_id"`
	StyleID    string `json:"style_id"`
	// SessionID records which encounter dropped the item.
	SessionID string `json:"session_id"`
}

func (OwnedItem) TableName() string { return "owned_items" }

// RewardGrant is the idempotency record for reward application. The unique
// index on SessionID is the hard guarantee that a session's rewards are
// committed at most once, no matter how many times completion is replayed.
type RewardGrant struct {
	gorm.Model
	SessionID  string        `json:"session_id" gorm:"uniqueIndex"`
	PlayerUUID string        `json:"player_uuid" gorm:"index"`
	Outcome    CombatOutcome `json:"outcome"`
	Gold       int           `json:"gold"`
	Experience int           `json:"experience"`
}

func (RewardGrant) TableName() string { return "reward_grants" }

// CombatSession is one encounter. Stat snapshots are copies taken at
// initialization; equipment changes mid-encounter never affect an active
// session. Only the turn resolver mutates HP, turn number and status.
type CombatSession struct {
	gorm.Model  `json:"-"`
	SessionID   string `json:"session_id" gorm:"uniqueIndex"`
	PlayerUUID  string `json:"player_uuid" gorm:"index"`
	EnemyTypeID uint   `json:"enemy_type_id"`
	EnemyName   string `json:"enemy_name"`
	StyleID     string `json:"style_id"`
	LocationID  string `json:"location_id"`
	CombatLevel int    `json:"combat_level"`

	Status      SessionStatus `json:"status"`
	PlayerHP    int           `json:"player_hp"`
	EnemyHP     int           `json:"enemy_hp"`
	PlayerMaxHP int           `json:"player_max_hp"`
	EnemyMaxHP  int           `json:"enemy_max_hp"`
	TurnNumber  int           `json:"turn_number"`
	TurnOwner   TurnOwner     `json:"turn_owner"`

	PlayerStats  PlayerStats      `json:"player_stats" gorm:"serializer:json"`
	EnemyStats   EnemyStats       `json:"enemy_stats" gorm:"serializer:json"`
	WeaponLayout WeaponBandLayout `json:"weapon_layout" gorm:"serializer:json"`

	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (CombatSession) TableName() string { return "combat_sessions" }

// Expired reports whether the session has passed its expiry timestamp.
// Expiry is a timeout policy checked by callers; nothing sweeps sessions in
// the background.
func (s *CombatSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Terminal reports whether the session has reached victory or defeat.
func (s *CombatSession) Terminal() bool {
	return s.Status == StatusVictory || s.Status == StatusDefeat
}

// CombatLogEntry is one turn of a session's append-only log. The log is the
// sole source of truth for current HP: entry n's resulting HP fields are
// authoritative after turn n.
type CombatLogEntry struct {
	ID         uint       `json:"-" gorm:"primarykey"`
	SessionID  string     `json:"-" gorm:"index:idx_combat_log_session_turn,unique"`
	TurnNumber int        `json:"turn_number" gorm:"index:idx_combat_log_session_turn,unique"`
	Action     ActionKind `json:"action"`
	TapAngle   float64    `json:"tap_angle"`
	Zone       Zone       `json:"zone"`
	ZoneRank   int        `json:"zone_rank"`

	// EnemyZoneRank is the simulated enemy zone for this turn (defensive on
	// attack turns, offensive on defense turns). Zero when no simulation ran
	// (player self-injury).
	EnemyZoneRank int `json:"enemy_zone_rank"`

	Damage  int `json:"damage"`  // dealt to the enemy
	Blocked int `json:"blocked"` // absorbed before reaching the player
	Taken   int `json:"taken"`   // applied to the player

	Crit           bool     `json:"crit"`
	CritMultiplier *float64 `json:"crit_multiplier,omitempty"`

	PlayerHP  int       `json:"player_hp"`
	EnemyHP   int       `json:"enemy_hp"`
	CreatedAt time.Time `json:"created_at"`
}

func (CombatLogEntry) TableName() string { return "combat_log_entries" }
