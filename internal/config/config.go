package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

type tierEntry struct {
	Name           string  `json:"name"`
	HPMultiplier   float64 `json:"hp_multiplier"`
	GoldMultiplier float64 `json:"gold_multiplier"`
	XPMultiplier   float64 `json:"xp_multiplier"`
}

type styleEntry struct {
	StyleID string `json:"style_id"`
	Weight  int    `json:"weight"`
}

type lootEntry struct {
	Kind    string `json:"kind"`
	Target  string `json:"target"`
	Weight  int    `json:"weight"`
	StyleID string `json:"style_id"`
}

type enemyEntry struct {
	Name              string       `json:"name"`
	Tier              string       `json:"tier"`
	HitPoints         int          `json:"hit_points"`
	AtkPower          float64      `json:"atk_power"`
	AtkAccuracy       float64      `json:"atk_accuracy"`
	DefPower          float64      `json:"def_power"`
	DefAccuracy       float64      `json:"def_accuracy"`
	DialogueTone      string       `json:"dialogue_tone"`
	PersonalityTraits []string     `json:"personality_traits"`
	Styles            []styleEntry `json:"styles"`
	LootTable         []lootEntry  `json:"loot_table"`
}

type weaponEntry struct {
	Name          string  `json:"name"`
	CritDegrees   float64 `json:"crit_degrees"`
	NormalDegrees float64 `json:"normal_degrees"`
	GrazeDegrees  float64 `json:"graze_degrees"`
	MissDegrees   float64 `json:"miss_degrees"`
	InjureDegrees float64 `json:"injure_degrees"`
	SpinSpeed     float64 `json:"spin_speed"`
	ArcCount      int     `json:"arc_count"`
}

type materialEntry struct {
	Name    string `json:"name"`
	StyleID string `json:"style_id"`
}

type itemTypeEntry struct {
	Name string `json:"name"`
	Slot string `json:"slot"`
}

// EnemyPool groups enemy types eligible at a location and level range.
// Members reference enemy names; the storage layer resolves them to ids.
type EnemyPool struct {
	PoolID     string   `json:"pool_id"`
	LocationID string   `json:"location_id"`
	MinLevel   int      `json:"min_level"`
	MaxLevel   int      `json:"max_level"`
	Members    []string `json:"members"`
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Tiers     []tierEntry     `json:"tiers"`
	Enemies   []enemyEntry    `json:"enemies"`
	Weapons   []weaponEntry   `json:"weapons"`
	Materials []materialEntry `json:"materials"`
	ItemTypes []itemTypeEntry `json:"item_types"`
	Pools     []EnemyPool     `json:"pools"`
}

// LoadedConfig is the validated game data the server seeds and serves from.
// The config file is the source of truth for all balance numbers.
type LoadedConfig struct {
	ServerAddress string
	Tiers         []game.Tier
	Enemies       []game.EnemyType
	Weapons       []game.Weapon
	Materials     []game.Material
	ItemTypes     []game.ItemType
	Pools         []EnemyPool
}

// LoadConfig reads and validates the game configuration at path. Every
// cross-reference (enemy→tier, loot→material/item, pool→enemy) must
// resolve, weights must be positive and weapon band layouts must sum to
// 360, so bad data fails at startup instead of mid-encounter.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.Tiers) == 0 {
		return nil, fmt.Errorf("config file %s: 'tiers' is empty", path)
	}
	if len(rc.Enemies) == 0 {
		return nil, fmt.Errorf("config file %s: 'enemies' is empty", path)
	}

	out := &LoadedConfig{ServerAddress: ":8080", Pools: rc.Pools}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}

	tierSet := make(map[string]struct{}, len(rc.Tiers))
	for _, t := range rc.Tiers {
		if t.Name == "" {
			return nil, fmt.Errorf("config file %s: tier entry missing 'name'", path)
		}
		if t.HPMultiplier <= 0 || t.GoldMultiplier <= 0 || t.XPMultiplier <= 0 {
			return nil, fmt.Errorf("config file %s: tier '%s' multipliers must be positive", path, t.Name)
		}
		key := strings.ToLower(t.Name)
		if _, exists := tierSet[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate tier '%s'", path, t.Name)
		}
		tierSet[key] = struct{}{}
		out.Tiers = append(out.Tiers, game.Tier{
			Name:           t.Name,
			HPMultiplier:   t.HPMultiplier,
			GoldMultiplier: t.GoldMultiplier,
			XPMultiplier:   t.XPMultiplier,
		})
	}

	materialSet := make(map[string]struct{}, len(rc.Materials))
	for _, m := range rc.Materials {
		if m.Name == "" {
			return nil, fmt.Errorf("config file %s: material entry missing 'name'", path)
		}
		key := strings.ToLower(m.Name)
		if _, exists := materialSet[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate material '%s'", path, m.Name)
		}
		materialSet[key] = struct{}{}
		out.Materials = append(out.Materials, game.Material{Name: m.Name, StyleID: m.StyleID})
	}

	itemSet := make(map[string]struct{}, len(rc.ItemTypes))
	for _, it := range rc.ItemTypes {
		if it.Name == "" {
			return nil, fmt.Errorf("config file %s: item_type entry missing 'name'", path)
		}
		key := strings.ToLower(it.Name)
		if _, exists := itemSet[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate item_type '%s'", path, it.Name)
		}
		itemSet[key] = struct{}{}
		out.ItemTypes = append(out.ItemTypes, game.ItemType{Name: it.Name, Slot: it.Slot})
	}

	for _, w := range rc.Weapons {
		if w.Name == "" {
			return nil, fmt.Errorf("config file %s: weapon entry missing 'name'", path)
		}
		layout := game.WeaponBandLayout{
			CritDegrees:   w.CritDegrees,
			NormalDegrees: w.NormalDegrees,
			GrazeDegrees:  w.GrazeDegrees,
			MissDegrees:   w.MissDegrees,
			InjureDegrees: w.InjureDegrees,
		}
		if err := layout.Validate(); err != nil {
			return nil, fmt.Errorf("config file %s: weapon '%s': %w", path, w.Name, err)
		}
		spin := w.SpinSpeed
		if spin == 0 {
			spin = game.DefaultSpinSpeed
		}
		arcs := w.ArcCount
		if arcs == 0 {
			arcs = game.DefaultArcCount
		}
		out.Weapons = append(out.Weapons, game.Weapon{Name: w.Name, Layout: layout, SpinSpeed: spin, ArcCount: arcs})
	}

	enemySet := make(map[string]struct{}, len(rc.Enemies))
	for _, e := range rc.Enemies {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: enemy entry missing 'name'", path)
		}
		key := strings.ToLower(e.Name)
		if _, exists := enemySet[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate enemy '%s'", path, e.Name)
		}
		enemySet[key] = struct{}{}
		if _, ok := tierSet[strings.ToLower(e.Tier)]; !ok {
			return nil, fmt.Errorf("config file %s: enemy '%s' references unknown tier '%s'", path, e.Name, e.Tier)
		}

		enemy := game.EnemyType{
			Name:              e.Name,
			TierName:          e.Tier,
			BaseHitPoints:     e.HitPoints,
			BaseAtkPower:      e.AtkPower,
			BaseAtkAccuracy:   e.AtkAccuracy,
			BaseDefPower:      e.DefPower,
			BaseDefAccuracy:   e.DefAccuracy,
			DialogueTone:      e.DialogueTone,
			PersonalityTraits: e.PersonalityTraits,
		}
		for _, s := range e.Styles {
			if s.StyleID == "" {
				return nil, fmt.Errorf("config file %s: enemy '%s' style missing 'style_id'", path, e.Name)
			}
			if s.Weight < 0 {
				return nil, fmt.Errorf("config file %s: enemy '%s' style '%s' has negative weight", path, e.Name, s.StyleID)
			}
			enemy.Styles = append(enemy.Styles, game.EnemyStyle{StyleID: s.StyleID, Weight: s.Weight})
		}
		for _, l := range e.LootTable {
			kind := game.LootableKind(l.Kind)
			switch kind {
			case game.LootableMaterial:
				if _, ok := materialSet[strings.ToLower(l.Target)]; !ok {
					return nil, fmt.Errorf("config file %s: enemy '%s' loot references unknown material '%s'", path, e.Name, l.Target)
				}
			case game.LootableItem:
				if _, ok := itemSet[strings.ToLower(l.Target)]; !ok {
					return nil, fmt.Errorf("config file %s: enemy '%s' loot references unknown item_type '%s'", path, e.Name, l.Target)
				}
			default:
				return nil, fmt.Errorf("config file %s: enemy '%s' loot entry has invalid kind '%s'", path, e.Name, l.Kind)
			}
			if l.Weight <= 0 {
				return nil, fmt.Errorf("config file %s: enemy '%s' loot '%s' must have positive weight", path, e.Name, l.Target)
			}
			// TargetID is resolved against the seeded catalog rows by the
			// storage layer; TargetName carries the reference until then.
			enemy.LootTable = append(enemy.LootTable, game.LootTableEntry{
				Kind:       kind,
				TargetName: l.Target,
				Weight:     l.Weight,
				StyleID:    l.StyleID,
			})
		}
		out.Enemies = append(out.Enemies, enemy)
	}

	for _, p := range rc.Pools {
		if p.PoolID == "" || p.LocationID == "" {
			return nil, fmt.Errorf("config file %s: pool entries require 'pool_id' and 'location_id'", path)
		}
		if len(p.Members) == 0 {
			return nil, fmt.Errorf("config file %s: pool '%s' has no members", path, p.PoolID)
		}
		for _, m := range p.Members {
			if _, ok := enemySet[strings.ToLower(m)]; !ok {
				return nil, fmt.Errorf("config file %s: pool '%s' references unknown enemy '%s'", path, p.PoolID, m)
			}
		}
	}

	return out, nil
}
