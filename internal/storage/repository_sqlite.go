package storage

import (
	"errors"
	"strings"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
	// Config is the source of truth for balance numbers; these maps key by
	// lowercase name and overlay the persisted rows on every read.
	enemyByName map[string]game.EnemyType
	tierByName  map[string]game.Tier
}

func NewSQLiteRepository(db *gorm.DB, enemies []game.EnemyType, tiers []game.Tier) Repository {
	em := make(map[string]game.EnemyType, len(enemies))
	for _, e := range enemies {
		em[strings.ToLower(e.Name)] = e
	}
	tm := make(map[string]game.Tier, len(tiers))
	for _, t := range tiers {
		tm[strings.ToLower(t.Name)] = t
	}
	return &sqliteRepository{db: db, enemyByName: em, tierByName: tm}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// applyEnemyConfig overlays config-sourced stats onto a persisted enemy row.
func (r *sqliteRepository) applyEnemyConfig(e *game.EnemyType) {
	conf, ok := r.enemyByName[strings.ToLower(e.Name)]
	if !ok {
		return
	}
	e.BaseHitPoints = conf.BaseHitPoints
	e.BaseAtkPower = conf.BaseAtkPower
	e.BaseAtkAccuracy = conf.BaseAtkAccuracy
	e.BaseDefPower = conf.BaseDefPower
	e.BaseDefAccuracy = conf.BaseDefAccuracy
	e.DialogueTone = conf.DialogueTone
	e.PersonalityTraits = conf.PersonalityTraits
}

func (r *sqliteRepository) GetEnemyTypeByID(id uint) (*game.EnemyType, error) {
	var e game.EnemyType
	if err := r.db.Preload("Styles").Preload("LootTable").First(&e, id).Error; err != nil {
		return nil, translateErr(err)
	}
	r.applyEnemyConfig(&e)
	return &e, nil
}

func (r *sqliteRepository) GetEnemyTypeByName(name string) (*game.EnemyType, error) {
	var e game.EnemyType
	err := r.db.Preload("Styles").Preload("LootTable").
		Where("LOWER(name) = ?", strings.ToLower(name)).First(&e).Error
	if err != nil {
		return nil, translateErr(err)
	}
	r.applyEnemyConfig(&e)
	return &e, nil
}

func (r *sqliteRepository) GetTierByName(name string) (*game.Tier, error) {
	var t game.Tier
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&t).Error
	if err != nil {
		return nil, translateErr(err)
	}
	if conf, ok := r.tierByName[strings.ToLower(t.Name)]; ok {
		t.HPMultiplier = conf.HPMultiplier
		t.GoldMultiplier = conf.GoldMultiplier
		t.XPMultiplier = conf.XPMultiplier
	}
	return &t, nil
}

func (r *sqliteRepository) GetWeaponByID(id uint) (*game.Weapon, error) {
	var w game.Weapon
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &w, nil
}

func (r *sqliteRepository) GetMaterialByID(id uint) (*game.Material, error) {
	var m game.Material
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

func (r *sqliteRepository) GetItemTypeByID(id uint) (*game.ItemType, error) {
	var it game.ItemType
	if err := r.db.First(&it, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &it, nil
}

func (r *sqliteRepository) GetOrCreateProfile(playerUUID string) (*game.PlayerProfile, error) {
	p := game.PlayerProfile{PlayerUUID: playerUUID, CombatLevel: 1}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		DoNothing: true,
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}
	var out game.PlayerProfile
	if err := r.db.Where("player_uuid = ?", playerUUID).First(&out).Error; err != nil {
		return nil, translateErr(err)
	}
	return &out, nil
}

// GetEquippedStats realizes the player's equipped combat stats. Equipment
// CRUD lives outside this subsystem; until it feeds real figures the
// snapshot uses a flat baseline scaled by combat level, with the documented
// default HP.
func (r *sqliteRepository) GetEquippedStats(playerUUID string) (game.PlayerStats, error) {
	p, err := r.GetOrCreateProfile(playerUUID)
	if err != nil {
		return game.PlayerStats{}, err
	}
	level := p.CombatLevel
	if level < 1 {
		level = 1
	}
	scale := 1 + 0.05*float64(level-1)
	return game.PlayerStats{
		AtkPower:    30 * scale,
		AtkAccuracy: 70,
		DefPower:    15 * scale,
		DefAccuracy: 70,
		HitPoints:   game.DefaultPlayerHP,
	}, nil
}

func (r *sqliteRepository) CreditGold(playerUUID string, amount int) error {
	res := r.db.Model(&game.PlayerProfile{}).
		Where("player_uuid = ?", playerUUID).
		Update("gold", gorm.Expr("gold + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) CreditExperience(playerUUID string, amount int) error {
	res := r.db.Model(&game.PlayerProfile{}).
		Where("player_uuid = ?", playerUUID).
		Update("experience", gorm.Expr("experience + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMaterialStack upserts the player's stack for a material+style and
// increments its quantity atomically.
func (r *sqliteRepository) AddMaterialStack(playerUUID string, materialID uint, styleID string, quantity int) error {
	stack := game.MaterialStack{
		PlayerUUID: playerUUID,
		MaterialID: materialID,
		StyleID:    styleID,
		Quantity:   quantity,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_uuid"}, {Name: "material_id"}, {Name: "style_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
		}),
	}).Create(&stack).Error
}

func (r *sqliteRepository) CreateOwnedItem(item *game.OwnedItem) error {
	return r.db.Create(item).Error
}

// UpdateCombatHistory rolls one terminal session into the per-location
// counters inside a transaction (read-modify-write must be atomic).
func (r *sqliteRepository) UpdateCombatHistory(playerUUID, locationID string, outcome game.CombatOutcome) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var h game.CombatHistory
		err := tx.Where("player_uuid = ? AND location_id = ?", playerUUID, locationID).First(&h).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h = game.CombatHistory{PlayerUUID: playerUUID, LocationID: locationID}
		} else if err != nil {
			return err
		}
		h.Attempts++
		if outcome == game.OutcomeVictory {
			h.Victories++
			h.WinStreak++
			if h.WinStreak > h.BestStreak {
				h.BestStreak = h.WinStreak
			}
		} else {
			h.Defeats++
			h.WinStreak = 0
		}
		return tx.Save(&h).Error
	})
}

func (r *sqliteRepository) GetCombatHistory(playerUUID string) ([]game.CombatHistory, error) {
	var out []game.CombatHistory
	if err := r.db.Where("player_uuid = ?", playerUUID).Order("location_id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) CreateSession(s *game.CombatSession) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) GetSessionBySessionID(sessionID string) (*game.CombatSession, error) {
	var s game.CombatSession
	if err := r.db.Where("session_id = ?", sessionID).First(&s).Error; err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (r *sqliteRepository) UpdateSession(s *game.CombatSession) error {
	return r.db.Save(s).Error
}

func (r *sqliteRepository) GetLogEntries(sessionID string) ([]game.CombatLogEntry, error) {
	var out []game.CombatLogEntry
	err := r.db.Where("session_id = ?", sessionID).Order("turn_number ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendLogEntry serializes writes per session: inside a transaction it
// recounts the log and refuses the insert unless the entry's turn number is
// exactly next. The unique (session_id, turn_number) index backstops the
// check against drivers that relax transaction isolation.
func (r *sqliteRepository) AppendLogEntry(e *game.CombatLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&game.CombatLogEntry{}).
			Where("session_id = ?", e.SessionID).Count(&count).Error; err != nil {
			return err
		}
		if int(count)+1 != e.TurnNumber {
			return ErrTurnConflict
		}
		if err := tx.Create(e).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrTurnConflict
			}
			return err
		}
		return nil
	})
}

func (r *sqliteRepository) CreateRewardGrant(g *game.RewardGrant) error {
	if err := r.db.Create(g).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateGrant
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
