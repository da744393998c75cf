package service

import (
	"fmt"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/config"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/location"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

// mockRepository is an in-memory storage.Repository for service tests.
// Individual operations can be forced to fail through the err* fields.
type mockRepository struct {
	enemies   map[uint]*game.EnemyType
	tiers     map[string]*game.Tier
	weapons   map[uint]*game.Weapon
	materials map[uint]*game.Material
	itemTypes map[uint]*game.ItemType

	profiles map[string]*game.PlayerProfile
	stats    map[string]game.PlayerStats

	sessions map[string]*game.CombatSession
	logs     map[string][]game.CombatLogEntry
	grants   map[string]*game.RewardGrant

	goldCredits map[string]int
	xpCredits   map[string]int
	stacks      []game.MaterialStack
	items       []game.OwnedItem
	history     map[string]*game.CombatHistory

	errAddMaterialStack error
	errCreditGold       error
	errCreateGrant      error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		enemies:     map[uint]*game.EnemyType{},
		tiers:       map[string]*game.Tier{},
		weapons:     map[uint]*game.Weapon{},
		materials:   map[uint]*game.Material{},
		itemTypes:   map[uint]*game.ItemType{},
		profiles:    map[string]*game.PlayerProfile{},
		stats:       map[string]game.PlayerStats{},
		sessions:    map[string]*game.CombatSession{},
		logs:        map[string][]game.CombatLogEntry{},
		grants:      map[string]*game.RewardGrant{},
		goldCredits: map[string]int{},
		xpCredits:   map[string]int{},
		history:     map[string]*game.CombatHistory{},
	}
}

func (m *mockRepository) GetEnemyTypeByID(id uint) (*game.EnemyType, error) {
	if e, ok := m.enemies[id]; ok {
		return e, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) GetEnemyTypeByName(name string) (*game.EnemyType, error) {
	for _, e := range m.enemies {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) GetTierByName(name string) (*game.Tier, error) {
	if t, ok := m.tiers[name]; ok {
		return t, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) GetWeaponByID(id uint) (*game.Weapon, error) {
	if w, ok := m.weapons[id]; ok {
		return w, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) GetMaterialByID(id uint) (*game.Material, error) {
	if mat, ok := m.materials[id]; ok {
		return mat, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) GetItemTypeByID(id uint) (*game.ItemType, error) {
	if it, ok := m.itemTypes[id]; ok {
		return it, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) GetOrCreateProfile(playerUUID string) (*game.PlayerProfile, error) {
	if p, ok := m.profiles[playerUUID]; ok {
		return p, nil
	}
	p := &game.PlayerProfile{PlayerUUID: playerUUID, CombatLevel: 1}
	m.profiles[playerUUID] = p
	return p, nil
}

func (m *mockRepository) GetEquippedStats(playerUUID string) (game.PlayerStats, error) {
	return m.stats[playerUUID], nil
}

func (m *mockRepository) CreditGold(playerUUID string, amount int) error {
	if m.errCreditGold != nil {
		return m.errCreditGold
	}
	m.goldCredits[playerUUID] += amount
	return nil
}

func (m *mockRepository) CreditExperience(playerUUID string, amount int) error {
	m.xpCredits[playerUUID] += amount
	return nil
}

func (m *mockRepository) AddMaterialStack(playerUUID string, materialID uint, styleID string, quantity int) error {
	if m.errAddMaterialStack != nil {
		return m.errAddMaterialStack
	}
	m.stacks = append(m.stacks, game.MaterialStack{
		PlayerUUID: playerUUID,
		MaterialID: materialID,
		StyleID:    styleID,
		Quantity:   quantity,
	})
	return nil
}

func (m *mockRepository) CreateOwnedItem(item *game.OwnedItem) error {
	m.items = append(m.items, *item)
	return nil
}

func (m *mockRepository) UpdateCombatHistory(playerUUID, locationID string, outcome game.CombatOutcome) error {
	key := playerUUID + "/" + locationID
	h, ok := m.history[key]
	if !ok {
		h = &game.CombatHistory{PlayerUUID: playerUUID, LocationID: locationID}
		m.history[key] = h
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
	return nil
}

func (m *mockRepository) GetCombatHistory(playerUUID string) ([]game.CombatHistory, error) {
	var out []game.CombatHistory
	for _, h := range m.history {
		if h.PlayerUUID == playerUUID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockRepository) CreateSession(s *game.CombatSession) error {
	if _, exists := m.sessions[s.SessionID]; exists {
		return fmt.Errorf("session %s already exists", s.SessionID)
	}
	copied := *s
	m.sessions[s.SessionID] = &copied
	return nil
}

func (m *mockRepository) GetSessionBySessionID(sessionID string) (*game.CombatSession, error) {
	if s, ok := m.sessions[sessionID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepository) UpdateSession(s *game.CombatSession) error {
	if _, ok := m.sessions[s.SessionID]; !ok {
		return storage.ErrNotFound
	}
	copied := *s
	m.sessions[s.SessionID] = &copied
	return nil
}

func (m *mockRepository) GetLogEntries(sessionID string) ([]game.CombatLogEntry, error) {
	return append([]game.CombatLogEntry(nil), m.logs[sessionID]...), nil
}

func (m *mockRepository) AppendLogEntry(e *game.CombatLogEntry) error {
	log := m.logs[e.SessionID]
	if e.TurnNumber != len(log)+1 {
		return storage.ErrTurnConflict
	}
	m.logs[e.SessionID] = append(log, *e)
	return nil
}

func (m *mockRepository) CreateRewardGrant(g *game.RewardGrant) error {
	if m.errCreateGrant != nil {
		return m.errCreateGrant
	}
	if _, exists := m.grants[g.SessionID]; exists {
		return storage.ErrDuplicateGrant
	}
	copied := *g
	m.grants[g.SessionID] = &copied
	return nil
}

var _ storage.Repository = (*mockRepository)(nil)

// seedCatalog installs the standard test enemy, tier and loot targets.
func (m *mockRepository) seedCatalog() {
	slime := &game.EnemyType{
		Name:            "Meadow Slime",
		TierName:        "common",
		BaseHitPoints:   60,
		BaseAtkPower:    22,
		BaseAtkAccuracy: 40,
		BaseDefPower:    8,
		BaseDefAccuracy: 35,
		Styles:          []game.EnemyStyle{{StyleID: "normal", Weight: 1}},
		LootTable: []game.LootTableEntry{
			{Kind: game.LootableMaterial, TargetID: 1, Weight: 6},
			{Kind: game.LootableItem, TargetID: 10, Weight: 1},
		},
	}
	slime.ID = 1
	m.enemies[1] = slime
	m.tiers["common"] = &game.Tier{Name: "common", HPMultiplier: 1, GoldMultiplier: 1, XPMultiplier: 1}
	mat := &game.Material{Name: "Slime Gel"}
	mat.ID = 1
	m.materials[1] = mat
	it := &game.ItemType{Name: "Leather Cap", Slot: "head"}
	it.ID = 10
	m.itemTypes[10] = it
}

func testLocationService() location.Service {
	return location.NewService([]config.EnemyPool{
		{PoolID: "meadow-low", LocationID: "meadow", MinLevel: 1, MaxLevel: 5, Members: []string{"Meadow Slime"}},
	})
}
