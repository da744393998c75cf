package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/stats"
)

const testPlayer = "11111111-1111-1111-1111-111111111111"

func TestStartEncounter_CreatesImmutableSnapshot(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	repo.stats[testPlayer] = game.PlayerStats{AtkPower: 30, AtkAccuracy: 70, DefPower: 15, DefAccuracy: 70, HitPoints: 100}
	rng := rand.New(rand.NewSource(1))

	before := time.Now().UTC()
	s, err := StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.SessionID == "" {
		t.Fatalf("session id must be assigned")
	}
	if s.Status != game.StatusActive {
		t.Fatalf("got status %s, want active", s.Status)
	}
	if s.EnemyName != "Meadow Slime" {
		t.Fatalf("got enemy %q", s.EnemyName)
	}
	if s.TurnNumber != 0 || s.TurnOwner != game.TurnOwnerPlayer {
		t.Fatalf("fresh session turn state wrong: %d/%s", s.TurnNumber, s.TurnOwner)
	}
	// level 3 common slime: floor(60 * 1.0 * 1.2) = 72
	if s.EnemyMaxHP != 72 || s.EnemyHP != 72 {
		t.Fatalf("got enemy hp %d/%d, want 72", s.EnemyHP, s.EnemyMaxHP)
	}
	if s.PlayerMaxHP != 100 || s.PlayerHP != 100 {
		t.Fatalf("got player hp %d/%d, want 100", s.PlayerHP, s.PlayerMaxHP)
	}
	if s.EnemyStats.StyleID != "normal" {
		t.Fatalf("style not stamped on realized stats: %q", s.EnemyStats.StyleID)
	}
	if s.WeaponLayout != game.DefaultBandLayout() {
		t.Fatalf("no equipped weapon should yield the default layout: %+v", s.WeaponLayout)
	}

	ttl := s.ExpiresAt.Sub(s.StartedAt)
	if ttl != game.SessionTTL {
		t.Fatalf("got ttl %s, want %s", ttl, game.SessionTTL)
	}
	if s.StartedAt.Before(before.Add(-time.Second)) {
		t.Fatalf("started_at in the past: %s", s.StartedAt)
	}

	// Persisted copy must match what the caller got.
	stored, err := repo.GetSessionBySessionID(s.SessionID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.EnemyMaxHP != s.EnemyMaxHP || stored.PlayerUUID != testPlayer {
		t.Fatalf("stored session diverges: %+v", stored)
	}
}

func TestStartEncounter_DefaultPlayerHP(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	// No equipped stats at all: zero-value PlayerStats from the repo.
	rng := rand.New(rand.NewSource(1))

	s, err := StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PlayerMaxHP != game.DefaultPlayerHP {
		t.Fatalf("got player max hp %d, want default %d", s.PlayerMaxHP, game.DefaultPlayerHP)
	}
}

func TestStartEncounter_EquippedWeaponLayout(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	rapier := &game.Weapon{
		Name:   "Duelist Rapier",
		Layout: game.WeaponBandLayout{CritDegrees: 20, NormalDegrees: 40, GrazeDegrees: 100, MissDegrees: 100, InjureDegrees: 100},
	}
	rapier.ID = 7
	repo.weapons[7] = rapier
	weaponID := uint(7)
	repo.profiles[testPlayer] = &game.PlayerProfile{PlayerUUID: testPlayer, EquippedWeaponID: &weaponID}
	rng := rand.New(rand.NewSource(1))

	s, err := StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.WeaponLayout != rapier.Layout {
		t.Fatalf("got layout %+v, want rapier layout", s.WeaponLayout)
	}

	// A dangling weapon reference degrades to the default layout instead of
	// failing the encounter.
	dangling := uint(999)
	repo.profiles[testPlayer].EquippedWeaponID = &dangling
	s, err = StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.WeaponLayout != game.DefaultBandLayout() {
		t.Fatalf("dangling weapon should fall back to default layout")
	}
}

func TestStartEncounter_Rejections(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	rng := rand.New(rand.NewSource(1))

	if _, err := StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 0); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("level 0: got %v", err)
	}
	if _, err := StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "volcano", 3); !errors.Is(err, ErrNoEnemies) {
		t.Fatalf("unknown location: got %v", err)
	}
	if _, err := StartEncounter(repo, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 50); !errors.Is(err, ErrNoEnemies) {
		t.Fatalf("over-leveled: got %v", err)
	}

	// Pool references an enemy the catalog no longer has.
	empty := newMockRepository()
	if _, err := StartEncounter(empty, testLocationService(), stats.NewProvider(), rng, testPlayer, "meadow", 3); !errors.Is(err, ErrEnemyNotFound) {
		t.Fatalf("missing enemy: got %v", err)
	}
}
