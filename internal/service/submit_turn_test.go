package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/stats"
)

func seedActiveSession(repo *mockRepository, sessionID string) *game.CombatSession {
	now := time.Now().UTC()
	s := &game.CombatSession{
		SessionID:   sessionID,
		PlayerUUID:  testPlayer,
		EnemyTypeID: 1,
		EnemyName:   "Meadow Slime",
		StyleID:     "normal",
		LocationID:  "meadow",
		CombatLevel: 3,
		Status:      game.StatusActive,
		PlayerHP:    100,
		EnemyHP:     72,
		PlayerMaxHP: 100,
		EnemyMaxHP:  72,
		TurnOwner:   game.TurnOwnerPlayer,
		PlayerStats: game.PlayerStats{AtkPower: 30, AtkAccuracy: 70, DefPower: 15, DefAccuracy: 70, HitPoints: 100},
		EnemyStats: game.EnemyStats{
			AtkPower:        22,
			DefPower:        8,
			HitPoints:       72,
			AtkAccuracyNorm: 0.4,
			DefAccuracyNorm: 0.35,
		},
		WeaponLayout: game.DefaultBandLayout(),
		StartedAt:    now,
		ExpiresAt:    now.Add(game.SessionTTL),
	}
	_ = repo.CreateSession(s)
	return s
}

func TestSubmitAttackTurn_PersistsEntryAndSession(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	seedActiveSession(repo, "sess-attack")
	rng := rand.New(rand.NewSource(1))

	out, err := SubmitAttackTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-attack", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Entry.TurnNumber != 1 || out.Entry.Action != game.ActionAttack {
		t.Fatalf("bad entry: %+v", out.Entry)
	}
	if out.Entry.Zone != game.ZoneGraze {
		t.Fatalf("30 degrees should graze, got %s", out.Entry.Zone)
	}
	// Attack turns never hurt the player.
	if out.Session.PlayerHP != 100 || out.Entry.Taken != 0 {
		t.Fatalf("player damaged on attack turn: hp=%d taken=%d", out.Session.PlayerHP, out.Entry.Taken)
	}
	if out.Session.EnemyHP >= 72 {
		t.Fatalf("enemy hp did not drop: %d", out.Session.EnemyHP)
	}
	if out.Rewards != nil {
		t.Fatalf("non-terminal turn must not carry rewards")
	}

	log, _ := repo.GetLogEntries("sess-attack")
	if len(log) != 1 {
		t.Fatalf("log not appended: %d entries", len(log))
	}
	stored, _ := repo.GetSessionBySessionID("sess-attack")
	if stored.TurnNumber != 1 || stored.EnemyHP != out.Session.EnemyHP {
		t.Fatalf("session not persisted: %+v", stored)
	}
}

func TestSubmitDefenseTurn_PlayerTakesDamage(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	seedActiveSession(repo, "sess-defend")
	rng := rand.New(rand.NewSource(1))

	out, err := SubmitDefenseTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-defend", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Entry.Action != game.ActionDefend {
		t.Fatalf("bad action: %s", out.Entry.Action)
	}
	if out.Session.PlayerHP >= 100 {
		t.Fatalf("player hp did not drop on defense turn: %d", out.Session.PlayerHP)
	}
	if out.Session.EnemyHP != 72 {
		t.Fatalf("enemy hp changed on defense turn: %d", out.Session.EnemyHP)
	}
	if out.Entry.EnemyZoneRank < 1 || out.Entry.EnemyZoneRank > 5 {
		t.Fatalf("enemy zone not simulated: %d", out.Entry.EnemyZoneRank)
	}
}

func TestSubmitTurn_Guards(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	s := seedActiveSession(repo, "sess-guards")
	rng := rand.New(rand.NewSource(1))
	provider := stats.NewProvider()

	if _, err := SubmitAttackTurn(repo, provider, rng, testPlayer, "nope", 30); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown session: got %v", err)
	}
	if _, err := SubmitAttackTurn(repo, provider, rng, "other-player", "sess-guards", 30); !errors.Is(err, ErrSessionNotOwned) {
		t.Fatalf("foreign session: got %v", err)
	}
	if _, err := SubmitAttackTurn(repo, provider, rng, testPlayer, "sess-guards", 400); !errors.Is(err, ErrInvalidTapAngle) {
		t.Fatalf("bad angle: got %v", err)
	}

	s.Status = game.StatusVictory
	_ = repo.UpdateSession(s)
	if _, err := SubmitAttackTurn(repo, provider, rng, testPlayer, "sess-guards", 30); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("terminal session: got %v", err)
	}

	expired := seedActiveSession(repo, "sess-expired")
	expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	_ = repo.UpdateSession(expired)
	if _, err := SubmitAttackTurn(repo, provider, rng, testPlayer, "sess-expired", 30); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expired session: got %v", err)
	}
}

func TestSubmitTurn_ConflictOnStaleLog(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	seedActiveSession(repo, "sess-conflict")
	rng := rand.New(rand.NewSource(1))

	// Another submission landed between our read and append.
	staleRepo := &conflictingRepository{mockRepository: repo}
	if _, err := SubmitAttackTurn(staleRepo, stats.NewProvider(), rng, testPlayer, "sess-conflict", 30); !errors.Is(err, ErrTurnConflict) {
		t.Fatalf("expected ErrTurnConflict, got %v", err)
	}
}

// conflictingRepository injects a racing write between the log read and the
// conditional append.
type conflictingRepository struct {
	*mockRepository
}

func (r *conflictingRepository) GetLogEntries(sessionID string) ([]game.CombatLogEntry, error) {
	log, err := r.mockRepository.GetLogEntries(sessionID)
	if err != nil {
		return nil, err
	}
	r.logs[sessionID] = append(r.logs[sessionID], game.CombatLogEntry{
		SessionID:  sessionID,
		TurnNumber: len(r.logs[sessionID]) + 1,
		Action:     game.ActionAttack,
	})
	return log, nil
}

func TestSubmitTurn_VictoryFinalizesRewards(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	s := seedActiveSession(repo, "sess-victory")
	rng := rand.New(rand.NewSource(1))

	// Leave the enemy at 1 HP so any landed attack finishes it.
	_ = repo.AppendLogEntry(&game.CombatLogEntry{
		SessionID:  s.SessionID,
		TurnNumber: 1,
		Action:     game.ActionAttack,
		PlayerHP:   100,
		EnemyHP:    1,
	})

	out, err := SubmitAttackTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-victory", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Status != game.StatusVictory {
		t.Fatalf("got status %s, want victory", out.Session.Status)
	}
	if out.Rewards == nil || out.Report == nil {
		t.Fatalf("victory must finalize rewards")
	}
	if out.Rewards.Outcome != game.OutcomeVictory {
		t.Fatalf("got outcome %s", out.Rewards.Outcome)
	}
	// Deterministic credits: floor(10*3*1.0) gold, floor(20*3*1.0) xp.
	if out.Rewards.Gold != 30 || out.Rewards.Experience != 60 {
		t.Fatalf("got gold=%d xp=%d, want 30/60", out.Rewards.Gold, out.Rewards.Experience)
	}
	if out.Report.AlreadyGranted {
		t.Fatalf("first grant must not report AlreadyGranted")
	}
	if repo.goldCredits[testPlayer] != 30 || repo.xpCredits[testPlayer] != 60 {
		t.Fatalf("credits not applied: gold=%d xp=%d", repo.goldCredits[testPlayer], repo.xpCredits[testPlayer])
	}
	if _, ok := repo.grants["sess-victory"]; !ok {
		t.Fatalf("grant row missing")
	}
	h := repo.history[testPlayer+"/meadow"]
	if h == nil || h.Victories != 1 || h.Attempts != 1 {
		t.Fatalf("history not rolled up: %+v", h)
	}
}

func TestSubmitTurn_VictoryOverLootlessEnemyStillPays(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	repo.enemies[1].LootTable = nil
	s := seedActiveSession(repo, "sess-lootless")
	_ = repo.AppendLogEntry(&game.CombatLogEntry{
		SessionID:  s.SessionID,
		TurnNumber: 1,
		Action:     game.ActionAttack,
		PlayerHP:   100,
		EnemyHP:    1,
	})
	rng := rand.New(rand.NewSource(1))

	out, err := SubmitAttackTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-lootless", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RewardError != "" {
		t.Fatalf("a loot-less enemy is not a reward failure: %q", out.RewardError)
	}
	if out.Rewards == nil || out.Report == nil {
		t.Fatalf("victory must finalize: %+v", out)
	}
	// Gold and experience are deterministic in level and tier; no table
	// needed.
	if out.Rewards.Gold != 30 || out.Rewards.Experience != 60 {
		t.Fatalf("got gold=%d xp=%d, want 30/60", out.Rewards.Gold, out.Rewards.Experience)
	}
	if len(out.Rewards.Materials) != 0 || out.Rewards.Item != nil {
		t.Fatalf("no table means no drops: %+v", out.Rewards)
	}
	if repo.goldCredits[testPlayer] != 30 || repo.xpCredits[testPlayer] != 60 {
		t.Fatalf("credits not applied: %d/%d", repo.goldCredits[testPlayer], repo.xpCredits[testPlayer])
	}
	if _, ok := repo.grants["sess-lootless"]; !ok {
		t.Fatalf("grant row missing")
	}
}

func TestSubmitTurn_LootFailureStillCommitsGrantAndHistory(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	s := seedActiveSession(repo, "sess-dangling")
	// The catalog row for the session's enemy is gone mid-flight, so the
	// loot roll cannot resolve it.
	s.EnemyTypeID = 999
	_ = repo.UpdateSession(s)
	_ = repo.AppendLogEntry(&game.CombatLogEntry{
		SessionID:  s.SessionID,
		TurnNumber: 1,
		Action:     game.ActionAttack,
		PlayerHP:   100,
		EnemyHP:    1,
	})
	rng := rand.New(rand.NewSource(1))

	out, err := SubmitAttackTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-dangling", 30)
	if err != nil {
		t.Fatalf("the committed turn must not fail: %v", err)
	}
	if out.Session.Status != game.StatusVictory {
		t.Fatalf("got status %s, want victory", out.Session.Status)
	}
	if out.RewardError == "" {
		t.Fatalf("loot failure must be surfaced on the payload")
	}
	// The grant row and the history rollup do not depend on the loot roll.
	if _, ok := repo.grants["sess-dangling"]; !ok {
		t.Fatalf("grant row missing despite committed victory")
	}
	h := repo.history[testPlayer+"/meadow"]
	if h == nil || h.Victories != 1 {
		t.Fatalf("history not rolled up: %+v", h)
	}
	if out.Rewards == nil || out.Rewards.Gold != 0 || repo.goldCredits[testPlayer] != 0 {
		t.Fatalf("failed loot roll must commit with zero loot: %+v", out.Rewards)
	}
	log, _ := repo.GetLogEntries("sess-dangling")
	if len(log) != 2 {
		t.Fatalf("turn not committed: %d entries", len(log))
	}
}

func TestSubmitTurn_GrantFailureIsSurfaced(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	s := seedActiveSession(repo, "sess-grantfail")
	repo.errCreateGrant = errors.New("database is locked")
	_ = repo.AppendLogEntry(&game.CombatLogEntry{
		SessionID:  s.SessionID,
		TurnNumber: 1,
		Action:     game.ActionAttack,
		PlayerHP:   100,
		EnemyHP:    1,
	})
	rng := rand.New(rand.NewSource(1))

	out, err := SubmitAttackTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-grantfail", 30)
	if err != nil {
		t.Fatalf("the committed turn must not fail: %v", err)
	}
	if out.Session.Status != game.StatusVictory {
		t.Fatalf("got status %s, want victory", out.Session.Status)
	}
	if out.RewardError == "" {
		t.Fatalf("grant failure must be surfaced on the payload")
	}
	if out.Report != nil {
		t.Fatalf("no report when the grant never committed: %+v", out.Report)
	}
	if repo.goldCredits[testPlayer] != 0 {
		t.Fatalf("credits applied without a grant row")
	}
}

func TestSubmitTurn_DefeatGrantsNothingButHistory(t *testing.T) {
	repo := newMockRepository()
	repo.seedCatalog()
	s := seedActiveSession(repo, "sess-defeat")
	s.EnemyStats.AtkPower = 500
	_ = repo.UpdateSession(s)
	_ = repo.AppendLogEntry(&game.CombatLogEntry{
		SessionID:  s.SessionID,
		TurnNumber: 1,
		Action:     game.ActionDefend,
		PlayerHP:   2,
		EnemyHP:    72,
	})
	rng := rand.New(rand.NewSource(1))

	out, err := SubmitDefenseTurn(repo, stats.NewProvider(), rng, testPlayer, "sess-defeat", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Status != game.StatusDefeat {
		t.Fatalf("got status %s, want defeat", out.Session.Status)
	}
	if out.Rewards == nil || out.Rewards.Outcome != game.OutcomeDefeat {
		t.Fatalf("defeat must still finalize: %+v", out.Rewards)
	}
	if out.Rewards.Gold != 0 || out.Rewards.Experience != 0 || len(out.Rewards.Materials) != 0 || out.Rewards.Item != nil {
		t.Fatalf("defeat must carry zero loot: %+v", out.Rewards)
	}
	if repo.goldCredits[testPlayer] != 0 {
		t.Fatalf("gold credited on defeat")
	}
	h := repo.history[testPlayer+"/meadow"]
	if h == nil || h.Defeats != 1 {
		t.Fatalf("history not rolled up on defeat: %+v", h)
	}
}
