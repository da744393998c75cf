package api

import (
	"math/rand"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/location"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

// CombatHandler bundles the dependencies every combat endpoint shares.
// The rand source is the single seedable entry point for all combat
// randomness.
type CombatHandler struct {
	repo     storage.Repository
	loc      location.Service
	provider engine.StatsProvider
	rng      *rand.Rand
}

func NewCombatHandler(repo storage.Repository, loc location.Service, provider engine.StatsProvider, rng *rand.Rand) *CombatHandler {
	return &CombatHandler{repo: repo, loc: loc, provider: provider, rng: rng}
}
