// Package location selects which enemy pools are eligible for a player's
// location and combat level. Pools come straight from the server config;
// the combat core consumes this as an injected interface.
package location

import (
	"errors"
	"math/rand"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/config"
)

// ErrNoEligiblePools signals that a location/level pair matches nothing.
var ErrNoEligiblePools = errors.New("no eligible enemy pools for location")

type Service interface {
	// MatchingEnemyPools returns the ids of pools covering the location and
	// level, or ErrNoEligiblePools.
	MatchingEnemyPools(locationID string, level int) ([]string, error)

	// PoolMembers flattens pool ids into the enemy type names they contain,
	// deduplicated.
	PoolMembers(poolIDs []string) ([]string, error)

	// PickRandom selects one member by uniform random index.
	PickRandom(members []string, rng *rand.Rand) (string, error)
}

type configService struct {
	pools []config.EnemyPool
}

func NewService(pools []config.EnemyPool) Service {
	return &configService{pools: pools}
}

func (s *configService) MatchingEnemyPools(locationID string, level int) ([]string, error) {
	var ids []string
	for _, p := range s.pools {
		if p.LocationID != locationID {
			continue
		}
		if level < p.MinLevel || (p.MaxLevel > 0 && level > p.MaxLevel) {
			continue
		}
		ids = append(ids, p.PoolID)
	}
	if len(ids) == 0 {
		return nil, ErrNoEligiblePools
	}
	return ids, nil
}

func (s *configService) PoolMembers(poolIDs []string) ([]string, error) {
	want := make(map[string]struct{}, len(poolIDs))
	for _, id := range poolIDs {
		want[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	var members []string
	for _, p := range s.pools {
		if _, ok := want[p.PoolID]; !ok {
			continue
		}
		for _, m := range p.Members {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, ErrNoEligiblePools
	}
	return members, nil
}

func (s *configService) PickRandom(members []string, rng *rand.Rand) (string, error) {
	if len(members) == 0 {
		return "", ErrNoEligiblePools
	}
	return members[rng.Intn(len(members))], nil
}
