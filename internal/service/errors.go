package service

import (
	"errors"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/location"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"
)

var (
	ErrSessionNotFound  = errors.New("combat session not found")
	ErrSessionNotOwned  = errors.New("session belongs to another player")
	ErrSessionNotActive = errors.New("combat session is not active")
	ErrSessionExpired   = errors.New("combat session has expired")
	ErrTurnConflict     = errors.New("turn already submitted for this position")
	ErrInvalidTapAngle  = errors.New("tap angle out of range")
	ErrInvalidLevel     = errors.New("combat level must be positive")
	ErrNoEnemies        = errors.New("no eligible enemies for location")
	ErrEnemyNotFound    = errors.New("enemy type not found")
	ErrTierNotFound     = errors.New("enemy tier not found")
)

// ErrorKind classifies service errors for transport mapping and logging.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindBusinessLogic
)

// Kind maps an error to its taxonomy bucket. Persistence failures that are
// not one of the known sentinels stay internal and propagate unchanged.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidTapAngle),
		errors.Is(err, ErrInvalidLevel),
		errors.Is(err, engine.ErrAngleOutOfRange),
		errors.Is(err, engine.ErrNonPositiveWeight),
		errors.Is(err, engine.ErrEmptyTable),
		errors.Is(err, engine.ErrInvalidTierMultiplier):
		return KindValidation
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrNoEnemies),
		errors.Is(err, ErrEnemyNotFound),
		errors.Is(err, ErrTierNotFound),
		errors.Is(err, location.ErrNoEligiblePools),
		errors.Is(err, storage.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrSessionNotActive),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrSessionNotOwned),
		errors.Is(err, ErrTurnConflict),
		errors.Is(err, engine.ErrSessionNotActive),
		errors.Is(err, storage.ErrTurnConflict):
		return KindBusinessLogic
	}
	return KindInternal
}
