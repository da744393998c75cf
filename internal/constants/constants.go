package constants

// Centralized constants for env keys, headers and routes.
const (
	// Environment variable keys
	EnvConfigPath = "MYSTICA_CONFIG"
	EnvDBPath     = "MYSTICA_DB"
	EnvRandSeed   = "MYSTICA_RAND_SEED"

	// HTTP headers
	HeaderPlayerUUID = "X-Player-UUID"
)

// Routes used by the backend router
const (
	RouteAPIPrefix       = "/api"
	RouteEncounters      = "/encounters"
	RouteEncounterByID   = "/encounters/:sessionID"
	RouteEncounterAttack = "/encounters/:sessionID/attack"
	RouteEncounterDefend = "/encounters/:sessionID/defend"
	RoutePlayerStats     = "/player/stats"
	RouteHealth          = "/healthz"
)

// Common JSON response keys
const (
	JSONKeyError = "error"
)

// API error strings returned to clients
const (
	ErrInvalidRequest     = "invalid request"
	ErrAuthRequired       = "player identity required"
	ErrSessionNotFound    = "combat session not found"
	ErrSessionNotYours    = "session belongs to another player"
	ErrSessionNotActive   = "combat session is not active"
	ErrSessionExpired     = "combat session has expired"
	ErrTurnConflict       = "a turn for this position was already submitted"
	ErrInvalidTapAngle    = "tap angle must be in [0, 360)"
	ErrNoEnemiesAvailable = "no enemies available for this location"
	ErrInternal           = "internal server error"
)
