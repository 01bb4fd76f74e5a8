package constants

import "time"

// Centralized constants for env keys, headers, routes and log fields.
const (
	// Environment variable keys
	EnvConfigPath = "GRIDSIEGE_CONFIG"
	EnvDBPath     = "GRIDSIEGE_DB"
	EnvListenAddr = "GRIDSIEGE_ADDR"
	EnvLogLevel   = "GRIDSIEGE_LOG_LEVEL"

	DefaultConfigPath = "./gridsiege_config.json"
	DefaultDBPath     = "gridsiege.db"
	DefaultListenAddr = ":8080"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// Session lifecycle
const (
	DefaultIdleTTL      = 30 * time.Minute
	ExpirySweepInterval = time.Minute
	ShutdownTimeout     = 10 * time.Second
)

// Routes used by the backend router
const (
	RouteAPIPrefix        = "/api"
	RouteHealth           = "/healthz"
	RouteVersion          = "/version"
	RouteShapes           = "/shapes"
	RouteBattles          = "/battles"
	RouteBattleByID       = "/battles/:battleID"
	RouteBattleAttributes = "/battles/:battleID/attributes"
	RouteBattleBegin      = "/battles/:battleID/begin"
	RouteBattlePlace      = "/battles/:battleID/place"
	RouteBattleRotate     = "/battles/:battleID/rotate"
	RouteBattleTarget     = "/battles/:battleID/target"
	RouteBattlePass       = "/battles/:battleID/pass"
	RouteBattleEvents     = "/battles/:battleID/events"
	RouteBattleDamageLog  = "/battles/:battleID/damage-log"
	RouteRecords          = "/records"

	ParamBattleID = "battleID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest       = "Invalid request"
	ErrBattleNotFound       = "Battle not found"
	ErrFailedCreateBattle   = "Failed to create battle"
	ErrUnknownShape         = "Unknown shape"
	ErrInvalidPlacement     = "Block does not fit there"
	ErrInvalidQuadrant      = "Invalid quadrant"
	ErrInvalidAttribute     = "Invalid attribute slot"
	ErrSlotLocked           = "Attribute slot is locked"
	ErrNotPreparing         = "Battle is no longer in preparation"
	ErrNotInBattle          = "Battle has not begun or is already over"
	ErrTurnInFlight         = "A turn is already being resolved"
	ErrUnknownMonster       = "Unknown or dead monster"
	ErrInputBlocked         = "Input is blocked while a turn resolves"
	ErrFailedFetchDamageLog = "Failed to fetch damage log"
	ErrFailedFetchRecords   = "Failed to fetch battle records"
	ErrInternal             = "Internal error"
)

// Logging field names
const (
	LogFieldBattleID  = "battle_id"
	LogFieldMonsterID = "monster_id"
	LogFieldPatternID = "pattern_id"
	LogFieldPhase     = "phase"
	LogFieldTopic     = "topic"
	LogFieldSource    = "source"
	LogFieldTarget    = "target"
	LogFieldRequested = "requested"
	LogFieldApplied   = "applied"
	LogFieldAbsorbed  = "absorbed"
	LogFieldBefore    = "hp_before"
	LogFieldAfter     = "hp_after"
	LogFieldCount     = "count"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
	LogFieldPath      = "path"
)
