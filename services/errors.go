package services

import "errors"

// Errors shared across services and mapped to HTTP statuses by handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed = errors.New("validation failed")
	ErrNoFieldsToUpdate = errors.New("no fields provided for update")
	ErrInvalidScore     = errors.New("scores must be non-negative integers")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidStartTime = errors.New("start time must be in HH:MM format")
	ErrSameTeam         = errors.New("home and away teams must be different")
	ErrTeamNotInLeague  = errors.New("team does not belong to this league")
	ErrGameFinalized    = errors.New("the teams of a scored game cannot be reassigned")
	ErrPlayerNotInGame  = errors.New("player is not on either team of this game")
	ErrInvalidStatType  = errors.New("unknown stat type")
	ErrInvalidTeamRole  = errors.New("role must be player or captain")
	ErrLeagueFull       = errors.New("league has reached its maximum number of teams")
	ErrStorageDisabled  = errors.New("file storage is not configured")

	// Conflicts
	ErrTeamNameConflict        = errors.New("team name is already in use in this league")
	ErrPlayerEmailConflict     = errors.New("email address is already in use")
	ErrRosterConflict          = errors.New("player is already on this team")
	ErrKeeperAssignmentExists  = errors.New("stat keeper is already assigned to this game")
	ErrLeagueInUse             = errors.New("league cannot be deleted while it has teams or games")
	ErrTeamInUse               = errors.New("team cannot be deleted while it has games")
	ErrStatKeeperEmailConflict = errors.New("stat keeper email address is already in use")
	ErrScheduleExists          = errors.New("league already has games scheduled")

	// ErrRecordDesync means a reversal would push a team counter below
	// zero: the counters no longer match the game log.
	ErrRecordDesync = errors.New("team win/loss record is out of sync with the game log")

	// Entity specific not-found errors
	ErrLeagueNotFound           = errors.New("league not found")
	ErrTeamNotFound             = errors.New("team not found")
	ErrPlayerNotFound           = errors.New("player not found")
	ErrGameNotFound             = errors.New("game not found")
	ErrStatKeeperNotFound       = errors.New("stat keeper not found")
	ErrStatEventNotFound        = errors.New("stat event not found")
	ErrAwardNotFound            = errors.New("award not found")
	ErrChampionNotFound         = errors.New("champion not found")
	ErrRosterEntryNotFound      = errors.New("player is not on this team")
	ErrKeeperAssignmentNotFound = errors.New("stat keeper is not assigned to this game")
)
