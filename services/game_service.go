package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/intramural-stats/live"
	"github.com/Dosada05/intramural-stats/metrics"
	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type GameService interface {
	CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error)
	GetGame(ctx context.Context, id int) (*models.Game, error)
	ListLeagueGames(ctx context.Context, leagueID int, upcomingOnly bool) ([]*models.Game, error)
	ListTeamGames(ctx context.Context, teamID int, upcomingOnly bool) ([]*models.Game, error)
	// UpdateGame applies a partial update and, when a score field is
	// present, reconciles team records in the same transaction.
	UpdateGame(ctx context.Context, id int, input UpdateGameInput) error
	AssignTeams(ctx context.Context, id int, input AssignTeamsInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id int) error
	SetLineupEntry(ctx context.Context, gameID, playerID int, input LineupInput) (*models.LineupEntry, error)
	ListLineup(ctx context.Context, gameID int) ([]models.LineupEntry, error)
	RebuildRecords(ctx context.Context, leagueID int) (int64, error)
	// GenerateSchedule creates a round-robin season for a league that has
	// no games yet.
	GenerateSchedule(ctx context.Context, leagueID int, input GenerateScheduleInput) ([]*models.Game, error)
}

type CreateGameInput struct {
	LeagueID   int     `json:"league_id"`
	HomeTeamID *int    `json:"home_team_id"`
	AwayTeamID *int    `json:"away_team_id"`
	DatePlayed string  `json:"date_played"`
	StartTime  *string `json:"start_time"`
	Location   *string `json:"location"`
}

// UpdateGameInput distinguishes absent fields from explicit nulls for the
// two scores; every other field is absent when nil.
type UpdateGameInput struct {
	HomeScore  models.NullableInt `json:"home_score"`
	AwayScore  models.NullableInt `json:"away_score"`
	DatePlayed *string            `json:"date_played"`
	StartTime  *string            `json:"start_time"`
	Location   *string            `json:"location"`
}

func (in UpdateGameInput) Empty() bool {
	return !in.HomeScore.Set && !in.AwayScore.Set &&
		in.DatePlayed == nil && in.StartTime == nil && in.Location == nil
}

func (in UpdateGameInput) touchesScore() bool {
	return in.HomeScore.Set || in.AwayScore.Set
}

// Validate returns ErrNoFieldsToUpdate for an empty update and a map of
// field errors otherwise; the map is nil when the input is valid.
func (in UpdateGameInput) Validate() (map[string]string, error) {
	if in.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	fieldErrors := map[string]string{}
	if in.HomeScore.Value != nil && *in.HomeScore.Value < 0 {
		fieldErrors["home_score"] = "must be a non-negative integer"
	}
	if in.AwayScore.Value != nil && *in.AwayScore.Value < 0 {
		fieldErrors["away_score"] = "must be a non-negative integer"
	}
	if in.DatePlayed != nil {
		if _, err := parseDate(*in.DatePlayed); err != nil {
			fieldErrors["date_played"] = "must be in YYYY-MM-DD format"
		}
	}
	if in.StartTime != nil && strings.TrimSpace(*in.StartTime) != "" {
		if _, err := normalizeStartTime(*in.StartTime); err != nil {
			fieldErrors["start_time"] = "must be in HH:MM format"
		}
	}
	if len(fieldErrors) == 0 {
		return nil, nil
	}
	return fieldErrors, nil
}

type AssignTeamsInput struct {
	HomeTeamID int `json:"home_team_id"`
	AwayTeamID int `json:"away_team_id"`
}

type LineupInput struct {
	IsStarter bool    `json:"is_starter"`
	Position  *string `json:"position"`
}

type gameService struct {
	db         *sql.DB
	gameRepo   repositories.GameRepository
	teamRepo   repositories.TeamRepository
	leagueRepo repositories.LeagueRepository
	publisher  LivePublisher
	metrics    *metrics.Recorder
	logger     *slog.Logger
	now        Clock
}

func NewGameService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	leagueRepo repositories.LeagueRepository,
	publisher LivePublisher,
	rec *metrics.Recorder,
	logger *slog.Logger,
	clock Clock,
) GameService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = systemClock
	}
	return &gameService{
		db:         db,
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		publisher:  publisher,
		metrics:    rec,
		logger:     logger,
		now:        clock,
	}
}

func mapGameRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrGameLeagueInvalid):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrGameTeamInvalid):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamRecordUnderflow):
		return ErrRecordDesync
	}
	return err
}

// checkMatchup verifies that two distinct teams both belong to the league.
func (s *gameService) checkMatchup(ctx context.Context, leagueID, homeID, awayID int) error {
	if homeID <= 0 || awayID <= 0 {
		return validationError("home_team_id and away_team_id must be positive")
	}
	if homeID == awayID {
		return ErrSameTeam
	}
	for _, id := range []int{homeID, awayID} {
		team, err := s.teamRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to load team %d: %w", id, err)
		}
		if team.LeagueID != leagueID {
			return fmt.Errorf("%w: team %d", ErrTeamNotInLeague, id)
		}
	}
	return nil
}

func (s *gameService) CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	if input.LeagueID <= 0 {
		return nil, validationError("league_id is required")
	}
	if (input.HomeTeamID == nil) != (input.AwayTeamID == nil) {
		return nil, validationError("home_team_id and away_team_id must be provided together")
	}
	date, err := parseDate(input.DatePlayed)
	if err != nil {
		return nil, err
	}

	game := &models.Game{
		LeagueID:   input.LeagueID,
		DatePlayed: date,
		Location:   trimmedOrNil(input.Location),
	}
	if st := trimmedOrNil(input.StartTime); st != nil {
		normalized, err := normalizeStartTime(*st)
		if err != nil {
			return nil, err
		}
		game.StartTime = &normalized
	}

	if _, err := s.leagueRepo.GetByID(ctx, input.LeagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %d: %w", input.LeagueID, err)
	}
	if input.HomeTeamID != nil {
		if err := s.checkMatchup(ctx, input.LeagueID, *input.HomeTeamID, *input.AwayTeamID); err != nil {
			return nil, err
		}
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.gameRepo.Create(ctx, tx, game); err != nil {
			return err
		}
		if input.HomeTeamID != nil {
			return s.gameRepo.SetTeams(ctx, tx, game.ID, *input.HomeTeamID, *input.AwayTeamID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", mapGameRepoError(err))
	}

	s.logger.InfoContext(ctx, "game created", slog.Int("game_id", game.ID), slog.Int("league_id", game.LeagueID))
	return s.GetGame(ctx, game.ID)
}

func (s *gameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) ListLeagueGames(ctx context.Context, leagueID int, upcomingOnly bool) ([]*models.Game, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}
	games, err := s.gameRepo.List(ctx, repositories.GameFilter{
		LeagueID: &leagueID, UpcomingOnly: upcomingOnly, Today: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list games for league %d: %w", leagueID, err)
	}
	return games, nil
}

func (s *gameService) ListTeamGames(ctx context.Context, teamID int, upcomingOnly bool) ([]*models.Game, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	games, err := s.gameRepo.List(ctx, repositories.GameFilter{
		TeamID: &teamID, UpcomingOnly: upcomingOnly, Today: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list games for team %d: %w", teamID, err)
	}
	return games, nil
}

func (s *gameService) UpdateGame(ctx context.Context, id int, input UpdateGameInput) (err error) {
	fieldErrors, err := input.Validate()
	if err != nil {
		return err
	}
	if fieldErrors != nil {
		if _, bad := fieldErrors["home_score"]; bad {
			return ErrInvalidScore
		}
		if _, bad := fieldErrors["away_score"]; bad {
			return ErrInvalidScore
		}
		if _, bad := fieldErrors["date_played"]; bad {
			return ErrInvalidDate
		}
		return ErrInvalidStartTime
	}

	var (
		updated *models.Game
		deltas  []RecordDelta
	)
	defer func() { s.metrics.RecordGameUpdate(err) }()

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		game, err := s.gameRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		prevHome, prevAway := game.HomeScore, game.AwayScore

		if input.HomeScore.Set {
			game.HomeScore = input.HomeScore.Value
		}
		if input.AwayScore.Set {
			game.AwayScore = input.AwayScore.Value
		}
		if input.DatePlayed != nil {
			game.DatePlayed, _ = parseDate(*input.DatePlayed)
		}
		if input.StartTime != nil {
			game.StartTime = nil
			if st := trimmedOrNil(input.StartTime); st != nil {
				normalized, _ := normalizeStartTime(*st)
				game.StartTime = &normalized
			}
		}
		if input.Location != nil {
			game.Location = trimmedOrNil(input.Location)
		}

		if err := s.gameRepo.Update(ctx, tx, game); err != nil {
			return err
		}

		if input.touchesScore() {
			deltas = Reconcile(ScoreChange{
				PrevHome: prevHome, PrevAway: prevAway,
				NewHome: game.HomeScore, NewAway: game.AwayScore,
				HomeTeamID: game.HomeTeamID, AwayTeamID: game.AwayTeamID,
			})
			if err := s.applyDeltas(ctx, tx, deltas); err != nil {
				return err
			}
		}
		updated = game
		return nil
	})
	if err != nil {
		mapped := mapGameRepoError(err)
		if errors.Is(mapped, ErrRecordDesync) {
			s.logger.ErrorContext(ctx, "score reconciliation rolled back", slog.Int("game_id", id), slog.Any("error", err))
		}
		if errors.Is(mapped, ErrGameNotFound) || errors.Is(mapped, ErrRecordDesync) {
			return mapped
		}
		return fmt.Errorf("failed to update game %d: %w", id, mapped)
	}

	s.metrics.RecordRecordAdjustments(len(deltas))
	s.logger.InfoContext(ctx, "game updated",
		slog.Int("game_id", id),
		slog.Bool("finalized", updated.Finalized()),
		slog.Int("record_adjustments", len(deltas)),
	)
	s.publisher.Publish(updated.LeagueID, live.TypeGameUpdated, updated)
	return nil
}

func (s *gameService) applyDeltas(ctx context.Context, tx *sql.Tx, deltas []RecordDelta) error {
	for _, d := range deltas {
		if err := s.teamRepo.AdjustRecord(ctx, tx, d.TeamID, d.Wins, d.Losses); err != nil {
			return fmt.Errorf("team %d: %w", d.TeamID, err)
		}
	}
	return nil
}

func (s *gameService) AssignTeams(ctx context.Context, id int, input AssignTeamsInput) (*models.Game, error) {
	current, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkMatchup(ctx, current.LeagueID, input.HomeTeamID, input.AwayTeamID); err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		game, err := s.gameRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		// Scores already counted against the old teams would be orphaned.
		if game.Finalized() {
			return ErrGameFinalized
		}
		return s.gameRepo.SetTeams(ctx, tx, id, input.HomeTeamID, input.AwayTeamID)
	})
	if err != nil {
		mapped := mapGameRepoError(err)
		if errors.Is(mapped, ErrGameFinalized) || errors.Is(mapped, ErrGameNotFound) || errors.Is(mapped, ErrTeamNotFound) {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to assign teams to game %d: %w", id, mapped)
	}

	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(game.LeagueID, live.TypeGameUpdated, game)
	return game, nil
}

func (s *gameService) DeleteGame(ctx context.Context, id int) error {
	var deleted *models.Game
	var deltas []RecordDelta

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		game, err := s.gameRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		deltas = Reconcile(ScoreChange{
			PrevHome: game.HomeScore, PrevAway: game.AwayScore,
			HomeTeamID: game.HomeTeamID, AwayTeamID: game.AwayTeamID,
		})
		if err := s.applyDeltas(ctx, tx, deltas); err != nil {
			return err
		}
		if err := s.gameRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		deleted = game
		return nil
	})
	if err != nil {
		mapped := mapGameRepoError(err)
		if errors.Is(mapped, ErrGameNotFound) || errors.Is(mapped, ErrRecordDesync) {
			return mapped
		}
		return fmt.Errorf("failed to delete game %d: %w", id, mapped)
	}

	s.metrics.RecordRecordAdjustments(len(deltas))
	s.logger.InfoContext(ctx, "game deleted", slog.Int("game_id", id), slog.Int("record_adjustments", len(deltas)))
	s.publisher.Publish(deleted.LeagueID, live.TypeGameDeleted, map[string]int{"game_id": id})
	return nil
}

func (s *gameService) SetLineupEntry(ctx context.Context, gameID, playerID int, input LineupInput) (*models.LineupEntry, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	onTeam, err := s.gameRepo.IsPlayerOnGameTeam(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check player %d for game %d: %w", playerID, gameID, err)
	}
	if !onTeam {
		return nil, ErrPlayerNotInGame
	}

	entry := &models.LineupEntry{
		PlayerID:  playerID,
		GameID:    gameID,
		IsStarter: input.IsStarter,
		Position:  trimmedOrNil(input.Position),
	}
	if err := s.gameRepo.SetLineupEntry(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrLineupInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to set lineup entry: %w", err)
	}
	return entry, nil
}

func (s *gameService) ListLineup(ctx context.Context, gameID int) ([]models.LineupEntry, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	lineup, err := s.gameRepo.ListLineup(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineup for game %d: %w", gameID, err)
	}
	return lineup, nil
}

func (s *gameService) RebuildRecords(ctx context.Context, leagueID int) (int64, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return 0, ErrLeagueNotFound
		}
		return 0, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}

	var rebuilt int64
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Locking the teams first makes a concurrent score edit either
		// commit before the game log is read or wait and apply its delta
		// on top of the rebuilt counters.
		teams, err := s.teamRepo.ListByLeagueTx(ctx, tx, leagueID, true)
		if err != nil {
			return err
		}
		games, err := s.gameRepo.List(ctx, repositories.GameFilter{LeagueID: &leagueID})
		if err != nil {
			return err
		}

		ids := make([]int, 0, len(teams))
		for _, t := range teams {
			ids = append(ids, t.ID)
		}
		records := RecordsFromGames(ids, games)

		for _, t := range teams {
			want := records[t.ID]
			if t.Wins == want.Wins && t.Losses == want.Losses {
				continue
			}
			if err := s.teamRepo.SetRecord(ctx, tx, t.ID, want.Wins, want.Losses); err != nil {
				return err
			}
			s.logger.WarnContext(ctx, "team record corrected",
				slog.Int("team_id", t.ID),
				slog.Int("wins_was", t.Wins), slog.Int("losses_was", t.Losses),
				slog.Int("wins", want.Wins), slog.Int("losses", want.Losses))
			rebuilt++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild records for league %d: %w", leagueID, err)
	}

	s.logger.WarnContext(ctx, "team records rebuilt from game log",
		slog.Int("league_id", leagueID), slog.Int64("teams", rebuilt))
	return rebuilt, nil
}
