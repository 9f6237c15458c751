package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
	"github.com/Dosada05/intramural-stats/schedule"
)

const defaultDaysBetweenRounds = 7

type GenerateScheduleInput struct {
	StartDate         string  `json:"start_date"`
	DaysBetweenRounds int     `json:"days_between_rounds"`
	Legs              int     `json:"legs"`
	StartTime         *string `json:"start_time"`
	Location          *string `json:"location"`
}

func (s *gameService) GenerateSchedule(ctx context.Context, leagueID int, input GenerateScheduleInput) ([]*models.Game, error) {
	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	if input.Legs == 0 {
		input.Legs = 1
	}
	if input.DaysBetweenRounds == 0 {
		input.DaysBetweenRounds = defaultDaysBetweenRounds
	}
	if input.DaysBetweenRounds < 0 {
		return nil, validationError("days_between_rounds must be positive")
	}
	var startTime *string
	if st := trimmedOrNil(input.StartTime); st != nil {
		normalized, err := normalizeStartTime(*st)
		if err != nil {
			return nil, err
		}
		startTime = &normalized
	}

	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}

	var pairings []schedule.Pairing
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// The league lock serializes generators and team creation for the
		// league, so the teams and games read below cannot change until
		// commit.
		if _, err := s.leagueRepo.GetForUpdate(ctx, tx, leagueID); err != nil {
			return err
		}
		existing, err := s.gameRepo.List(ctx, repositories.GameFilter{LeagueID: &leagueID})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrScheduleExists
		}

		teams, err := s.teamRepo.ListByLeagueTx(ctx, tx, leagueID, false)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		teamIDs := make([]int, 0, len(teams))
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}
		sort.Ints(teamIDs)

		pairings, err = schedule.RoundRobin(teamIDs, input.Legs)
		if err != nil {
			if errors.Is(err, schedule.ErrNotEnoughTeams) || errors.Is(err, schedule.ErrInvalidLegs) {
				return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
			}
			return fmt.Errorf("failed to build schedule: %w", err)
		}

		for _, p := range pairings {
			game := &models.Game{
				LeagueID:   leagueID,
				DatePlayed: start.AddDate(0, 0, (p.Round-1)*input.DaysBetweenRounds),
				StartTime:  startTime,
				Location:   trimmedOrNil(input.Location),
			}
			if err := s.gameRepo.Create(ctx, tx, game); err != nil {
				return err
			}
			if err := s.gameRepo.SetTeams(ctx, tx, game.ID, p.HomeTeamID, p.AwayTeamID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueNotFound):
			return nil, ErrLeagueNotFound
		case errors.Is(err, ErrScheduleExists), errors.Is(err, ErrValidationFailed):
			return nil, err
		}
		return nil, fmt.Errorf("failed to generate schedule for league %d: %w", leagueID, mapGameRepoError(err))
	}

	s.logger.InfoContext(ctx, "league schedule generated",
		slog.Int("league_id", leagueID),
		slog.Int("games", len(pairings)),
		slog.Int("legs", input.Legs),
		slog.String("first_date", start.Format(time.DateOnly)))

	return s.ListLeagueGames(ctx, leagueID, false)
}
