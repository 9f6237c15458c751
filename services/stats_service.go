package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type StatsService interface {
	Standings(ctx context.Context, leagueID int) ([]models.TeamStanding, error)
	HomeAwaySplits(ctx context.Context, teamID int) (*models.HomeAwaySplits, error)
	HeadToHead(ctx context.Context, teamID, opponentID int) (*models.HeadToHead, error)
	LeagueComparison(ctx context.Context, teamID int) (*models.LeagueComparison, error)
	PerformanceSeries(ctx context.Context, teamID int) ([]models.PerformancePoint, error)
}

type statsService struct {
	statsRepo  repositories.StatsRepository
	teamRepo   repositories.TeamRepository
	leagueRepo repositories.LeagueRepository
	now        Clock
}

func NewStatsService(
	statsRepo repositories.StatsRepository,
	teamRepo repositories.TeamRepository,
	leagueRepo repositories.LeagueRepository,
	clock Clock,
) StatsService {
	if clock == nil {
		clock = systemClock
	}
	return &statsService{
		statsRepo:  statsRepo,
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		now:        clock,
	}
}

func (s *statsService) loadTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *statsService) Standings(ctx context.Context, leagueID int) ([]models.TeamStanding, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}

	rows, err := s.statsRepo.StandingRows(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for league %d: %w", leagueID, err)
	}
	return rows, nil
}

func (s *statsService) HomeAwaySplits(ctx context.Context, teamID int) (*models.HomeAwaySplits, error) {
	if _, err := s.loadTeam(ctx, teamID); err != nil {
		return nil, err
	}
	splits, err := s.statsRepo.HomeAwaySplits(ctx, teamID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load splits for team %d: %w", teamID, err)
	}
	return splits, nil
}

func (s *statsService) HeadToHead(ctx context.Context, teamID, opponentID int) (*models.HeadToHead, error) {
	if teamID == opponentID {
		return nil, ErrSameTeam
	}
	if _, err := s.loadTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.loadTeam(ctx, opponentID); err != nil {
		return nil, err
	}
	h2h, err := s.statsRepo.HeadToHead(ctx, teamID, opponentID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load head-to-head %d vs %d: %w", teamID, opponentID, err)
	}
	return h2h, nil
}

func (s *statsService) LeagueComparison(ctx context.Context, teamID int) (*models.LeagueComparison, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	cmp := &models.LeagueComparison{TeamID: teamID, LeagueID: team.LeagueID}
	today := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scored, allowed, err := s.statsRepo.TeamAverages(gctx, teamID, today)
		if err != nil {
			return fmt.Errorf("team averages: %w", err)
		}
		cmp.TeamAvgPointsScored, cmp.TeamAvgPointsAllowed = scored, allowed
		return nil
	})
	g.Go(func() error {
		avg, err := s.statsRepo.LeagueAveragePoints(gctx, team.LeagueID, today)
		if err != nil {
			return fmt.Errorf("league average: %w", err)
		}
		cmp.LeagueAvgPointsPerTeamGame = avg
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compare team %d with its league: %w", teamID, err)
	}
	return cmp, nil
}

func (s *statsService) PerformanceSeries(ctx context.Context, teamID int) ([]models.PerformancePoint, error) {
	if _, err := s.loadTeam(ctx, teamID); err != nil {
		return nil, err
	}
	series, err := s.statsRepo.PerformanceSeries(ctx, teamID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load performance for team %d: %w", teamID, err)
	}
	for i := range series {
		series[i].Result = ResultFor(series[i].PointsScored, series[i].PointsAllowed)
	}
	return series, nil
}
