package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

var validSemesters = map[string]bool{
	"fall": true, "spring": true, "summer": true, "winter": true,
}

type LeagueService interface {
	CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error)
	GetLeague(ctx context.Context, id int) (*models.League, error)
	ListLeagues(ctx context.Context, sportID *int) ([]*models.League, error)
	UpdateLeague(ctx context.Context, id int, input UpdateLeagueInput) (*models.League, error)
	DeleteLeague(ctx context.Context, id int) error
	SetChampion(ctx context.Context, leagueID, teamID int) (*models.Champion, error)
	GetChampion(ctx context.Context, leagueID int) (*models.Champion, error)
}

type CreateLeagueInput struct {
	SportID  int    `json:"sport_id"`
	Name     string `json:"name"`
	Semester string `json:"semester"`
	Year     int    `json:"year"`
	MaxTeams int    `json:"max_teams"`
}

type UpdateLeagueInput struct {
	SportID  *int    `json:"sport_id"`
	Name     *string `json:"name"`
	Semester *string `json:"semester"`
	Year     *int    `json:"year"`
	MaxTeams *int    `json:"max_teams"`
}

type SetChampionInput struct {
	TeamID int `json:"team_id"`
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	sportRepo  repositories.SportRepository
	teamRepo   repositories.TeamRepository
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	sportRepo repositories.SportRepository,
	teamRepo repositories.TeamRepository,
) LeagueService {
	return &leagueService{leagueRepo: leagueRepo, sportRepo: sportRepo, teamRepo: teamRepo}
}

func validateLeague(l *models.League) error {
	var problems []string
	if l.SportID <= 0 {
		problems = append(problems, "sport_id is required")
	}
	if l.Name == "" {
		problems = append(problems, "name is required")
	}
	if !validSemesters[l.Semester] {
		problems = append(problems, "semester must be one of fall, spring, summer, winter")
	}
	if l.Year <= 1900 || l.Year > 9999 {
		problems = append(problems, "year is out of range")
	}
	if l.MaxTeams <= 0 {
		problems = append(problems, "max_teams must be positive")
	}
	if len(problems) > 0 {
		return validationError(strings.Join(problems, "; "))
	}
	return nil
}

func mapLeagueRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrLeagueSportInvalid):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrLeagueInUse):
		return ErrLeagueInUse
	}
	return err
}

func (s *leagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error) {
	league := &models.League{
		SportID:  input.SportID,
		Name:     strings.TrimSpace(input.Name),
		Semester: strings.ToLower(strings.TrimSpace(input.Semester)),
		Year:     input.Year,
		MaxTeams: input.MaxTeams,
	}
	if err := validateLeague(league); err != nil {
		return nil, err
	}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		if mapped := mapLeagueRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return league, nil
}

func (s *leagueService) GetLeague(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}
	if sport, err := s.sportRepo.GetByID(ctx, league.SportID); err == nil {
		league.Sport = sport
	}
	return league, nil
}

func (s *leagueService) ListLeagues(ctx context.Context, sportID *int) ([]*models.League, error) {
	leagues, err := s.leagueRepo.List(ctx, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

func (s *leagueService) UpdateLeague(ctx context.Context, id int, input UpdateLeagueInput) (*models.League, error) {
	if input.SportID == nil && input.Name == nil && input.Semester == nil && input.Year == nil && input.MaxTeams == nil {
		return nil, ErrNoFieldsToUpdate
	}

	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}

	if input.SportID != nil {
		league.SportID = *input.SportID
	}
	if input.Name != nil {
		league.Name = strings.TrimSpace(*input.Name)
	}
	if input.Semester != nil {
		league.Semester = strings.ToLower(strings.TrimSpace(*input.Semester))
	}
	if input.Year != nil {
		league.Year = *input.Year
	}
	if input.MaxTeams != nil {
		league.MaxTeams = *input.MaxTeams
	}
	if err := validateLeague(league); err != nil {
		return nil, err
	}

	if input.MaxTeams != nil {
		count, err := s.leagueRepo.CountTeams(ctx, nil, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count teams in league %d: %w", id, err)
		}
		if count > league.MaxTeams {
			return nil, validationError(fmt.Sprintf("max_teams cannot be below the current %d teams", count))
		}
	}

	if err := s.leagueRepo.Update(ctx, league); err != nil {
		if mapped := mapLeagueRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update league %d: %w", id, err)
	}
	return league, nil
}

func (s *leagueService) DeleteLeague(ctx context.Context, id int) error {
	if err := s.leagueRepo.Delete(ctx, id); err != nil {
		if mapped := mapLeagueRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to delete league %d: %w", id, err)
	}
	return nil
}

func (s *leagueService) SetChampion(ctx context.Context, leagueID, teamID int) (*models.Champion, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.LeagueID != leagueID {
		return nil, ErrTeamNotInLeague
	}

	champion, err := s.leagueRepo.SetChampion(ctx, leagueID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to set champion for league %d: %w", leagueID, err)
	}
	champion.Team = team
	return champion, nil
}

func (s *leagueService) GetChampion(ctx context.Context, leagueID int) (*models.Champion, error) {
	champion, err := s.leagueRepo.GetChampion(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionNotFound) {
			return nil, ErrChampionNotFound
		}
		return nil, fmt.Errorf("failed to get champion for league %d: %w", leagueID, err)
	}
	return champion, nil
}
