package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type AwardService interface {
	CreateAward(ctx context.Context, input CreateAwardInput) (*models.Award, error)
	GetAward(ctx context.Context, id int) (*models.Award, error)
	ListLeagueAwards(ctx context.Context, leagueID int) ([]*models.Award, error)
	UpdateAward(ctx context.Context, id int, input UpdateAwardInput) (*models.Award, error)
	DeleteAward(ctx context.Context, id int) error
}

type CreateAwardInput struct {
	LeagueID    int     `json:"league_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PlayerID    *int    `json:"player_id"`
	TeamID      *int    `json:"team_id"`
}

// UpdateAwardInput uses NullableInt so a recipient can be cleared with an
// explicit null.
type UpdateAwardInput struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	PlayerID    models.NullableInt `json:"player_id"`
	TeamID      models.NullableInt `json:"team_id"`
}

type awardService struct {
	awardRepo  repositories.AwardRepository
	leagueRepo repositories.LeagueRepository
	teamRepo   repositories.TeamRepository
}

func NewAwardService(
	awardRepo repositories.AwardRepository,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
) AwardService {
	return &awardService{awardRepo: awardRepo, leagueRepo: leagueRepo, teamRepo: teamRepo}
}

func (s *awardService) checkRecipients(ctx context.Context, award *models.Award) error {
	if award.PlayerID != nil && award.TeamID != nil {
		return validationError("an award goes to a player or a team, not both")
	}
	if award.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *award.TeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to get team %d: %w", *award.TeamID, err)
		}
		if team.LeagueID != award.LeagueID {
			return ErrTeamNotInLeague
		}
	}
	return nil
}

func (s *awardService) CreateAward(ctx context.Context, input CreateAwardInput) (*models.Award, error) {
	award := &models.Award{
		LeagueID:    input.LeagueID,
		Name:        strings.TrimSpace(input.Name),
		Description: trimmedOrNil(input.Description),
		PlayerID:    input.PlayerID,
		TeamID:      input.TeamID,
	}
	if award.Name == "" {
		return nil, validationError("award name is required")
	}
	if _, err := s.leagueRepo.GetByID(ctx, award.LeagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", award.LeagueID, err)
	}
	if err := s.checkRecipients(ctx, award); err != nil {
		return nil, err
	}

	if err := s.awardRepo.Create(ctx, award); err != nil {
		if errors.Is(err, repositories.ErrAwardInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to create award: %w", err)
	}
	return award, nil
}

func (s *awardService) GetAward(ctx context.Context, id int) (*models.Award, error) {
	award, err := s.awardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAwardNotFound) {
			return nil, ErrAwardNotFound
		}
		return nil, fmt.Errorf("failed to get award %d: %w", id, err)
	}
	return award, nil
}

func (s *awardService) ListLeagueAwards(ctx context.Context, leagueID int) ([]*models.Award, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}
	awards, err := s.awardRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards for league %d: %w", leagueID, err)
	}
	return awards, nil
}

func (s *awardService) UpdateAward(ctx context.Context, id int, input UpdateAwardInput) (*models.Award, error) {
	if input.Name == nil && input.Description == nil && !input.PlayerID.Set && !input.TeamID.Set {
		return nil, ErrNoFieldsToUpdate
	}
	award, err := s.GetAward(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		award.Name = strings.TrimSpace(*input.Name)
		if award.Name == "" {
			return nil, validationError("award name is required")
		}
	}
	if input.Description != nil {
		award.Description = trimmedOrNil(input.Description)
	}
	if input.PlayerID.Set {
		award.PlayerID = input.PlayerID.Value
	}
	if input.TeamID.Set {
		award.TeamID = input.TeamID.Value
	}
	if err := s.checkRecipients(ctx, award); err != nil {
		return nil, err
	}

	if err := s.awardRepo.Update(ctx, award); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAwardNotFound):
			return nil, ErrAwardNotFound
		case errors.Is(err, repositories.ErrAwardInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update award %d: %w", id, err)
	}
	return award, nil
}

func (s *awardService) DeleteAward(ctx context.Context, id int) error {
	if err := s.awardRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrAwardNotFound) {
			return ErrAwardNotFound
		}
		return fmt.Errorf("failed to delete award %d: %w", id, err)
	}
	return nil
}
