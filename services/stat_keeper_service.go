package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type StatKeeperService interface {
	CreateKeeper(ctx context.Context, input PersonInput) (*models.StatKeeper, error)
	GetKeeper(ctx context.Context, id int) (*models.StatKeeper, error)
	ListKeepers(ctx context.Context) ([]*models.StatKeeper, error)
	UpdateKeeper(ctx context.Context, id int, input UpdatePersonInput) (*models.StatKeeper, error)
	DeleteKeeper(ctx context.Context, id int) error
	AssignGame(ctx context.Context, keeperID, gameID int) error
	UnassignGame(ctx context.Context, keeperID, gameID int) error
	ListAssignedGames(ctx context.Context, keeperID int) ([]*models.Game, error)
}

type statKeeperService struct {
	keeperRepo repositories.StatKeeperRepository
	gameRepo   repositories.GameRepository
}

func NewStatKeeperService(keeperRepo repositories.StatKeeperRepository, gameRepo repositories.GameRepository) StatKeeperService {
	return &statKeeperService{keeperRepo: keeperRepo, gameRepo: gameRepo}
}

func mapKeeperRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrStatKeeperNotFound):
		return ErrStatKeeperNotFound
	case errors.Is(err, repositories.ErrStatKeeperEmailConflict):
		return ErrStatKeeperEmailConflict
	case errors.Is(err, repositories.ErrKeeperAssignmentExists):
		return ErrKeeperAssignmentExists
	case errors.Is(err, repositories.ErrKeeperAssignmentMissing):
		return ErrKeeperAssignmentNotFound
	case errors.Is(err, repositories.ErrKeeperAssignmentInvalid):
		return ErrNotFound
	}
	return err
}

func (s *statKeeperService) CreateKeeper(ctx context.Context, input PersonInput) (*models.StatKeeper, error) {
	keeper := &models.StatKeeper{FirstName: input.FirstName, LastName: input.LastName, Email: input.Email}
	if err := normalizePerson(&keeper.FirstName, &keeper.LastName, &keeper.Email); err != nil {
		return nil, err
	}
	if err := s.keeperRepo.Create(ctx, keeper); err != nil {
		if mapped := mapKeeperRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create stat keeper: %w", err)
	}
	return keeper, nil
}

func (s *statKeeperService) GetKeeper(ctx context.Context, id int) (*models.StatKeeper, error) {
	keeper, err := s.keeperRepo.GetByID(ctx, id)
	if err != nil {
		if mapped := mapKeeperRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to get stat keeper %d: %w", id, err)
	}
	return keeper, nil
}

func (s *statKeeperService) ListKeepers(ctx context.Context) ([]*models.StatKeeper, error) {
	keepers, err := s.keeperRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stat keepers: %w", err)
	}
	return keepers, nil
}

func (s *statKeeperService) UpdateKeeper(ctx context.Context, id int, input UpdatePersonInput) (*models.StatKeeper, error) {
	if input.empty() {
		return nil, ErrNoFieldsToUpdate
	}
	keeper, err := s.GetKeeper(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		keeper.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		keeper.LastName = *input.LastName
	}
	if input.Email != nil {
		keeper.Email = *input.Email
	}
	if err := normalizePerson(&keeper.FirstName, &keeper.LastName, &keeper.Email); err != nil {
		return nil, err
	}
	if err := s.keeperRepo.Update(ctx, keeper); err != nil {
		if mapped := mapKeeperRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update stat keeper %d: %w", id, err)
	}
	return keeper, nil
}

func (s *statKeeperService) DeleteKeeper(ctx context.Context, id int) error {
	if err := s.keeperRepo.Delete(ctx, id); err != nil {
		if mapped := mapKeeperRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to delete stat keeper %d: %w", id, err)
	}
	return nil
}

func (s *statKeeperService) AssignGame(ctx context.Context, keeperID, gameID int) error {
	if _, err := s.GetKeeper(ctx, keeperID); err != nil {
		return err
	}
	if _, err := s.gameRepo.GetByID(ctx, nil, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	if err := s.keeperRepo.AssignGame(ctx, keeperID, gameID); err != nil {
		if mapped := mapKeeperRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to assign stat keeper %d to game %d: %w", keeperID, gameID, err)
	}
	return nil
}

func (s *statKeeperService) UnassignGame(ctx context.Context, keeperID, gameID int) error {
	if err := s.keeperRepo.UnassignGame(ctx, keeperID, gameID); err != nil {
		if mapped := mapKeeperRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to unassign stat keeper %d from game %d: %w", keeperID, gameID, err)
	}
	return nil
}

func (s *statKeeperService) ListAssignedGames(ctx context.Context, keeperID int) ([]*models.Game, error) {
	if _, err := s.GetKeeper(ctx, keeperID); err != nil {
		return nil, err
	}
	games, err := s.gameRepo.List(ctx, repositories.GameFilter{KeeperID: &keeperID})
	if err != nil {
		return nil, fmt.Errorf("failed to list games for stat keeper %d: %w", keeperID, err)
	}
	return games, nil
}
