package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

const maxSportNameLength = 100

var (
	ErrSportNameRequired = errors.New("sport name is required")
	ErrSportNameConflict = errors.New("sport name already exists")
	ErrSportInUse        = errors.New("sport cannot be deleted while leagues use it")
	ErrSportNotFound     = errors.New("sport not found")
)

type SportService interface {
	CreateSport(ctx context.Context, input SportInput) (*models.Sport, error)
	GetSportByID(ctx context.Context, id int) (*models.Sport, error)
	GetAllSports(ctx context.Context) ([]models.Sport, error)
	UpdateSport(ctx context.Context, id int, input SportInput) (*models.Sport, error)
	DeleteSport(ctx context.Context, id int) error
}

type SportInput struct {
	Name string `json:"name"`
}

type sportService struct {
	sportRepo repositories.SportRepository
	logger    *slog.Logger
}

func NewSportService(sportRepo repositories.SportRepository, logger *slog.Logger) SportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sportService{sportRepo: sportRepo, logger: logger}
}

// sportName collapses inner whitespace so "Ultimate  Frisbee" and
// "Ultimate Frisbee" hit the same unique index.
func sportName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", ErrSportNameRequired
	}
	if len(name) > maxSportNameLength {
		return "", validationError(fmt.Sprintf("sport name must be at most %d characters", maxSportNameLength))
	}
	return name, nil
}

func mapSportRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSportNotFound):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrSportNameConflict):
		return ErrSportNameConflict
	case errors.Is(err, repositories.ErrSportInUse):
		return ErrSportInUse
	}
	return err
}

func (s *sportService) CreateSport(ctx context.Context, input SportInput) (*models.Sport, error) {
	name, err := sportName(input.Name)
	if err != nil {
		return nil, err
	}

	sport := &models.Sport{Name: name}
	if err := s.sportRepo.Create(ctx, sport); err != nil {
		if mapped := mapSportRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create sport %q: %w", name, err)
	}
	s.logger.InfoContext(ctx, "sport created", slog.Int("sport_id", sport.ID), slog.String("name", name))
	return sport, nil
}

func (s *sportService) GetSportByID(ctx context.Context, id int) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if mapped := mapSportRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to get sport %d: %w", id, err)
	}
	return sport, nil
}

func (s *sportService) GetAllSports(ctx context.Context) ([]models.Sport, error) {
	sports, err := s.sportRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sports: %w", err)
	}
	return sports, nil
}

func (s *sportService) UpdateSport(ctx context.Context, id int, input SportInput) (*models.Sport, error) {
	name, err := sportName(input.Name)
	if err != nil {
		return nil, err
	}

	sport := &models.Sport{ID: id, Name: name}
	if err := s.sportRepo.Update(ctx, sport); err != nil {
		if mapped := mapSportRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update sport %d: %w", id, err)
	}
	return sport, nil
}

// DeleteSport refuses while any league still references the sport.
func (s *sportService) DeleteSport(ctx context.Context, id int) error {
	if err := s.sportRepo.Delete(ctx, id); err != nil {
		if mapped := mapSportRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to delete sport %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "sport deleted", slog.Int("sport_id", id))
	return nil
}
