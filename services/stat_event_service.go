package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/intramural-stats/live"
	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type StatEventService interface {
	RecordStat(ctx context.Context, gameID int, input CreateStatEventInput) (*models.StatEvent, error)
	UpdateStat(ctx context.Context, id int, input UpdateStatEventInput) (*models.StatEvent, error)
	DeleteStat(ctx context.Context, id int) error
	ListGameStats(ctx context.Context, gameID int) ([]*models.StatEvent, error)
	ListPlayerStats(ctx context.Context, playerID int) ([]*models.StatEvent, error)
	PlayerSummary(ctx context.Context, playerID int) ([]models.StatTotal, error)
	StatTypes() []models.StatTypeInfo
}

type CreateStatEventInput struct {
	PlayerID    int             `json:"player_id"`
	StatType    models.StatType `json:"stat_type"`
	Description *string         `json:"description"`
}

type UpdateStatEventInput struct {
	PlayerID    *int             `json:"player_id"`
	StatType    *models.StatType `json:"stat_type"`
	Description *string          `json:"description"`
}

type statEventService struct {
	statRepo   repositories.StatEventRepository
	gameRepo   repositories.GameRepository
	playerRepo repositories.PlayerRepository
	publisher  LivePublisher
	logger     *slog.Logger
}

func NewStatEventService(
	statRepo repositories.StatEventRepository,
	gameRepo repositories.GameRepository,
	playerRepo repositories.PlayerRepository,
	publisher LivePublisher,
	logger *slog.Logger,
) StatEventService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &statEventService{
		statRepo:   statRepo,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func normalizeStatType(t models.StatType) (models.StatType, error) {
	normalized := models.StatType(strings.ToLower(strings.TrimSpace(string(t))))
	if !normalized.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatType, t)
	}
	return normalized, nil
}

func (s *statEventService) loadGame(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	return game, nil
}

func (s *statEventService) checkPlayerInGame(ctx context.Context, gameID, playerID int) error {
	if playerID <= 0 {
		return validationError("player_id is required")
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	onTeam, err := s.gameRepo.IsPlayerOnGameTeam(ctx, gameID, playerID)
	if err != nil {
		return fmt.Errorf("failed to check player %d for game %d: %w", playerID, gameID, err)
	}
	if !onTeam {
		return ErrPlayerNotInGame
	}
	return nil
}

func (s *statEventService) RecordStat(ctx context.Context, gameID int, input CreateStatEventInput) (*models.StatEvent, error) {
	statType, err := normalizeStatType(input.StatType)
	if err != nil {
		return nil, err
	}
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlayerInGame(ctx, gameID, input.PlayerID); err != nil {
		return nil, err
	}

	event := &models.StatEvent{
		PerformedBy:  input.PlayerID,
		ScoredDuring: gameID,
		StatType:     statType,
		Points:       statType.Points(),
		Description:  trimmedOrNil(input.Description),
	}
	if err := s.statRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrStatEventInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to record stat for game %d: %w", gameID, err)
	}

	s.logger.InfoContext(ctx, "stat recorded",
		slog.Int("stat_id", event.ID), slog.Int("game_id", gameID), slog.String("stat_type", string(statType)))
	s.publisher.Publish(game.LeagueID, live.TypeStatEventCreated, event)
	return event, nil
}

func (s *statEventService) UpdateStat(ctx context.Context, id int, input UpdateStatEventInput) (*models.StatEvent, error) {
	if input.PlayerID == nil && input.StatType == nil && input.Description == nil {
		return nil, ErrNoFieldsToUpdate
	}
	event, err := s.statRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStatEventNotFound) {
			return nil, ErrStatEventNotFound
		}
		return nil, fmt.Errorf("failed to get stat event %d: %w", id, err)
	}

	if input.StatType != nil {
		statType, err := normalizeStatType(*input.StatType)
		if err != nil {
			return nil, err
		}
		event.StatType = statType
		event.Points = statType.Points()
	}
	if input.PlayerID != nil && *input.PlayerID != event.PerformedBy {
		if err := s.checkPlayerInGame(ctx, event.ScoredDuring, *input.PlayerID); err != nil {
			return nil, err
		}
		event.PerformedBy = *input.PlayerID
		event.PlayerName = nil
	}
	if input.Description != nil {
		event.Description = trimmedOrNil(input.Description)
	}

	if err := s.statRepo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStatEventNotFound):
			return nil, ErrStatEventNotFound
		case errors.Is(err, repositories.ErrStatEventInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update stat event %d: %w", id, err)
	}

	if game, err := s.loadGame(ctx, event.ScoredDuring); err == nil {
		s.publisher.Publish(game.LeagueID, live.TypeStatEventUpdated, event)
	}
	return event, nil
}

func (s *statEventService) DeleteStat(ctx context.Context, id int) error {
	event, err := s.statRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStatEventNotFound) {
			return ErrStatEventNotFound
		}
		return fmt.Errorf("failed to get stat event %d: %w", id, err)
	}
	if err := s.statRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrStatEventNotFound) {
			return ErrStatEventNotFound
		}
		return fmt.Errorf("failed to delete stat event %d: %w", id, err)
	}

	if game, err := s.loadGame(ctx, event.ScoredDuring); err == nil {
		s.publisher.Publish(game.LeagueID, live.TypeStatEventDeleted,
			map[string]int{"stat_id": id, "game_id": event.ScoredDuring})
	}
	return nil
}

func (s *statEventService) ListGameStats(ctx context.Context, gameID int) ([]*models.StatEvent, error) {
	if _, err := s.loadGame(ctx, gameID); err != nil {
		return nil, err
	}
	events, err := s.statRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats for game %d: %w", gameID, err)
	}
	return events, nil
}

func (s *statEventService) ensurePlayer(ctx context.Context, playerID int) error {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	return nil
}

func (s *statEventService) ListPlayerStats(ctx context.Context, playerID int) ([]*models.StatEvent, error) {
	if err := s.ensurePlayer(ctx, playerID); err != nil {
		return nil, err
	}
	events, err := s.statRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats for player %d: %w", playerID, err)
	}
	return events, nil
}

func (s *statEventService) PlayerSummary(ctx context.Context, playerID int) ([]models.StatTotal, error) {
	if err := s.ensurePlayer(ctx, playerID); err != nil {
		return nil, err
	}
	totals, err := s.statRepo.TotalsByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise stats for player %d: %w", playerID, err)
	}
	return totals, nil
}

func (s *statEventService) StatTypes() []models.StatTypeInfo {
	return models.StatCatalog()
}
