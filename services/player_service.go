package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, input PersonInput) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePersonInput) (*models.Player, error)
	ListPlayerTeams(ctx context.Context, playerID int) ([]models.PlayerTeam, error)
	ListPlayers(ctx context.Context) ([]*models.Player, error)
	// DeletePlayer also removes the player's roster entries, lineups and
	// stat events.
	DeletePlayer(ctx context.Context, id int) error
}

// PersonInput is shared by players and stat keepers.
type PersonInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type UpdatePersonInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

func (in UpdatePersonInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Email == nil
}

// normalizePerson trims the fields in place and validates them.
func normalizePerson(first, last, email *string) error {
	*first = strings.TrimSpace(*first)
	*last = strings.TrimSpace(*last)
	*email = strings.ToLower(strings.TrimSpace(*email))

	var problems []string
	if *first == "" {
		problems = append(problems, "first_name is required")
	}
	if *last == "" {
		problems = append(problems, "last_name is required")
	}
	if addr, err := mail.ParseAddress(*email); err != nil || addr.Address != *email {
		problems = append(problems, "email must be a valid address")
	}
	if len(problems) > 0 {
		return validationError(strings.Join(problems, "; "))
	}
	return nil
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) PlayerService {
	return &playerService{playerRepo: playerRepo, teamRepo: teamRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, input PersonInput) (*models.Player, error) {
	player := &models.Player{FirstName: input.FirstName, LastName: input.LastName, Email: input.Email}
	if err := normalizePerson(&player.FirstName, &player.LastName, &player.Email); err != nil {
		return nil, err
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, ErrPlayerEmailConflict
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePersonInput) (*models.Player, error) {
	if input.empty() {
		return nil, ErrNoFieldsToUpdate
	}
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		player.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		player.LastName = *input.LastName
	}
	if input.Email != nil {
		player.Email = *input.Email
	}
	if err := normalizePerson(&player.FirstName, &player.LastName, &player.Email); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerEmailConflict):
			return nil, ErrPlayerEmailConflict
		}
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) ListPlayerTeams(ctx context.Context, playerID int) ([]models.PlayerTeam, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for player %d: %w", playerID, err)
	}
	return teams, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return nil
}
