package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
	"github.com/Dosada05/intramural-stats/storage"
)

var allowedLogoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListLeagueTeams(ctx context.Context, leagueID int) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error

	AddPlayer(ctx context.Context, teamID, playerID int, role models.TeamRole) error
	RemovePlayer(ctx context.Context, teamID, playerID int) error
	ListRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error)

	UploadLogo(ctx context.Context, teamID int, contentType string, body io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	LeagueID int    `json:"league_id"`
	Name     string `json:"name"`
}

type UpdateTeamInput struct {
	Name *string `json:"name"`
}

type AddPlayerInput struct {
	Role models.TeamRole `json:"role"`
}

type teamService struct {
	db         *sql.DB
	teamRepo   repositories.TeamRepository
	leagueRepo repositories.LeagueRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	leagueRepo repositories.LeagueRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &teamService{
		db:         db,
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func mapTeamRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamLeagueInvalid):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrTeamInUse
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrRosterConflict):
		return ErrRosterConflict
	case errors.Is(err, repositories.ErrRosterEntryNotFound):
		return ErrRosterEntryNotFound
	}
	return err
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("team name is required")
	}
	if input.LeagueID <= 0 {
		return nil, validationError("league_id is required")
	}

	team := &models.Team{LeagueID: input.LeagueID, Name: name}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		league, err := s.leagueRepo.GetForUpdate(ctx, tx, input.LeagueID)
		if err != nil {
			return err
		}
		count, err := s.leagueRepo.CountTeams(ctx, tx, league.ID)
		if err != nil {
			return err
		}
		if count >= league.MaxTeams {
			return ErrLeagueFull
		}
		return s.teamRepo.Create(ctx, tx, team)
	})
	if err != nil {
		mapped := mapTeamRepoError(err)
		if mapped != err || errors.Is(err, ErrLeagueFull) {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListLeagueTeams(ctx context.Context, leagueID int) ([]*models.Team, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for league %d: %w", leagueID, err)
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	if input.Name == nil {
		return nil, ErrNoFieldsToUpdate
	}
	name := strings.TrimSpace(*input.Name)
	if name == "" {
		return nil, validationError("team name is required")
	}
	if err := s.teamRepo.UpdateName(ctx, id, name); err != nil {
		if mapped := mapTeamRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update team %d: %w", id, err)
	}
	return s.GetTeam(ctx, id)
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return mapTeamRepoError(err)
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if mapped := mapTeamRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	s.deleteLogo(ctx, team.LogoKey)
	return nil
}

func (s *teamService) AddPlayer(ctx context.Context, teamID, playerID int, role models.TeamRole) error {
	if role == "" {
		role = models.TeamRolePlayer
	}
	if !role.Valid() {
		return ErrInvalidTeamRole
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return mapTeamRepoError(err)
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	if err := s.teamRepo.AddMember(ctx, teamID, playerID, role); err != nil {
		if mapped := mapTeamRepoError(err); mapped != err {
			return mapped
		}
		if errors.Is(err, repositories.ErrRosterInvalid) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add player %d to team %d: %w", playerID, teamID, err)
	}
	return nil
}

func (s *teamService) RemovePlayer(ctx context.Context, teamID, playerID int) error {
	if err := s.teamRepo.RemoveMember(ctx, teamID, playerID); err != nil {
		if mapped := mapTeamRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to remove player %d from team %d: %w", playerID, teamID, err)
	}
	return nil
}

func (s *teamService) ListRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, mapTeamRepoError(err)
	}
	roster, err := s.teamRepo.ListRoster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for team %d: %w", teamID, err)
	}
	return roster, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, body io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	ext, ok := allowedLogoTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, validationError("logo must be a png, jpeg, webp or gif image")
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}
	oldKey := team.LogoKey

	key := fmt.Sprintf("logos/teams/%d/%s%s", teamID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		s.deleteLogo(ctx, &key)
		return nil, fmt.Errorf("failed to save logo for team %d: %w", teamID, mapTeamRepoError(err))
	}
	s.deleteLogo(ctx, oldKey)

	team.LogoKey = &key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

// deleteLogo removes a stored object; failures only leave an orphan behind.
func (s *teamService) deleteLogo(ctx context.Context, key *string) {
	if s.uploader == nil || key == nil || *key == "" {
		return
	}
	if err := s.uploader.Delete(ctx, *key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete team logo", slog.String("key", *key), slog.Any("error", err))
	}
}
