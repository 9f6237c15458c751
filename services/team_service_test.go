package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
	"github.com/Dosada05/intramural-stats/storage"
)

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team.ID = 1000 + len(r.teams)
	c := *team
	r.teams[team.ID] = &c
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if _, err := io.ReadAll(reader); err != nil {
		return nil, err
	}
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.edu/" + key
}

func TestCreateTeamLeagueFull(t *testing.T) {
	db, mock := newMockDB(t)
	leagues := newFakeLeagueRepo(&models.League{ID: 1, MaxTeams: 2})
	leagues.teams[1] = 2
	teams := newFakeTeamRepo()
	svc := NewTeamService(db, teams, leagues, nil, nil, discardLogger())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CreateTeam(context.Background(), CreateTeamInput{LeagueID: 1, Name: "Hawks"})
	if !errors.Is(err, ErrLeagueFull) {
		t.Fatalf("got %v, want ErrLeagueFull", err)
	}
	if len(teams.teams) != 0 {
		t.Fatal("team created in a full league")
	}
}

func TestCreateTeam(t *testing.T) {
	db, mock := newMockDB(t)
	leagues := newFakeLeagueRepo(&models.League{ID: 1, MaxTeams: 8})
	leagues.teams[1] = 3
	svc := NewTeamService(db, newFakeTeamRepo(), leagues, nil, nil, discardLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{LeagueID: 1, Name: "  Hawks "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if team.Name != "Hawks" || team.ID == 0 {
		t.Fatalf("team = %+v", team)
	}
}

func TestCreateTeamValidationSkipsTransaction(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewTeamService(db, newFakeTeamRepo(), newFakeLeagueRepo(), nil, nil, discardLogger())

	for _, input := range []CreateTeamInput{{LeagueID: 1}, {Name: "Hawks"}} {
		if _, err := svc.CreateTeam(context.Background(), input); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("%+v: got %v", input, err)
		}
	}
}

func TestUploadLogo(t *testing.T) {
	ctx := context.Background()
	oldKey := "logos/teams/4/old.png"
	teams := newFakeTeamRepo(&models.Team{ID: 4, LeagueID: 1, Name: "Hawks", LogoKey: &oldKey})

	disabled := NewTeamService(nil, teams, nil, nil, nil, discardLogger())
	if _, err := disabled.UploadLogo(ctx, 4, "image/png", strings.NewReader("png")); !errors.Is(err, ErrStorageDisabled) {
		t.Fatalf("got %v, want ErrStorageDisabled", err)
	}

	uploader := &fakeUploader{}
	svc := NewTeamService(nil, teams, nil, nil, uploader, discardLogger())
	if _, err := svc.UploadLogo(ctx, 4, "text/plain", strings.NewReader("hi")); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("got %v, want ErrValidationFailed", err)
	}

	team, err := svc.UploadLogo(ctx, 4, "image/PNG", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(uploader.uploaded) != 1 || !strings.HasPrefix(uploader.uploaded[0], "logos/teams/4/") {
		t.Fatalf("uploaded %v", uploader.uploaded)
	}
	if len(uploader.deleted) != 1 || uploader.deleted[0] != oldKey {
		t.Fatalf("deleted %v, want the previous logo", uploader.deleted)
	}
	if team.LogoURL == nil || !strings.HasSuffix(*team.LogoURL, uploader.uploaded[0]) {
		t.Fatalf("logo url = %v", team.LogoURL)
	}
}

func TestAddPlayerRejectsUnknownRole(t *testing.T) {
	svc := NewTeamService(nil, newFakeTeamRepo(), nil, nil, nil, discardLogger())
	if err := svc.AddPlayer(context.Background(), 1, 2, "coach"); !errors.Is(err, ErrInvalidTeamRole) {
		t.Fatalf("got %v, want ErrInvalidTeamRole", err)
	}
}
