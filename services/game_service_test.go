package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Dosada05/intramural-stats/live"
	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type gameFixture struct {
	svc     GameService
	mock    sqlmock.Sqlmock
	games   *fakeGameRepo
	teams   *fakeTeamRepo
	leagues *fakeLeagueRepo
	pub     *fakePublisher
}

func newGameFixture(t *testing.T, games []*models.Game, teams ...*models.Team) *gameFixture {
	t.Helper()
	db, mock := newMockDB(t)
	f := &gameFixture{
		mock:  mock,
		games: newFakeGameRepo(games...),
		teams: newFakeTeamRepo(teams...),
		pub:   &fakePublisher{},
	}
	f.leagues = newFakeLeagueRepo(&models.League{ID: 1, Name: "Fall Basketball", MaxTeams: 8})
	f.svc = NewGameService(db, f.games, f.teams, f.leagues, f.pub, nil, discardLogger(), fixedClock)
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("sql expectations: %v", err)
		}
	})
	return f
}

func scoredGame(id int, home, away *int, homeTeam, awayTeam *int) *models.Game {
	return &models.Game{
		ID: id, LeagueID: 1, DatePlayed: testNow.AddDate(0, 0, -1),
		HomeScore: home, AwayScore: away, HomeTeamID: homeTeam, AwayTeamID: awayTeam,
	}
}

func scores(home, away *int) UpdateGameInput {
	return UpdateGameInput{
		HomeScore: models.NullableInt{Set: true, Value: home},
		AwayScore: models.NullableInt{Set: true, Value: away},
	}
}

func assertRecord(t *testing.T, teams *fakeTeamRepo, id, wantWins, wantLosses int) {
	t.Helper()
	w, l := teams.record(id)
	if w != wantWins || l != wantLosses {
		t.Fatalf("team %d record = %d-%d, want %d-%d", id, w, l, wantWins, wantLosses)
	}
}

func TestUpdateGameScoreFlip(t *testing.T) {
	a := &models.Team{ID: 1, LeagueID: 1, Name: "A"}
	b := &models.Team{ID: 2, LeagueID: 1, Name: "B"}
	f := newGameFixture(t, []*models.Game{scoredGame(10, nil, nil, ip(1), ip(2))}, a, b)
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(ctx, 10, scores(ip(20), ip(15))); err != nil {
		t.Fatalf("first update: %v", err)
	}
	assertRecord(t, f.teams, 1, 1, 0)
	assertRecord(t, f.teams, 2, 0, 1)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(ctx, 10, scores(ip(15), ip(20))); err != nil {
		t.Fatalf("second update: %v", err)
	}
	assertRecord(t, f.teams, 1, 0, 1)
	assertRecord(t, f.teams, 2, 1, 0)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(ctx, 10, scores(ip(15), ip(20))); err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	assertRecord(t, f.teams, 1, 0, 1)
	assertRecord(t, f.teams, 2, 1, 0)

	got := f.pub.types()
	if len(got) != 3 || got[0] != live.TypeGameUpdated {
		t.Fatalf("published %v", got)
	}
}

func TestUpdateGameTieLeavesRecords(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{scoredGame(10, nil, nil, ip(1), ip(2))},
		&models.Team{ID: 1, LeagueID: 1, Wins: 2}, &models.Team{ID: 2, LeagueID: 1, Losses: 2})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(context.Background(), 10, scores(ip(3), ip(3))); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.teams.adjustCalls) != 0 {
		t.Fatalf("tie adjusted records: %+v", f.teams.adjustCalls)
	}
	assertRecord(t, f.teams, 1, 2, 0)
	assertRecord(t, f.teams, 2, 0, 2)
}

func TestUpdateGameWithoutTeamsStoresScore(t *testing.T) {
	f := newGameFixture(t, []*models.Game{scoredGame(10, nil, nil, nil, nil)})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(context.Background(), 10, scores(ip(4), ip(1))); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.teams.adjustCalls) != 0 {
		t.Fatalf("records adjusted without teams: %+v", f.teams.adjustCalls)
	}
	g, _ := f.games.GetByID(context.Background(), nil, 10)
	if g.HomeScore == nil || *g.HomeScore != 4 || g.AwayScore == nil || *g.AwayScore != 1 {
		t.Fatalf("scores not stored: %+v", g)
	}
}

func TestUpdateGameRollsBackWhenRecordsDesync(t *testing.T) {
	// The game was counted as a home win but team 1 has no wins left to take.
	f := newGameFixture(t,
		[]*models.Game{scoredGame(10, ip(10), ip(5), ip(1), ip(2))},
		&models.Team{ID: 1, LeagueID: 1}, &models.Team{ID: 2, LeagueID: 1, Losses: 1})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	err := f.svc.UpdateGame(context.Background(), 10, scores(ip(5), ip(10)))
	if !errors.Is(err, ErrRecordDesync) {
		t.Fatalf("expected ErrRecordDesync, got %v", err)
	}
	if len(f.pub.types()) != 0 {
		t.Fatalf("rolled back update was published")
	}
}

func TestUpdateGameRollsBackOnCounterFailure(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{scoredGame(10, nil, nil, ip(1), ip(2))},
		&models.Team{ID: 1, LeagueID: 1}, &models.Team{ID: 2, LeagueID: 1})
	f.teams.failOn[2] = errors.New("deadlock detected")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	err := f.svc.UpdateGame(context.Background(), 10, scores(ip(2), ip(1)))
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrRecordDesync) {
		t.Fatalf("a driver failure is not a desync: %v", err)
	}
}

func TestUpdateGameValidation(t *testing.T) {
	f := newGameFixture(t, []*models.Game{scoredGame(10, nil, nil, ip(1), ip(2))})
	ctx := context.Background()

	if err := f.svc.UpdateGame(ctx, 10, UpdateGameInput{}); !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Fatalf("empty update: got %v", err)
	}
	if err := f.svc.UpdateGame(ctx, 10, scores(ip(-1), ip(2))); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("negative score: got %v", err)
	}
	bad := "2026-13-40"
	if err := f.svc.UpdateGame(ctx, 10, UpdateGameInput{DatePlayed: &bad}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date: got %v", err)
	}
	badTime := "25:99"
	if err := f.svc.UpdateGame(ctx, 10, UpdateGameInput{StartTime: &badTime}); !errors.Is(err, ErrInvalidStartTime) {
		t.Fatalf("bad time: got %v", err)
	}
}

func TestUpdateGameNotFound(t *testing.T) {
	f := newGameFixture(t, nil)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	err := f.svc.UpdateGame(context.Background(), 99, scores(ip(1), ip(0)))
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestUpdateGameNonScoreFieldKeepsRecords(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{scoredGame(10, ip(3), ip(1), ip(1), ip(2))},
		&models.Team{ID: 1, LeagueID: 1, Wins: 1}, &models.Team{ID: 2, LeagueID: 1, Losses: 1})
	loc := "  North Gym "

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(context.Background(), 10, UpdateGameInput{Location: &loc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.teams.adjustCalls) != 0 {
		t.Fatalf("records adjusted for a location change")
	}
	g, _ := f.games.GetByID(context.Background(), nil, 10)
	if g.Location == nil || *g.Location != "North Gym" {
		t.Fatalf("location = %v", g.Location)
	}
}

func TestUpdateGameClearingScoresReversesResult(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{scoredGame(10, ip(3), ip(1), ip(1), ip(2))},
		&models.Team{ID: 1, LeagueID: 1, Wins: 1}, &models.Team{ID: 2, LeagueID: 1, Losses: 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.UpdateGame(context.Background(), 10, scores(nil, nil)); err != nil {
		t.Fatalf("update: %v", err)
	}
	assertRecord(t, f.teams, 1, 0, 0)
	assertRecord(t, f.teams, 2, 0, 0)
}

func TestUpdateGameClearingOneScoreMatchesGameLog(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{
			scoredGame(10, ip(3), ip(1), ip(1), ip(2)),
			scoredGame(11, ip(8), ip(4), ip(2), ip(1)),
		},
		&models.Team{ID: 1, LeagueID: 1, Wins: 1, Losses: 1}, &models.Team{ID: 2, LeagueID: 1, Wins: 1, Losses: 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	in := UpdateGameInput{AwayScore: models.NullableInt{Set: true}}
	if err := f.svc.UpdateGame(context.Background(), 10, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	game, _ := f.games.GetByID(context.Background(), nil, 10)
	if game.HomeScore == nil || *game.HomeScore != 3 || game.AwayScore != nil {
		t.Fatalf("stored scores = %v, %v", game.HomeScore, game.AwayScore)
	}
	assertRecord(t, f.teams, 1, 0, 1)
	assertRecord(t, f.teams, 2, 1, 0)

	games, _ := f.games.List(context.Background(), repositories.GameFilter{})
	for id, rec := range RecordsFromGames([]int{1, 2}, games) {
		assertRecord(t, f.teams, id, rec.Wins, rec.Losses)
	}
}

func TestDeleteGameReversesOutcome(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{scoredGame(10, ip(1), ip(4), ip(1), ip(2))},
		&models.Team{ID: 1, LeagueID: 1, Losses: 1}, &models.Team{ID: 2, LeagueID: 1, Wins: 3})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if err := f.svc.DeleteGame(context.Background(), 10); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertRecord(t, f.teams, 1, 0, 0)
	assertRecord(t, f.teams, 2, 2, 0)
	if _, err := f.games.GetByID(context.Background(), nil, 10); err == nil {
		t.Fatal("game still present")
	}
	if got := f.pub.types(); len(got) != 1 || got[0] != live.TypeGameDeleted {
		t.Fatalf("published %v", got)
	}
}

func TestAssignTeams(t *testing.T) {
	teams := []*models.Team{
		{ID: 1, LeagueID: 1}, {ID: 2, LeagueID: 1}, {ID: 3, LeagueID: 2},
	}
	f := newGameFixture(t, []*models.Game{
		scoredGame(10, nil, nil, nil, nil),
		scoredGame(11, ip(2), ip(1), ip(1), ip(2)),
	}, teams...)
	ctx := context.Background()

	if _, err := f.svc.AssignTeams(ctx, 10, AssignTeamsInput{HomeTeamID: 1, AwayTeamID: 1}); !errors.Is(err, ErrSameTeam) {
		t.Fatalf("same team: got %v", err)
	}
	if _, err := f.svc.AssignTeams(ctx, 10, AssignTeamsInput{HomeTeamID: 1, AwayTeamID: 3}); !errors.Is(err, ErrTeamNotInLeague) {
		t.Fatalf("other league: got %v", err)
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	if _, err := f.svc.AssignTeams(ctx, 11, AssignTeamsInput{HomeTeamID: 2, AwayTeamID: 1}); !errors.Is(err, ErrGameFinalized) {
		t.Fatalf("finalized: got %v", err)
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	game, err := f.svc.AssignTeams(ctx, 10, AssignTeamsInput{HomeTeamID: 2, AwayTeamID: 1})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if *game.HomeTeamID != 2 || *game.AwayTeamID != 1 {
		t.Fatalf("teams = %d vs %d", *game.HomeTeamID, *game.AwayTeamID)
	}
}

func TestCreateGameRequiresBothTeams(t *testing.T) {
	f := newGameFixture(t, nil, &models.Team{ID: 1, LeagueID: 1})
	_, err := f.svc.CreateGame(context.Background(), CreateGameInput{
		LeagueID: 1, HomeTeamID: ip(1), DatePlayed: "2026-03-20",
	})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestGenerateSchedule(t *testing.T) {
	f := newGameFixture(t, nil,
		&models.Team{ID: 1, LeagueID: 1}, &models.Team{ID: 2, LeagueID: 1},
		&models.Team{ID: 3, LeagueID: 1}, &models.Team{ID: 4, LeagueID: 1})
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	games, err := f.svc.GenerateSchedule(ctx, 1, GenerateScheduleInput{StartDate: "2026-04-01", DaysBetweenRounds: 7})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(games) != 6 {
		t.Fatalf("got %d games, want 6", len(games))
	}
	dates := map[string]int{}
	for _, g := range games {
		dates[g.DatePlayed.Format("2006-01-02")]++
		if !g.TeamsAssigned() {
			t.Fatalf("game %d has no teams", g.ID)
		}
	}
	for _, d := range []string{"2026-04-01", "2026-04-08", "2026-04-15"} {
		if dates[d] != 2 {
			t.Fatalf("round on %s has %d games, want 2 (%v)", d, dates[d], dates)
		}
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	if _, err := f.svc.GenerateSchedule(ctx, 1, GenerateScheduleInput{StartDate: "2026-04-01"}); !errors.Is(err, ErrScheduleExists) {
		t.Fatalf("second schedule: got %v", err)
	}

	if _, err := f.svc.GenerateSchedule(ctx, 42, GenerateScheduleInput{StartDate: "2026-04-01"}); !errors.Is(err, ErrLeagueNotFound) {
		t.Fatalf("unknown league: got %v", err)
	}
}

func TestGenerateScheduleReadsTeamsUnderLeagueLock(t *testing.T) {
	f := newGameFixture(t, nil,
		&models.Team{ID: 1, LeagueID: 1}, &models.Team{ID: 2, LeagueID: 1},
		&models.Team{ID: 3, LeagueID: 1})
	// A team committed while the generator waited for the league lock
	// must be part of the season.
	f.leagues.onLock = func() { f.teams.add(&models.Team{ID: 4, LeagueID: 1}) }

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	games, err := f.svc.GenerateSchedule(context.Background(), 1, GenerateScheduleInput{StartDate: "2026-04-01"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(games) != 6 {
		t.Fatalf("got %d games, want the 6 of a four-team round robin", len(games))
	}
	plays := map[int]int{}
	for _, g := range games {
		plays[*g.HomeTeamID]++
		plays[*g.AwayTeamID]++
	}
	if plays[4] != 3 {
		t.Fatalf("late team plays %d games, want 3 (%v)", plays[4], plays)
	}
}

func TestGenerateScheduleNeedsTwoTeams(t *testing.T) {
	f := newGameFixture(t, nil, &models.Team{ID: 1, LeagueID: 1})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.svc.GenerateSchedule(context.Background(), 1, GenerateScheduleInput{StartDate: "2026-04-01"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("got %v, want a validation error", err)
	}
	if games, _ := f.games.List(context.Background(), repositories.GameFilter{}); len(games) != 0 {
		t.Fatalf("created %d games", len(games))
	}
}

func TestRebuildRecordsRestoresCountersFromGameLog(t *testing.T) {
	f := newGameFixture(t,
		[]*models.Game{
			scoredGame(1, ip(20), ip(15), ip(1), ip(2)),
			scoredGame(2, ip(10), ip(10), ip(2), ip(3)),
			scoredGame(3, ip(3), ip(8), ip(3), ip(1)),
			scoredGame(4, nil, nil, ip(1), ip(3)),
		},
		&models.Team{ID: 1, LeagueID: 1, Wins: 5, Losses: 5},
		&models.Team{ID: 2, LeagueID: 1, Wins: 0, Losses: 1},
		&models.Team{ID: 3, LeagueID: 1, Wins: 0, Losses: 0},
	)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	n, err := f.svc.RebuildRecords(context.Background(), 1)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if n != 2 {
		t.Fatalf("rebuild corrected %d teams, want 2", n)
	}
	assertRecord(t, f.teams, 1, 2, 0)
	assertRecord(t, f.teams, 2, 0, 1)
	assertRecord(t, f.teams, 3, 0, 1)
	if len(f.teams.setCalls) != 2 {
		t.Fatalf("rewrote teams %v; a team already in sync must be left alone", f.teams.setCalls)
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	if n, err := f.svc.RebuildRecords(context.Background(), 1); err != nil || n != 0 {
		t.Fatalf("second rebuild = %d, %v; counters should already match", n, err)
	}

	if _, err := f.svc.RebuildRecords(context.Background(), 7); !errors.Is(err, ErrLeagueNotFound) {
		t.Fatalf("unknown league: got %v", err)
	}
}
