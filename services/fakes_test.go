package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func copyGame(g *models.Game) *models.Game {
	c := *g
	return &c
}

// fakeGameRepo keeps games in memory. It ignores the executor, so tests
// pair it with sqlmock to check transaction boundaries.
type fakeGameRepo struct {
	repositories.GameRepository

	mu     sync.Mutex
	games  map[int]*models.Game
	nextID int
	onTeam map[[2]int]bool
}

func newFakeGameRepo(games ...*models.Game) *fakeGameRepo {
	r := &fakeGameRepo{games: map[int]*models.Game{}, nextID: 100, onTeam: map[[2]int]bool{}}
	for _, g := range games {
		r.games[g.ID] = copyGame(g)
	}
	return r
}

func (r *fakeGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	game.ID = r.nextID
	r.games[game.ID] = copyGame(game)
	return nil
}

func (r *fakeGameRepo) SetTeams(ctx context.Context, exec repositories.SQLExecutor, gameID, homeTeamID, awayTeamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.HomeTeamID, g.AwayTeamID = &homeTeamID, &awayTeamID
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	return copyGame(g), nil
}

func (r *fakeGameRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeGameRepo) Update(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	r.games[game.ID] = copyGame(game)
	return nil
}

func (r *fakeGameRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *fakeGameRepo) List(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Game
	for _, g := range r.games {
		if filter.LeagueID != nil && g.LeagueID != *filter.LeagueID {
			continue
		}
		out = append(out, copyGame(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGameRepo) IsPlayerOnGameTeam(ctx context.Context, gameID, playerID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onTeam[[2]int{gameID, playerID}], nil
}

// fakeTeamRepo enforces non-negative counters the way the database
// CHECK constraints do.
type fakeTeamRepo struct {
	repositories.TeamRepository

	mu          sync.Mutex
	teams       map[int]*models.Team
	adjustCalls []RecordDelta
	failOn      map[int]error
	setCalls    []int
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: map[int]*models.Team{}, failOn: map[int]error{}}
	for _, t := range teams {
		c := *t
		r.teams[t.ID] = &c
	}
	return r
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTeamRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Team
	for _, t := range r.teams {
		if t.LeagueID == leagueID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) AdjustRecord(ctx context.Context, exec repositories.SQLExecutor, teamID, winsDelta, lossesDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adjustCalls = append(r.adjustCalls, RecordDelta{TeamID: teamID, Wins: winsDelta, Losses: lossesDelta})
	if err := r.failOn[teamID]; err != nil {
		return err
	}
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	if t.Wins+winsDelta < 0 || t.Losses+lossesDelta < 0 {
		return repositories.ErrTeamRecordUnderflow
	}
	t.Wins += winsDelta
	t.Losses += lossesDelta
	return nil
}

func (r *fakeTeamRepo) ListByLeagueTx(ctx context.Context, exec repositories.SQLExecutor, leagueID int, forUpdate bool) ([]*models.Team, error) {
	return r.ListByLeague(ctx, leagueID)
}

func (r *fakeTeamRepo) SetRecord(ctx context.Context, exec repositories.SQLExecutor, teamID, wins, losses int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	r.setCalls = append(r.setCalls, teamID)
	t.Wins, t.Losses = wins, losses
	return nil
}

func (r *fakeTeamRepo) add(team *models.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *team
	r.teams[team.ID] = &c
}

func (r *fakeTeamRepo) record(id int) (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.teams[id]
	return t.Wins, t.Losses
}

type fakeLeagueRepo struct {
	repositories.LeagueRepository

	leagues map[int]*models.League
	teams   map[int]int
	// onLock runs when a league row is locked, standing in for work
	// another transaction committed just before the lock was granted.
	onLock func()
}

func newFakeLeagueRepo(leagues ...*models.League) *fakeLeagueRepo {
	r := &fakeLeagueRepo{leagues: map[int]*models.League{}, teams: map[int]int{}}
	for _, l := range leagues {
		c := *l
		r.leagues[l.ID] = &c
	}
	return r
}

func (r *fakeLeagueRepo) GetByID(ctx context.Context, id int) (*models.League, error) {
	l, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	c := *l
	return &c, nil
}

func (r *fakeLeagueRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.League, error) {
	if r.onLock != nil {
		r.onLock()
	}
	return r.GetByID(ctx, id)
}

func (r *fakeLeagueRepo) CountTeams(ctx context.Context, exec repositories.SQLExecutor, leagueID int) (int, error) {
	return r.teams[leagueID], nil
}

type published struct {
	leagueID int
	msgType  string
	payload  interface{}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
}

func (p *fakePublisher) Publish(leagueID int, msgType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, published{leagueID, msgType, payload})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.msgType)
	}
	return out
}
