package services

import (
	"reflect"
	"testing"

	"github.com/Dosada05/intramural-stats/models"
)

func ip(v int) *int { return &v }

// applyDeltas folds deltas into a record book, the way the game service
// applies them to team rows.
func applyDeltas(book map[int][2]int, deltas []RecordDelta) {
	for _, d := range deltas {
		r := book[d.TeamID]
		r[0] += d.Wins
		r[1] += d.Losses
		book[d.TeamID] = r
	}
}

func TestReconcile(t *testing.T) {
	const home, away = 1, 2

	tests := []struct {
		name   string
		change ScoreChange
		want   []RecordDelta
	}{
		{
			name:   "finalize home win",
			change: ScoreChange{NewHome: ip(10), NewAway: ip(5)},
			want:   []RecordDelta{{TeamID: home, Wins: 1}, {TeamID: away, Losses: 1}},
		},
		{
			name:   "finalize away win",
			change: ScoreChange{NewHome: ip(3), NewAway: ip(4)},
			want:   []RecordDelta{{TeamID: home, Losses: 1}, {TeamID: away, Wins: 1}},
		},
		{
			name:   "same score again",
			change: ScoreChange{PrevHome: ip(10), PrevAway: ip(5), NewHome: ip(10), NewAway: ip(5)},
			want:   []RecordDelta{},
		},
		{
			name:   "new margin same winner",
			change: ScoreChange{PrevHome: ip(10), PrevAway: ip(5), NewHome: ip(30), NewAway: ip(0)},
			want:   []RecordDelta{},
		},
		{
			name:   "winner flips",
			change: ScoreChange{PrevHome: ip(10), PrevAway: ip(5), NewHome: ip(5), NewAway: ip(10)},
			want:   []RecordDelta{{TeamID: home, Wins: -1, Losses: 1}, {TeamID: away, Wins: 1, Losses: -1}},
		},
		{
			name:   "tie applied",
			change: ScoreChange{NewHome: ip(7), NewAway: ip(7)},
			want:   []RecordDelta{},
		},
		{
			name:   "tie reversed into unscored",
			change: ScoreChange{PrevHome: ip(7), PrevAway: ip(7)},
			want:   []RecordDelta{},
		},
		{
			name:   "win becomes tie",
			change: ScoreChange{PrevHome: ip(2), PrevAway: ip(1), NewHome: ip(2), NewAway: ip(2)},
			want:   []RecordDelta{{TeamID: home, Wins: -1}, {TeamID: away, Losses: -1}},
		},
		{
			name:   "scores cleared",
			change: ScoreChange{PrevHome: ip(2), PrevAway: ip(1), NewHome: ip(2)},
			want:   []RecordDelta{{TeamID: home, Wins: -1}, {TeamID: away, Losses: -1}},
		},
		{
			name:   "half scored counts as unscored",
			change: ScoreChange{NewHome: ip(9)},
			want:   []RecordDelta{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.change.HomeTeamID = ip(home)
			tc.change.AwayTeamID = ip(away)
			got := Reconcile(tc.change)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Reconcile() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestReconcileWithoutTeamsIsNoop(t *testing.T) {
	change := ScoreChange{NewHome: ip(10), NewAway: ip(5), HomeTeamID: ip(1)}
	if got := Reconcile(change); got != nil {
		t.Fatalf("expected no deltas with a missing away team, got %+v", got)
	}
}

func TestReconcileOrdersByTeamID(t *testing.T) {
	got := Reconcile(ScoreChange{
		NewHome: ip(1), NewAway: ip(0),
		HomeTeamID: ip(9), AwayTeamID: ip(4),
	})
	if len(got) != 2 || got[0].TeamID != 4 || got[1].TeamID != 9 {
		t.Fatalf("deltas not ordered by team id: %+v", got)
	}
}

func TestReconcileScoreFlipScenario(t *testing.T) {
	const a, b = 11, 12
	book := map[int][2]int{a: {3, 2}, b: {4, 1}}

	applyDeltas(book, Reconcile(ScoreChange{
		NewHome: ip(20), NewAway: ip(15), HomeTeamID: ip(a), AwayTeamID: ip(b),
	}))
	if book[a] != [2]int{4, 2} || book[b] != [2]int{4, 2} {
		t.Fatalf("after 20-15: A=%v B=%v", book[a], book[b])
	}

	applyDeltas(book, Reconcile(ScoreChange{
		PrevHome: ip(20), PrevAway: ip(15), NewHome: ip(15), NewAway: ip(20),
		HomeTeamID: ip(a), AwayTeamID: ip(b),
	}))
	if book[a] != [2]int{3, 3} || book[b] != [2]int{5, 1} {
		t.Fatalf("after 15-20: A=%v B=%v", book[a], book[b])
	}
	for id, r := range book {
		if r[0]+r[1] != 6 {
			t.Fatalf("team %d games played changed: %v", id, r)
		}
	}
}

func TestReconcileRoundTripRestoresRecords(t *testing.T) {
	book := map[int][2]int{1: {0, 0}, 2: {0, 0}}
	steps := [][2]*int{{ip(3), ip(1)}, {ip(1), ip(3)}, {ip(2), ip(2)}, {ip(5), ip(0)}, {nil, nil}}

	var prevHome, prevAway *int
	for _, s := range steps {
		applyDeltas(book, Reconcile(ScoreChange{
			PrevHome: prevHome, PrevAway: prevAway, NewHome: s[0], NewAway: s[1],
			HomeTeamID: ip(1), AwayTeamID: ip(2),
		}))
		prevHome, prevAway = s[0], s[1]
	}
	if book[1] != [2]int{0, 0} || book[2] != [2]int{0, 0} {
		t.Fatalf("un-scoring should restore the records, got %v", book)
	}
}

func TestResultFor(t *testing.T) {
	cases := []struct {
		scored, allowed int
		want            models.GameResult
	}{
		{3, 1, models.ResultWin},
		{1, 3, models.ResultLoss},
		{2, 2, models.ResultTie},
	}
	for _, c := range cases {
		if got := ResultFor(c.scored, c.allowed); got != c.want {
			t.Fatalf("ResultFor(%d, %d) = %v, want %v", c.scored, c.allowed, got, c.want)
		}
	}
}

func TestRecordsFromGames(t *testing.T) {
	games := []*models.Game{
		scoredGame(1, ip(20), ip(15), ip(1), ip(2)),
		scoredGame(2, ip(15), ip(20), ip(1), ip(2)),
		scoredGame(3, ip(30), ip(10), ip(3), ip(1)),
		scoredGame(4, ip(7), ip(7), ip(2), ip(3)),
		scoredGame(5, nil, nil, ip(2), ip(3)),
		scoredGame(6, ip(9), ip(1), ip(2), nil),
		scoredGame(7, ip(5), nil, ip(3), ip(2)),
		scoredGame(8, ip(12), ip(3), ip(9), ip(2)),
	}

	got := RecordsFromGames([]int{1, 2, 3, 4}, games)
	want := map[int]TeamRecord{
		1: {Wins: 1, Losses: 2},
		2: {Wins: 1, Losses: 2},
		3: {Wins: 1, Losses: 0},
		4: {},
	}
	if len(got) != len(want) {
		t.Fatalf("records = %v", got)
	}
	for id, rec := range want {
		if got[id] != rec {
			t.Errorf("team %d = %+v, want %+v", id, got[id], rec)
		}
	}
}
