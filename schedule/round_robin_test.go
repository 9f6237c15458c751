package schedule

import (
	"errors"
	"testing"
)

type matchup struct{ a, b int }

func key(a, b int) matchup {
	if a > b {
		a, b = b, a
	}
	return matchup{a, b}
}

func checkRounds(t *testing.T, pairings []Pairing) map[int]map[int]bool {
	t.Helper()
	byRound := map[int]map[int]bool{}
	for _, p := range pairings {
		if p.HomeTeamID == p.AwayTeamID {
			t.Fatalf("team %d plays itself in round %d", p.HomeTeamID, p.Round)
		}
		if byRound[p.Round] == nil {
			byRound[p.Round] = map[int]bool{}
		}
		for _, id := range []int{p.HomeTeamID, p.AwayTeamID} {
			if byRound[p.Round][id] {
				t.Fatalf("team %d plays twice in round %d", id, p.Round)
			}
			byRound[p.Round][id] = true
		}
	}
	return byRound
}

func TestRoundRobinEvenTeams(t *testing.T) {
	pairings, err := RoundRobin([]int{1, 2, 3, 4}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 6 {
		t.Fatalf("got %d games, want 6", len(pairings))
	}
	rounds := checkRounds(t, pairings)
	if len(rounds) != 3 {
		t.Fatalf("got %d rounds, want 3", len(rounds))
	}
	for r, teams := range rounds {
		if len(teams) != 4 {
			t.Fatalf("round %d has %d teams playing, want 4", r, len(teams))
		}
	}

	seen := map[matchup]int{}
	for _, p := range pairings {
		seen[key(p.HomeTeamID, p.AwayTeamID)]++
	}
	for m, n := range seen {
		if n != 1 {
			t.Fatalf("matchup %v scheduled %d times", m, n)
		}
	}
}

func TestRoundRobinOddTeamsHasByes(t *testing.T) {
	teams := []int{10, 20, 30, 40, 50}
	pairings, err := RoundRobin(teams, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 10 {
		t.Fatalf("got %d games, want 10", len(pairings))
	}
	rounds := checkRounds(t, pairings)
	if len(rounds) != 5 {
		t.Fatalf("got %d rounds, want 5", len(rounds))
	}

	byes := map[int]int{}
	for _, playing := range rounds {
		for _, id := range teams {
			if !playing[id] {
				byes[id]++
			}
		}
	}
	for _, id := range teams {
		if byes[id] != 1 {
			t.Fatalf("team %d sits out %d rounds, want 1", id, byes[id])
		}
	}
}

func TestRoundRobinTwoLegsSwapsSides(t *testing.T) {
	pairings, err := RoundRobin([]int{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 6 {
		t.Fatalf("got %d games, want 6", len(pairings))
	}
	checkRounds(t, pairings)

	directed := map[[2]int]int{}
	for _, p := range pairings {
		directed[[2]int{p.HomeTeamID, p.AwayTeamID}]++
	}
	for pair, n := range directed {
		if n != 1 {
			t.Fatalf("home/away pair %v scheduled %d times", pair, n)
		}
		if directed[[2]int{pair[1], pair[0]}] != 1 {
			t.Fatalf("pair %v has no return game", pair)
		}
	}
}

func TestRoundRobinRejectsBadInput(t *testing.T) {
	if _, err := RoundRobin([]int{1}, 1); !errors.Is(err, ErrNotEnoughTeams) {
		t.Fatalf("expected ErrNotEnoughTeams, got %v", err)
	}
	if _, err := RoundRobin([]int{1, 2}, 3); !errors.Is(err, ErrInvalidLegs) {
		t.Fatalf("expected ErrInvalidLegs, got %v", err)
	}
	if _, err := RoundRobin([]int{1, 2, 1}, 1); err == nil {
		t.Fatal("expected an error for a duplicate team")
	}
}
