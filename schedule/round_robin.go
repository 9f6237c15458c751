package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughTeams = errors.New("at least two teams are required for a schedule")
	ErrInvalidLegs    = errors.New("legs must be 1 or 2")
)

// Pairing is one game of a generated schedule. Round starts at 1; every
// team plays at most once per round.
type Pairing struct {
	Round      int
	HomeTeamID int
	AwayTeamID int
}

// RoundRobin pairs every team with every other team once per leg using
// the circle method. With an odd number of teams one team sits out each
// round. The second leg repeats the first with home and away swapped.
func RoundRobin(teamIDs []int, legs int) ([]Pairing, error) {
	if legs != 1 && legs != 2 {
		return nil, ErrInvalidLegs
	}
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	seen := make(map[int]bool, len(teamIDs))
	slots := make([]int, 0, len(teamIDs)+1)
	for _, id := range teamIDs {
		if id <= 0 {
			return nil, fmt.Errorf("invalid team id %d", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("team %d appears more than once", id)
		}
		seen[id] = true
		slots = append(slots, id)
	}
	// 0 is the bye.
	if len(slots)%2 == 1 {
		slots = append(slots, 0)
	}

	n := len(slots)
	rounds := n - 1
	pairings := make([]Pairing, 0, legs*len(teamIDs)*(len(teamIDs)-1)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home == 0 || away == 0 {
				continue
			}
			// The fixed first slot alternates sides; the rest alternate by round.
			if (i == 0 && round%2 == 1) || (i > 0 && (round+i)%2 == 1) {
				home, away = away, home
			}
			pairings = append(pairings, Pairing{Round: round + 1, HomeTeamID: home, AwayTeamID: away})
		}
		rotate(slots)
	}

	if legs == 2 {
		first := len(pairings)
		for _, p := range pairings[:first] {
			pairings = append(pairings, Pairing{
				Round:      p.Round + rounds,
				HomeTeamID: p.AwayTeamID,
				AwayTeamID: p.HomeTeamID,
			})
		}
	}
	return pairings, nil
}

// rotate keeps slots[0] fixed and moves every other slot one place clockwise.
func rotate(slots []int) {
	if len(slots) < 3 {
		return
	}
	last := slots[len(slots)-1]
	copy(slots[2:], slots[1:len(slots)-1])
	slots[1] = last
}
