package models

import "time"

// StatType is the closed set of stat events a keeper can record. Each
// type carries its scoring value so nothing has to be inferred from
// free text.
type StatType string

const (
	StatFreeThrow    StatType = "free_throw"
	StatTwoPointer   StatType = "two_pointer"
	StatThreePointer StatType = "three_pointer"
	StatGoal         StatType = "goal"
	StatTouchdown    StatType = "touchdown"
	StatFieldGoal    StatType = "field_goal"
	StatExtraPoint   StatType = "extra_point"
	StatSafety       StatType = "safety"
	StatRun          StatType = "run"
	StatPoint        StatType = "point"
	StatAssist       StatType = "assist"
	StatRebound      StatType = "rebound"
	StatSteal        StatType = "steal"
	StatBlock        StatType = "block"
	StatSave         StatType = "save"
	StatFoul         StatType = "foul"
	StatTurnover     StatType = "turnover"
)

// StatTypeInfo describes one entry of the stat catalog.
type StatTypeInfo struct {
	Type   StatType `json:"type"`
	Label  string   `json:"label"`
	Points int      `json:"points"`
}

var statCatalog = []StatTypeInfo{
	{StatFreeThrow, "Free throw", 1},
	{StatTwoPointer, "Two-point field goal", 2},
	{StatThreePointer, "Three-point field goal", 3},
	{StatGoal, "Goal", 1},
	{StatTouchdown, "Touchdown", 6},
	{StatFieldGoal, "Field goal", 3},
	{StatExtraPoint, "Extra point", 1},
	{StatSafety, "Safety", 2},
	{StatRun, "Run", 1},
	{StatPoint, "Point", 1},
	{StatAssist, "Assist", 0},
	{StatRebound, "Rebound", 0},
	{StatSteal, "Steal", 0},
	{StatBlock, "Block", 0},
	{StatSave, "Save", 0},
	{StatFoul, "Foul", 0},
	{StatTurnover, "Turnover", 0},
}

var statIndex = func() map[StatType]StatTypeInfo {
	m := make(map[StatType]StatTypeInfo, len(statCatalog))
	for _, info := range statCatalog {
		m[info.Type] = info
	}
	return m
}()

// StatCatalog returns a copy of every known stat type in display order.
func StatCatalog() []StatTypeInfo {
	out := make([]StatTypeInfo, len(statCatalog))
	copy(out, statCatalog)
	return out
}

func (t StatType) Info() (StatTypeInfo, bool) {
	info, ok := statIndex[t]
	return info, ok
}

func (t StatType) Valid() bool {
	_, ok := statIndex[t]
	return ok
}

// Points returns the scoring value of the stat, 0 for unknown types.
func (t StatType) Points() int {
	return statIndex[t].Points
}

// StatEvent is one entry in the append-mostly stat log of a game.
type StatEvent struct {
	ID           int       `json:"id" db:"id"`
	PerformedBy  int       `json:"performed_by" db:"performed_by"`
	ScoredDuring int       `json:"scored_during" db:"scored_during"`
	StatType     StatType  `json:"stat_type" db:"stat_type"`
	Points       int       `json:"points" db:"points"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	PlayerName *string `json:"player_name,omitempty" db:"-"`
}

// StatTotal is a per-type aggregate of a player's stat events.
type StatTotal struct {
	StatType StatType `json:"stat_type" db:"stat_type"`
	Count    int      `json:"count" db:"count"`
	Points   int      `json:"points" db:"points"`
}
