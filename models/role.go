package models

// UserRole selects which route group a caller may use.
type UserRole string

const (
	RoleStatKeeper  UserRole = "stat_keeper"
	RolePlayer      UserRole = "player"
	RoleTeamCaptain UserRole = "team_captain"
	RoleAdmin       UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStatKeeper, RolePlayer, RoleTeamCaptain, RoleAdmin:
		return true
	}
	return false
}
