package models

// Sport is a kind of sport offered by the intramural program.
type Sport struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
