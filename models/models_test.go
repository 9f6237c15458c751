package models

import (
	"encoding/json"
	"testing"
)

func TestNullableIntDistinguishesNullFromAbsent(t *testing.T) {
	var body struct {
		Home NullableInt `json:"home_score"`
		Away NullableInt `json:"away_score"`
	}
	if err := json.Unmarshal([]byte(`{"home_score": null}`), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Home.Set || body.Home.Value != nil {
		t.Fatalf("home = %+v, want explicit null", body.Home)
	}
	if body.Away.Set {
		t.Fatalf("away = %+v, want absent", body.Away)
	}

	if err := json.Unmarshal([]byte(`{"away_score": 21}`), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Away.Set || body.Away.Value == nil || *body.Away.Value != 21 {
		t.Fatalf("away = %+v", body.Away)
	}

	if err := json.Unmarshal([]byte(`{"home_score": "ten"}`), &body); err == nil {
		t.Fatal("expected error for a non-integer score")
	}
}

func TestStatCatalogPoints(t *testing.T) {
	tests := []struct {
		stat   StatType
		points int
		valid  bool
	}{
		{StatThreePointer, 3, true},
		{StatTouchdown, 6, true},
		{StatAssist, 0, true},
		{"slam_dunk", 0, false},
	}
	for _, tc := range tests {
		if got := tc.stat.Points(); got != tc.points {
			t.Errorf("%s.Points() = %d, want %d", tc.stat, got, tc.points)
		}
		if got := tc.stat.Valid(); got != tc.valid {
			t.Errorf("%s.Valid() = %v, want %v", tc.stat, got, tc.valid)
		}
	}

	catalog := StatCatalog()
	catalog[0].Points = 99
	if StatFreeThrow.Points() != 1 {
		t.Fatal("StatCatalog must return a copy")
	}
}

func TestUserRoleValid(t *testing.T) {
	for _, r := range []UserRole{RoleStatKeeper, RolePlayer, RoleTeamCaptain, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if UserRole("coach").Valid() {
		t.Error("unknown role reported valid")
	}
}
