package routes

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/intramural-stats/handlers"
	"github.com/Dosada05/intramural-stats/metrics"
	"github.com/Dosada05/intramural-stats/middleware"
)

// newTestRouter wires handlers without services; the tests only reach
// middleware and endpoints that never touch a service.
func newTestRouter(ping func(*http.Request) error) http.Handler {
	h := Handlers{
		Sport:      handlers.NewSportHandler(nil),
		League:     handlers.NewLeagueHandler(nil),
		Team:       handlers.NewTeamHandler(nil),
		Game:       handlers.NewGameHandler(nil),
		Stats:      handlers.NewStatsHandler(nil),
		Player:     handlers.NewPlayerHandler(nil),
		StatKeeper: handlers.NewStatKeeperHandler(nil),
		StatEvent:  handlers.NewStatEventHandler(nil),
		Award:      handlers.NewAwardHandler(nil),
		Reminder:   handlers.NewReminderHandler(nil),
		Dashboard:  handlers.NewDashboardHandler(nil),
		WebSocket:  handlers.NewWebSocketHandler(nil, nil, nil),
	}
	r := chi.NewRouter()
	SetupRoutes(r, h, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metrics.NewRecorder(),
		Ping:    ping,
	})
	return r
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	down := func(*http.Request) error { return errors.New("db down") }
	newTestRouter(down).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("health with failing ping = %d", rr.Code)
	}
}

func TestRoleGroups(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"statkeeper without role", http.MethodPatch, "/api/statkeeper/games/1", "", http.StatusUnauthorized},
		{"statkeeper as player", http.MethodPatch, "/api/statkeeper/games/1", "player", http.StatusForbidden},
		{"admin group as captain", http.MethodPost, "/api/admin/sports", "team_captain", http.StatusForbidden},
		{"captain group as stat keeper", http.MethodPost, "/api/captain/games", "stat_keeper", http.StatusForbidden},
		{"player group without role", http.MethodPost, "/api/player/players", "", http.StatusUnauthorized},
		// The role passes; the handler rejects the id before any service call.
		{"statkeeper bad id", http.MethodPatch, "/api/statkeeper/games/x", "stat_keeper", http.StatusBadRequest},
		{"admin everywhere", http.MethodPatch, "/api/captain/games/x", "admin", http.StatusBadRequest},
	}

	router := newTestRouter(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			if tc.role != "" {
				req.Header.Set(middleware.RoleHeader, tc.role)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestSharedReadsNeedNoRole(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/teams/abc", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 from the handler", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("metrics = %d", rr.Code)
	}
}
