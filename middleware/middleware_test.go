package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/intramural-stats/metrics"
	"github.com/Dosada05/intramural-stats/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode int
		wantRole models.UserRole
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "unknown role", header: "coach", wantCode: http.StatusUnauthorized},
		{name: "wrong role", header: "player", wantCode: http.StatusForbidden},
		{name: "matching role", header: "stat_keeper", wantCode: http.StatusOK, wantRole: models.RoleStatKeeper},
		{name: "admin passes", header: "admin", wantCode: http.StatusOK, wantRole: models.RoleAdmin},
		{name: "case insensitive", header: "Stat_Keeper", wantCode: http.StatusOK, wantRole: models.RoleStatKeeper},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotRole models.UserRole
			h := RequireRole(models.RoleStatKeeper)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				role, err := GetUserRoleFromContext(r.Context())
				if err != nil {
					t.Fatalf("role not in context: %v", err)
				}
				gotRole = role
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(RoleHeader, tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			if gotRole != tc.wantRole {
				t.Fatalf("role = %q, want %q", gotRole, tc.wantRole)
			}
			if tc.wantCode != http.StatusOK && !strings.Contains(rr.Body.String(), `"error"`) {
				t.Fatalf("expected error envelope, got %s", rr.Body.String())
			}
		})
	}
}

func TestRequestLoggerAssignsID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rr.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), `"status":418`) {
		t.Fatalf("log line missing status: %s", buf.String())
	}
}

func TestRequestLoggerKeepsClientID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	rec := metrics.NewRecorder()
	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/games/{gameID}", func(w http.ResponseWriter, r *http.Request) {})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/"+id, nil))
	}

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `intramural_http_requests_total{method="GET",route="/games/{gameID}",status="200"} 2`
	if !strings.Contains(string(body), want) {
		t.Fatalf("missing %s in scrape output", want)
	}
}
