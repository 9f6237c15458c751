package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsGameUpdatesByOutcome(t *testing.T) {
	rec := NewRecorder()
	rec.RecordGameUpdate(nil)
	rec.RecordGameUpdate(nil)
	rec.RecordGameUpdate(errors.New("boom"))

	if got := testutil.ToFloat64(rec.gameUpdates.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok updates, got %v", got)
	}
	if got := testutil.ToFloat64(rec.gameUpdates.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed update, got %v", got)
	}
}

func TestRecorderIgnoresNonPositiveAdjustments(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRecordAdjustments(2)
	rec.RecordRecordAdjustments(0)
	rec.RecordRecordAdjustments(-1)

	if got := testutil.ToFloat64(rec.recordChanges); got != 2 {
		t.Fatalf("expected 2 adjustments, got %v", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordGameUpdate(nil)
	rec.RecordRecordAdjustments(3)
	rec.RecordReminderDelivery(errors.New("smtp down"))
	rec.SetLiveClients(4)
	rec.RecordLiveBroadcast()

	resp := httptest.NewRecorder()
	rec.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil recorder handler, got %d", resp.Code)
	}
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.RecordHTTPRequest("PATCH", "/api/statkeeper/games/{gameID}", 200, 5*time.Millisecond)

	resp := httptest.NewRecorder()
	rec.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `intramural_http_requests_total{method="PATCH",route="/api/statkeeper/games/{gameID}",status="200"} 1`) {
		t.Fatalf("metrics output missing request counter:\n%s", resp.Body.String())
	}
}
