package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/smppctl/internal/auth"
	"github.com/danmuck/smppctl/internal/observability"
	"github.com/danmuck/smppctl/internal/protocol/session"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
)

type fakeSource struct {
	state   session.State
	pending int
}

func (f fakeSource) State() session.State { return f.state }

func (f fakeSource) Pending() []session.PendingRequest {
	return make([]session.PendingRequest, f.pending)
}

func get(t *testing.T, s *StatusServer, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return rec, body
}

func TestHealthIsAlwaysOK(t *testing.T) {
	testlog.Start(t)
	s := New("smppctl", ":0", fakeSource{state: session.StateClosed})
	rec, body := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if body["service"] != "smppctl" {
		t.Fatalf("body=%v", body)
	}
}

func TestSessionHealthTracksBindState(t *testing.T) {
	testlog.Start(t)
	rec, body := get(t, New("smppctl", ":0", fakeSource{state: session.StateOpen}), "/health/session")
	if rec.Code != http.StatusServiceUnavailable || body["state"] != "OPEN" {
		t.Fatalf("open: code=%d body=%v", rec.Code, body)
	}

	rec, body = get(t, New("smppctl", ":0", fakeSource{state: session.StateBoundTRX, pending: 2}), "/health/session")
	if rec.Code != http.StatusOK || body["status"] != "bound" {
		t.Fatalf("bound: code=%d body=%v", rec.Code, body)
	}
	if body["pending"] != float64(2) {
		t.Fatalf("pending=%v", body["pending"])
	}
}

func TestMetricsRoute(t *testing.T) {
	testlog.Start(t)
	observability.RecordSent("enquire_link")
	s := New("smppctl", ":0", fakeSource{state: session.StateOpen})
	get(t, s, "/health")

	rec, _ := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	out := rec.Body.String()
	for _, want := range []string{"smppctl_pdu_sent_total", "smppctl_http_requests_total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}

func TestTokenGuardsProtectedRoutes(t *testing.T) {
	testlog.Start(t)
	s := New("smppctl", ":0", fakeSource{state: session.StateBoundTX}, WithAuth(auth.StaticToken{Token: "t0k"}))

	rec, _ := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health should stay open, got %d", rec.Code)
	}
	rec, _ = get(t, s, "/health/session")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health/session", nil)
	req.Header.Set("Authorization", "Bearer t0k")
	ok := httptest.NewRecorder()
	s.Router().ServeHTTP(ok, req)
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", ok.Code)
	}
}
