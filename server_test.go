package bikesharetraffic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/testutil"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/session"
)

func newTestService(t *testing.T, maxSessions int) (*Service, *httptest.Server) {
	t.Helper()
	var cfg config.AppConfig
	config.ApplyDefaults(&cfg)

	d := session.NewData(testutil.Dataset(
		testutil.Trip("A32000", "M32006", 485, 501),
		testutil.Trip("M32006", "M32011", 510, 524),
		testutil.Trip("M32011", "A32000", 1030, 1055),
		testutil.Trip("D32007", "X99999", 1430, 10),
	))
	reg := session.NewRegistry(d, session.DefaultOptions, time.Minute, maxSessions)
	svc := NewService(reg, cfg)
	ts := httptest.NewServer(svc.Router())
	t.Cleanup(ts.Close)
	return svc, ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestService(t, 0)
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health failed: %v", err)
	}
	var h healthResponse
	decode(t, resp, &h)
	if h.Status != "ok" || h.Stations != 4 || h.Trips != 4 || h.Rejected != 0 {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestStations(t *testing.T) {
	svc, ts := newTestService(t, 0)

	resp, err := http.Get(ts.URL + "/api/stations?time=480")
	if err != nil {
		t.Fatalf("GET /api/stations failed: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var res formatter.Response
	decode(t, resp, &res)
	if res.Window.Label != "8:00 AM" || len(res.Stations) != 4 {
		t.Fatalf("unexpected response: window %+v, %d stations", res.Window, len(res.Stations))
	}
	if res.Stations[1].TotalTraffic != 2 || res.Stations[3].Radius != 3 {
		t.Errorf("unexpected stations: %+v", res.Stations)
	}

	// second request is served from the cache
	resp, _ = http.Get(ts.URL + "/api/stations?time=480")
	resp.Body.Close()
	if svc.cache.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", svc.cache.Len())
	}

	resp, err = http.Get(ts.URL + "/api/stations?format=msgpack")
	if err != nil {
		t.Fatalf("GET msgpack failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-msgpack" {
		t.Errorf("Content-Type = %q", ct)
	}
	var decoded map[string]any
	if err := msgpack.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	if w, _ := decoded["window"].(map[string]any); w["label"] != "(any time)" {
		t.Errorf("unexpected msgpack window: %v", decoded["window"])
	}
}

func TestViewCache_StampsEachResponse(t *testing.T) {
	svc, _ := newTestService(t, 0)
	vc := svc.cache
	w, _ := parseMinute("480")

	stamps := []time.Time{
		time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		vc.now = func() time.Time { return ts }
		buf, err := vc.GetStationsResponse(w, formatter.FormatJSON)
		if err != nil {
			t.Fatalf("GetStationsResponse failed: %v", err)
		}
		var res formatter.Response
		if err := json.Unmarshal(buf, &res); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if want := ts.Format(time.RFC3339); res.ResponseTimestamp != want {
			t.Errorf("responseTimestamp = %q, want %q", res.ResponseTimestamp, want)
		}
		if len(res.Stations) != 4 {
			t.Errorf("got %d stations, want 4", len(res.Stations))
		}
	}
	if vc.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", vc.Len())
	}
}

func TestStations_QueryErrors(t *testing.T) {
	_, ts := newTestService(t, 0)
	for _, q := range []string{"time=1440", "time=-2", "time=noon", "format=xml"} {
		t.Run(q, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/stations?" + q)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body map[string]string
			decode(t, resp, &body)
			if body["error"] == "" {
				t.Error("error payload missing message")
			}
		})
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	_, ts := newTestService(t, 0)

	resp, err := http.Post(ts.URL+"/api/sessions?zoom=13", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/sessions failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created formatter.Response
	decode(t, resp, &created)
	if created.SessionID == "" || len(created.Markers) != 4 || len(created.Diff.Entered) != 4 {
		t.Fatalf("unexpected create response: %+v", created)
	}
	base := ts.URL + "/api/sessions/" + created.SessionID

	// filter change: every marker is updated, none enter or exit
	resp, err = http.Get(base + "/markers?time=480")
	if err != nil {
		t.Fatalf("GET markers failed: %v", err)
	}
	var filtered formatter.Response
	decode(t, resp, &filtered)
	if filtered.Window.Minute != 480 || len(filtered.Diff.Updated) != 4 || len(filtered.Diff.Entered) != 0 {
		t.Errorf("unexpected filtered response: window %+v diff %+v", filtered.Window, filtered.Diff)
	}
	for _, m := range filtered.Markers {
		if m.StationID == "D32007" && m.Visible {
			t.Error("idle station should be hidden in the 8 AM window")
		}
	}

	// viewport change moves markers without touching the filter
	resp, _ = http.Get(base + "/markers?zoom=14")
	var zoomed formatter.Response
	decode(t, resp, &zoomed)
	if zoomed.Window.Minute != 480 {
		t.Errorf("viewport change reset the filter: %+v", zoomed.Window)
	}
	if zoomed.Markers[0].Position == filtered.Markers[0].Position {
		t.Error("zoom did not reproject markers")
	}

	req, _ := http.NewRequest(http.MethodDelete, base, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", resp.StatusCode)
	}

	resp, _ = http.Get(base + "/markers")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("markers after delete = %d, want 404", resp.StatusCode)
	}

	t.Logf("✓ Session %s created, filtered, zoomed and deleted", created.SessionID)
}

func TestSessions_Errors(t *testing.T) {
	_, ts := newTestService(t, 1)

	resp, _ := http.Get(ts.URL + "/api/sessions/not-a-uuid/markers")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", resp.StatusCode)
	}

	resp, _ = http.Post(ts.URL+"/api/sessions?lat=91", "application/json", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad latitude status = %d, want 400", resp.StatusCode)
	}

	resp, _ = http.Post(ts.URL+"/api/sessions?time=1030", "application/json", nil)
	var created formatter.Response
	decode(t, resp, &created)
	if created.Window.Minute != 1030 {
		t.Errorf("initial filter not applied: %+v", created.Window)
	}

	resp, _ = http.Post(ts.URL+"/api/sessions", "application/json", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("over limit status = %d, want 503", resp.StatusCode)
	}

	// an invalid parameter leaves the session untouched
	base := ts.URL + "/api/sessions/" + created.SessionID
	resp, _ = http.Get(base + "/markers?time=480&width=0")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad width status = %d, want 400", resp.StatusCode)
	}
	resp, _ = http.Get(base + "/markers")
	var after formatter.Response
	decode(t, resp, &after)
	if after.Window.Minute != 1030 {
		t.Errorf("rejected request changed the filter: %+v", after.Window)
	}

	resp, _ = http.Get(ts.URL + "/api/sessions/" + strings.Repeat("0", 8) + "-0000-0000-0000-000000000000/markers")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", resp.StatusCode)
	}
}
