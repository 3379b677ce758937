package server

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"worldstats/internal/dashboard"
	"worldstats/internal/dataset"
	"worldstats/internal/filter"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	tables, err := dataset.Generate(42, 8, 15)
	if err != nil {
		t.Fatal(err)
	}
	srv := &Server{Store: dashboard.NewStore(tables, time.Hour)}
	ts := httptest.NewServer(srv.routes())
	return srv, ts
}

func createSession(t *testing.T, ts *httptest.Server) sessionResponse {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHandleCreateSession(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	body := createSession(t, ts)
	if body.SessionID == "" {
		t.Error("response has no session_id")
	}
	if body.Snapshot.Params.Mode != dataset.ModeSurvival {
		t.Errorf("default mode = %q, want Survival", body.Snapshot.Params.Mode)
	}
	if body.Snapshot.KPIs.UniquePlayers == 0 {
		t.Error("default snapshot should have players")
	}
}

func TestHandleGetSnapshot(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	created := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + created.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestHandleGetSnapshot_NotFound(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/sessions/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func putParams(t *testing.T, ts *httptest.Server, sessionID string, p filter.Params) *http.Response {
	t.Helper()
	payload, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/sessions/"+sessionID+"/params", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleSetParams(t *testing.T) {
	srv, ts := newTestServer(t)
	defer ts.Close()

	created := createSession(t, ts)

	p := filter.DefaultParams(srv.Store.Tables().MaxDays)
	p.Mode = dataset.ModeHardcore
	p.DayLo, p.DayHi = 2, 10

	resp := putParams(t, ts, created.SessionID, p)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Snapshot.Params.Mode != dataset.ModeHardcore {
		t.Errorf("snapshot mode = %q, want Hardcore", body.Snapshot.Params.Mode)
	}

	// The session itself must now hold the new snapshot.
	sess := srv.Store.Get(created.SessionID)
	if sess.Params().Mode != dataset.ModeHardcore {
		t.Error("session params not updated")
	}
}

func TestHandleSetParams_ValidationError(t *testing.T) {
	srv, ts := newTestServer(t)
	defer ts.Close()

	created := createSession(t, ts)

	p := filter.DefaultParams(srv.Store.Tables().MaxDays)
	p.DayLo, p.DayHi = 12, 3

	resp := putParams(t, ts, created.SessionID, p)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandleSetParams_UnknownEnum(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	created := createSession(t, ts)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/sessions/"+created.SessionID+"/params",
		strings.NewReader(`{"mode":"Peaceful","day_lo":1,"day_hi":5}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandleDeleteSession(t *testing.T) {
	srv, ts := newTestServer(t)
	defer ts.Close()

	created := createSession(t, ts)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+created.SessionID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if srv.Store.Get(created.SessionID) != nil {
		t.Error("session still present after delete")
	}
}

func TestHandleMeta(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/meta")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var meta metaResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatal(err)
	}

	if len(meta.Modes) != 3 {
		t.Errorf("modes = %v, want 3 entries", meta.Modes)
	}
	if meta.DayMax != 15 {
		t.Errorf("day_max = %d, want 15", meta.DayMax)
	}
	for i := 1; i < len(meta.Biomes); i++ {
		if meta.Biomes[i-1] > meta.Biomes[i] {
			t.Errorf("biomes not sorted: %v", meta.Biomes)
			break
		}
	}
	if len(meta.Defaults.Biomes) != len(dataset.Biomes) {
		t.Error("defaults should select all biomes")
	}
}

func TestHandleRaw(t *testing.T) {
	srv, ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/raw/activity")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var rows []dataset.ActivityRecord
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(srv.Store.Tables().Activity) {
		t.Errorf("raw activity rows = %d, want %d", len(rows), len(srv.Store.Tables().Activity))
	}
}

func TestHandleRaw_UnknownTable(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/raw/chests")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestHandleEvents_StreamsSnapshots(t *testing.T) {
	srv, ts := newTestServer(t)
	defer ts.Close()

	created := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + created.SessionID + "/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)

	// The handler sends the current snapshot immediately.
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(line, "event: snapshot") {
		t.Errorf("first line = %q, want snapshot event", line)
	}

	// A parameter change must arrive as another event.
	sess := srv.Store.Get(created.SessionID)
	p := filter.DefaultParams(srv.Store.Tables().MaxDays)
	p.ActiveOnly = true
	if _, err := sess.SetParams(p); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	got := make(chan string, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "data: ") {
				got <- line
			}
		}
	}()

	found := 0
	for found < 2 {
		select {
		case <-got:
			found++
		case <-deadline:
			t.Fatalf("expected 2 data lines (initial + update), got %d", found)
		}
	}
}
