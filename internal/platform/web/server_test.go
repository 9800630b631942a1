package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	d := dungeon.New(dungeon.DefaultRoomSize).GenerateDefault(context.Background())
	s := NewServer(d, dungeon.DefaultViewport(), nil, log.New(io.Discard))
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, ts *httptest.Server, method, path string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("%s %s Content-Type = %q", method, path, ct)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: cannot decode body: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	var body map[string]string
	if code := getJSON(t, ts, http.MethodGet, "/healthz", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestGetDungeon(t *testing.T) {
	_, ts := newTestServer(t)
	var info DungeonInfo
	if code := getJSON(t, ts, http.MethodGet, "/api/dungeon", &info); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	want := DungeonInfo{
		Size: 16, Width: 16, Height: 15, Tiles: 240,
		MaxDimension: 960, Seed: dungeon.DefaultSeed, Collision: "legacy",
	}
	if info != want {
		t.Errorf("info = %+v, expected %+v", info, want)
	}
}

func TestGetVisible(t *testing.T) {
	_, ts := newTestServer(t)

	var resp TilesResponse
	if code := getJSON(t, ts, http.MethodGet, "/api/visible?x=0&y=0", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Tiles) != 72 {
		t.Errorf("visible tiles = %d, expected 72", len(resp.Tiles))
	}

	resp = TilesResponse{}
	if code := getJSON(t, ts, http.MethodGet, "/api/visible?x=100000&y=100000", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Tiles == nil || len(resp.Tiles) != 0 {
		t.Errorf("far camera should give an empty list, got %v", resp.Tiles)
	}
}

func TestBadParameters(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/visible?x=abc&y=0", http.StatusBadRequest},
		{http.MethodGet, "/api/visible?x=0", http.StatusBadRequest},
		{http.MethodGet, "/api/visible?x=NaN&y=0", http.StatusBadRequest},
		{http.MethodGet, "/api/collide?x=0&y=0&w=big", http.StatusBadRequest},
		{http.MethodGet, "/api/tiles/abc", http.StatusBadRequest},
		{http.MethodGet, "/api/tiles/240", http.StatusNotFound},
		{http.MethodGet, "/api/tiles/-1", http.StatusNotFound},
		{http.MethodPost, "/api/dungeon/regenerate?seed=x", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			var body map[string]string
			if code := getJSON(t, ts, tc.method, tc.path, &body); code != tc.want {
				t.Errorf("status = %d, expected %d", code, tc.want)
			}
			if body["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestGetCollide(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		path string
		hit  bool
	}{
		{"/api/collide?x=0&y=0", true},
		{"/api/collide?x=448&y=448&w=2&h=2", true},
		{"/api/collide?x=100000&y=100000", false},
	}
	for _, tc := range tests {
		var resp CollideResponse
		if code := getJSON(t, ts, http.MethodGet, tc.path, &resp); code != http.StatusOK {
			t.Fatalf("%s status = %d", tc.path, code)
		}
		if resp.Hit != tc.hit {
			t.Errorf("%s hit = %v, expected %v", tc.path, resp.Hit, tc.hit)
		}
	}
}

func TestGetTile(t *testing.T) {
	_, ts := newTestServer(t)
	var tile dungeon.Tile
	if code := getJSON(t, ts, http.MethodGet, "/api/tiles/17", &tile); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if tile.ID != 17 || tile.Col != 1 || tile.Row != 1 {
		t.Errorf("tile = %+v", tile)
	}
}

func TestRegenerate(t *testing.T) {
	s, ts := newTestServer(t)
	var info DungeonInfo
	if code := getJSON(t, ts, http.MethodPost, "/api/dungeon/regenerate?seed=7", &info); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if info.Seed != 7 || info.Tiles != 240 {
		t.Errorf("info = %+v", info)
	}
	if s.dungeon.Seed() != 7 {
		t.Errorf("dungeon seed = %d", s.dungeon.Seed())
	}
}

func TestWebSocketStream(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]float64{"x": 0, "y": 0}); err != nil {
		t.Fatal(err)
	}
	var first TilesResponse
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if len(first.Tiles) != 72 || first.Seen != 72 {
		t.Errorf("first frame: %d tiles, seen %d", len(first.Tiles), first.Seen)
	}

	// Same position again adds nothing new
	if err := conn.WriteJSON(map[string]float64{"x": 0, "y": 0}); err != nil {
		t.Fatal(err)
	}
	var again TilesResponse
	if err := conn.ReadJSON(&again); err != nil {
		t.Fatal(err)
	}
	if again.Seen != 72 {
		t.Errorf("seen after repeat = %d, expected 72", again.Seen)
	}

	if err := conn.WriteJSON(map[string]float64{"x": 320, "y": 0}); err != nil {
		t.Fatal(err)
	}
	var moved TilesResponse
	if err := conn.ReadJSON(&moved); err != nil {
		t.Fatal(err)
	}
	if moved.Seen <= 72 {
		t.Errorf("seen after moving = %d, expected growth", moved.Seen)
	}
}

func TestWebSocketInvalidFrames(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	for _, frame := range []string{"not json", `{"x": 1}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatal(err)
		}
		var body map[string]any
		if err := conn.ReadJSON(&body); err != nil {
			t.Fatal(err)
		}
		if body["error"] == nil {
			t.Errorf("frame %q: expected an error reply, got %v", frame, body)
		}
	}
}

func TestRespondJSONLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	d := dungeon.New(2).GenerateDefault(context.Background())
	s := NewServer(d, dungeon.DefaultViewport(), nil, log.New(&buf))

	rec := httptest.NewRecorder()
	s.respondJSON(rec, http.StatusOK, make(chan int))

	if !strings.Contains(buf.String(), "cannot encode JSON") {
		t.Errorf("encode failure not logged to the server logger, got %q", buf.String())
	}
}

func TestWebSocketDropsSilentClient(t *testing.T) {
	d := dungeon.New(dungeon.DefaultRoomSize).GenerateDefault(context.Background())
	s := NewServer(d, dungeon.DefaultViewport(), nil, log.New(io.Discard))
	s.pongWait = 200 * time.Millisecond
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	// Swallow pings so the server never sees a pong
	conn.SetPingHandler(func(string) error { return nil })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			t.Fatal("server kept a silent connection open")
		}
		return
	}
}

func TestWebSocketKeepsPongingClient(t *testing.T) {
	d := dungeon.New(dungeon.DefaultRoomSize).GenerateDefault(context.Background())
	s := NewServer(d, dungeon.DefaultViewport(), nil, log.New(io.Discard))
	s.pongWait = 200 * time.Millisecond
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	// The default ping handler answers with a pong while reading
	conn.SetReadDeadline(time.Now().Add(600 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	var ne net.Error
	if !errors.As(err, &ne) || !ne.Timeout() {
		t.Fatalf("ReadMessage() = %v, expected the connection to stay open", err)
	}
}
