package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/baleybots/go-bal/config"
	"github.com/baleybots/go-bal/store"
)

func newTestServer(t *testing.T, cfg config.WebConfig) (*Server, *httptest.Server) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	s := NewServer(st, nil, cfg, 16, "test")
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleParse(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{})

	resp := postJSON(t, ts.URL+"/api/parse", `{"source":"scout { \"goal\": \"find\" }"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Entities []struct {
			Name string `json:"name"`
		} `json:"entities"`
		Errors []string `json:"errors"`
	}
	decode(t, resp, &out)

	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if len(out.Entities) != 1 || out.Entities[0].Name != "scout" {
		t.Errorf("unexpected entities: %+v", out.Entities)
	}
}

func TestHandleParse_BrokenSource(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{})

	resp := postJSON(t, ts.URL+"/api/parse", `{"source":"broken {"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for broken source, got %d", resp.StatusCode)
	}

	var out struct {
		Errors []string `json:"errors"`
	}
	decode(t, resp, &out)
	if len(out.Errors) == 0 {
		t.Error("expected parse errors in response body")
	}
}

func TestHandleVisual(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{})

	resp := postJSON(t, ts.URL+"/api/visual",
		`{"source":"a { \"goal\": \"1\" }\nb { \"goal\": \"2\" }\nchain { a b }"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Graph struct {
			Nodes []json.RawMessage `json:"nodes"`
			Edges []json.RawMessage `json:"edges"`
		} `json:"graph"`
		Errors []string `json:"errors"`
	}
	decode(t, resp, &out)

	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if len(out.Graph.Nodes) != 2 || len(out.Graph.Edges) != 1 {
		t.Errorf("unexpected graph shape: %d nodes %d edges",
			len(out.Graph.Nodes), len(out.Graph.Edges))
	}
}

func TestProgramLifecycle(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{})

	// Save
	resp := postJSON(t, ts.URL+"/api/programs",
		`{"name":"digest","source":"scout { \"goal\": \"find\" }"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", resp.StatusCode)
	}
	var saved struct {
		ID       string `json:"id"`
		Entities int    `json:"entities"`
	}
	decode(t, resp, &saved)
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}
	if saved.Entities != 1 {
		t.Errorf("expected 1 entity recorded, got %d", saved.Entities)
	}

	// Get
	resp, err := http.Get(ts.URL + "/api/programs/" + saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Graph for stored program
	resp, err = http.Get(ts.URL + "/api/programs/" + saved.ID + "/graph")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("graph: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// SVG for stored program
	resp, err = http.Get(ts.URL + "/api/programs/" + saved.ID + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("svg: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected svg content type, got %q", ct)
	}
	resp.Body.Close()

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/programs/"+saved.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/programs/" + saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestProgramSVG_BrokenProgram(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{})

	resp := postJSON(t, ts.URL+"/api/programs", `{"name":"bad","source":"broken {"}`)
	var saved struct {
		ID string `json:"id"`
	}
	decode(t, resp, &saved)

	resp, err := http.Get(ts.URL + "/api/programs/" + saved.ID + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for broken program, got %d", resp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{Auth: "secret"})

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/status", nil)
	req.SetBasicAuth("", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with credentials, got %d", resp.StatusCode)
	}
}

func TestWebSocketLiveParse(t *testing.T) {
	_, ts := newTestServer(t, config.WebConfig{})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`scout { "goal": "find" }`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev struct {
		Type    string `json:"type"`
		Payload struct {
			Entities []struct {
				Name string `json:"name"`
			} `json:"entities"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if ev.Type != "parse_result" {
		t.Errorf("expected parse_result event, got %q", ev.Type)
	}
	if len(ev.Payload.Entities) != 1 || ev.Payload.Entities[0].Name != "scout" {
		t.Errorf("unexpected payload: %+v", ev.Payload)
	}
}

func TestWebSocketBroadcastDuringLiveParse(t *testing.T) {
	// Hub broadcasts and live-parse replies target the same connection
	// from different goroutines; the client write lock must serialize
	// them so neither path trips the one-writer-per-conn rule.
	s, ts := newTestServer(t, config.WebConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// One round trip first, so the server has registered the client
	// before any broadcast is queued.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`scout { "goal": "find" }`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read: %v", err)
	}

	const n = 100

	go func() {
		for i := 0; i < n; i++ {
			s.hub.Broadcast(Event{Type: "program_saved", Payload: map[string]int{"seq": i}})
		}
	}()
	go func() {
		for i := 0; i < n; i++ {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`scout { "goal": "find" }`)); err != nil {
				return
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	replies, broadcasts := 0, 0
	for replies < n || broadcasts < n {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read after %d replies and %d broadcasts: %v", replies, broadcasts, err)
		}
		var ev struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		switch ev.Type {
		case "parse_result":
			replies++
		case "program_saved":
			broadcasts++
		default:
			t.Fatalf("unexpected event type %q", ev.Type)
		}
	}
}
