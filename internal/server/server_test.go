package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visualtopo/pkg/session"
)

const testSceneJSON = `{
  "viewport": {"width": 400, "height": 300},
  "nodes": [
    {"id": "a", "name": "A", "x": 0, "y": 0, "w": 10, "h": 10, "image": "a.png"},
    {"id": "b", "name": "B", "x": 100, "y": 0, "w": 10, "h": 10, "image": "b.png"}
  ],
  "links": [{"id": "ab", "source": "a", "target": "b", "arrowType": "single"}]
}`

func newTestServer(t *testing.T) (*httptest.Server, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(0)
	h := NewHandler(store, log.New(io.Discard))
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, store
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func createScene(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/scenes", testSceneJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /scenes status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var got createResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID == "" || got.Nodes != 2 || got.Links != 1 {
		t.Fatalf("create response = %+v", got)
	}
	if loc := resp.Header.Get("Location"); loc != "/scenes/"+got.ID {
		t.Errorf("Location = %q, want /scenes/%s", loc, got.ID)
	}
	return got.ID
}

func events(t *testing.T, srv *httptest.Server, id, body string) []session.Notification {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/scenes/"+id+"/events", body)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST events status = %d: %s", resp.StatusCode, b)
	}
	var got eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got.Notifications
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestCreateAndSVG(t *testing.T) {
	srv, store := newTestServer(t)
	id := createScene(t, srv)

	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}

	resp := do(t, http.MethodGet, srv.URL+"/scenes/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"<svg", `id="node-a"`, `id="link-ab"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestCreateYAML(t *testing.T) {
	srv, _ := newTestServer(t)

	body := "nodes:\n  - {id: a, x: 0, y: 0, w: 5, h: 5, image: a.png}\nlinks: []\n"
	resp := do(t, http.MethodPost, srv.URL+"/scenes?format=yaml", body)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

func TestClickEvent(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createScene(t, srv)

	notes := events(t, srv, id, `{"type": "click", "kind": "node", "id": "a", "x": 3, "y": 4}`)
	if len(notes) != 1 {
		t.Fatalf("notifications = %+v, want 1", notes)
	}
	want := session.Notification{Event: "node.click", ID: "a", X: 3, Y: 4}
	if notes[0] != want {
		t.Errorf("notification = %+v, want %+v", notes[0], want)
	}

	notes = events(t, srv, id, `{"type": "contextmenu", "kind": "link", "id": "ab"}`)
	if len(notes) != 1 || notes[0].Event != "link.contextmenu" {
		t.Errorf("notifications = %+v, want one link.contextmenu", notes)
	}
}

func TestDragThenClick(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createScene(t, srv)

	notes := events(t, srv, id, `{"type": "drag", "kind": "node", "id": "a", "x": 0, "y": 0, "path": [{"x": 20, "y": 30}]}`)
	if len(notes) != 2 {
		t.Fatalf("notifications = %+v, want drag and dragend", notes)
	}
	if notes[0].Event != "node.drag" || notes[0].X != 20 || notes[0].Y != 30 {
		t.Errorf("notes[0] = %+v, want node.drag at (20, 30)", notes[0])
	}
	if notes[1].Event != "node.dragend" {
		t.Errorf("notes[1].Event = %q, want node.dragend", notes[1].Event)
	}

	// The click delivered on release is swallowed.
	if notes := events(t, srv, id, `{"type": "click", "kind": "node", "id": "a"}`); len(notes) != 0 {
		t.Errorf("click after drag notifications = %+v, want none", notes)
	}
	if notes := events(t, srv, id, `{"type": "click", "kind": "node", "id": "a"}`); len(notes) != 1 {
		t.Errorf("second click notifications = %+v, want one", notes)
	}
}

func TestSceneResizeReset(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createScene(t, srv)

	if resp := do(t, http.MethodPut, srv.URL+"/scenes/"+id+"/size", `{"width": 800, "height": 600}`); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT size status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp := do(t, http.MethodGet, srv.URL+"/scenes/"+id, "")
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `width="800"`) {
		t.Errorf("SVG after resize missing width=\"800\"")
	}

	if resp := do(t, http.MethodPost, srv.URL+"/scenes/"+id+"/reset", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("POST reset status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	resp = do(t, http.MethodGet, srv.URL+"/scenes/"+id+"/scene", "")
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var sc struct {
		Viewport struct{ Width, Height float64 }
		Nodes    []struct {
			ID   string
			X, Y float64
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if sc.Viewport.Width != 800 || sc.Viewport.Height != 600 {
		t.Errorf("viewport = %+v, want 800x600", sc.Viewport)
	}
	if len(sc.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(sc.Nodes))
	}
	// Reset restores the pre-fit geometry and then fits again.
	if sc.Nodes[0].Y != 300 {
		t.Errorf("node a y = %v, want 300", sc.Nodes[0].Y)
	}
}

func TestDelete(t *testing.T) {
	srv, store := newTestServer(t)
	id := createScene(t, srv)

	if resp := do(t, http.MethodDelete, srv.URL+"/scenes/"+id, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
	if resp := do(t, http.MethodGet, srv.URL+"/scenes/"+id, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createScene(t, srv)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		status   int
		wantCode string
	}{
		{"unknown session", http.MethodGet, "/scenes/nope", "", http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"delete unknown", http.MethodDelete, "/scenes/nope", "", http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"malformed scene", http.MethodPost, "/scenes", "{", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad arrow", http.MethodPost, "/scenes", `{"nodes": [], "links": [{"id": "x", "arrowType": "triple"}]}`, http.StatusBadRequest, "INVALID_ARROW"},
		{"bad format", http.MethodPost, "/scenes?format=xml", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown kind", http.MethodPost, "/scenes/" + id + "/events", `{"type": "click", "kind": "edge", "id": "a"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown node", http.MethodPost, "/scenes/" + id + "/events", `{"type": "click", "kind": "node", "id": "zz"}`, http.StatusNotFound, "NOT_FOUND"},
		{"unknown field", http.MethodPost, "/scenes/" + id + "/events", `{"type": "click", "target": "a"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad size", http.MethodPut, "/scenes/" + id + "/size", `{"width": -1, "height": 10}`, http.StatusBadRequest, "INVALID_GEOMETRY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body map[string]errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if got := body["error"].Code; got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}
