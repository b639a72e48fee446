package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/errors"
	vio "github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

func testScene() *vio.Scene {
	return &vio.Scene{
		Viewport: &vio.Viewport{Width: 400, Height: 300},
		Nodes: []*scene.Node{
			{ID: "a", Name: "A", X: 0, Y: 0, W: 10, H: 10, Image: "a.png"},
			{ID: "b", Name: "B", X: 100, Y: 0, W: 10, H: 10, Image: "b.png"},
		},
		Links: []*scene.Link{
			{ID: "ab", Source: "a", Target: "b", Arrow: scene.ArrowSingle},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(testScene(), nil, topology.WithoutFit())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewRenders(t *testing.T) {
	s := newTestSession(t)

	if s.ID == "" {
		t.Error("session id is empty")
	}
	svg := string(s.SVG())
	for _, want := range []string{`width="400"`, `id="node-a"`, `id="link-ab"`, `d="M 10 0 L 90 0"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG() missing %q", want)
		}
	}
}

func TestNewRejectsBadViewport(t *testing.T) {
	sc := testScene()
	sc.Viewport.Height = -1

	if _, err := New(sc, nil); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("New() error = %v, want %s", err, errors.ErrCodeInvalidGeometry)
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []Notification
	}{
		{
			name: "node click",
			ev:   Event{Type: TypeClick, Kind: KindNode, ID: "a", X: 1, Y: 2},
			want: []Notification{{Event: "node.click", ID: "a", X: 1, Y: 2}},
		},
		{
			name: "link context menu",
			ev:   Event{Type: TypeContextMenu, Kind: KindLink, ID: "ab"},
			want: []Notification{{Event: "link.contextmenu", ID: "ab"}},
		},
		{
			name: "drag",
			ev: Event{Type: TypeDrag, Kind: KindNode, ID: "b", X: 100, Y: 0,
				Path: []canvas.Point{{X: 110, Y: 0}, {X: 120, Y: 5}}},
			want: []Notification{
				{Event: "node.drag", ID: "b", X: 110, Y: 0},
				{Event: "node.drag", ID: "b", X: 120, Y: 5},
				{Event: "node.dragend", ID: "b", X: 120, Y: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			got, err := s.Dispatch(tt.ev)
			if err != nil {
				t.Fatalf("Dispatch() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Dispatch() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("notification[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDispatchClickAfterDragIsSuppressed(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Dispatch(Event{Type: TypeDrag, Kind: KindNode, ID: "a", Path: []canvas.Point{{X: 5, Y: 5}}}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Dispatch(Event{Type: TypeClick, Kind: KindNode, ID: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Dispatch() = %v, want no notifications", got)
	}
}

func TestDispatchErrors(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		code errors.Code
	}{
		{"unknown node", Event{Type: TypeClick, Kind: KindNode, ID: "zzz"}, errors.ErrCodeNotFound},
		{"unknown kind", Event{Type: TypeClick, Kind: "edge", ID: "a"}, errors.ErrCodeInvalidInput},
		{"unknown type", Event{Type: "hover", Kind: KindNode, ID: "a"}, errors.ErrCodeInvalidInput},
		{"drag link", Event{Type: TypeDrag, Kind: KindLink, ID: "ab"}, errors.ErrCodeInvalidInput},
	}

	s := newTestSession(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Dispatch(tt.ev)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestSceneIsACopy(t *testing.T) {
	s := newTestSession(t)

	sc := s.Scene()
	if _, err := s.Dispatch(Event{Type: TypeDrag, Kind: KindNode, ID: "a", Path: []canvas.Point{{X: 30, Y: 40}}}); err != nil {
		t.Fatal(err)
	}
	if a := sc.Nodes[0]; a.X != 0 || a.Y != 0 {
		t.Errorf("earlier Scene() node a = (%v,%v), want (0,0)", a.X, a.Y)
	}
	if a := s.Scene().Nodes[0]; a.X != 30 || a.Y != 40 {
		t.Errorf("Scene() node a = (%v,%v), want (30,40)", a.X, a.Y)
	}

	sc.Nodes[0].X = 999
	if a := s.Scene().Nodes[0]; a.X != 30 {
		t.Errorf("editing a returned scene moved node a to %v", a.X)
	}
}

// Run with -race: drags write node positions while the scene is encoded.
func TestSceneConcurrentWithDispatch(t *testing.T) {
	s := newTestSession(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			ev := Event{Type: TypeDrag, Kind: KindNode, ID: "a", Path: []canvas.Point{{X: float64(i), Y: 1}}}
			if _, err := s.Dispatch(ev); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			if err := vio.Write(s.Scene(), io.Discard, vio.FormatJSON); err != nil {
				t.Error(err)
				return
			}
			s.Reset()
		}
	}()
	wg.Wait()
}

func TestResize(t *testing.T) {
	s := newTestSession(t)

	if err := s.Resize(0, 100); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Resize(0, 100) error = %v, want %s", err, errors.ErrCodeInvalidGeometry)
	}
	if err := s.Resize(1000, 500); err != nil {
		t.Fatalf("Resize() error: %v", err)
	}
	if vp := s.Scene().Viewport; vp.Width != 1000 || vp.Height != 500 {
		t.Errorf("viewport = %+v, want 1000 x 500", vp)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	s := newTestSession(t)

	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v, want the stored session", got, err)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get() after Delete error = %v, want %s", err, errors.ErrCodeSessionNotFound)
	}
	if err := store.Delete(ctx, s.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete() error = %v, want %s", err, errors.ErrCodeSessionNotFound)
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Millisecond)
	s := newTestSession(t)
	if err := store.Set(ctx, s); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := store.Get(ctx, s.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get() of expired session error = %v, want %s", err, errors.ErrCodeSessionNotFound)
	}
	n, err := store.Cleanup(ctx)
	if err != nil || n != 1 {
		t.Errorf("Cleanup() = %d, %v, want 1, nil", n, err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}
