// Package session manages live topology scenes for the HTTP host.
//
// A [Session] owns one engine and the in-memory document it draws on.
// Pointer events posted by a client are dispatched to the drawn elements and
// the handler notifications they trigger are returned to the caller.
//
// # Lifecycle
//
// Sessions expire after a period without use. The [Store] interface keeps
// the door open for other backends; [MemoryStore] is the only one, since an
// engine holds live timers and cannot be serialized.
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	sess, err := session.New(sc, logger)
//	store.Set(ctx, sess)
//	notes, err := sess.Dispatch(session.Event{Type: "click", Kind: "node", ID: "a"})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/errors"
	"github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Event kinds and types accepted by [Session.Dispatch].
const (
	KindNode = "node"
	KindLink = "link"

	TypeClick       = "click"
	TypeContextMenu = "contextmenu"
	TypeDrag        = "drag"
)

// Event is a pointer gesture posted by a client.
type Event struct {
	Type string  `json:"type"`
	Kind string  `json:"kind"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	// Path lists the drag positions after the start point (drag only).
	Path []canvas.Point `json:"path,omitempty"`
}

// Notification records one handler invocation caused by an event.
type Notification struct {
	Event string  `json:"event"`
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Session is one live scene.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
	doc      *canvas.Document
	engine   *topology.Engine
	pending  []Notification
}

// New builds a session from a decoded scene and renders it.
func New(sc *io.Scene, logger *log.Logger, opts ...topology.Option) (*Session, error) {
	w, h, bg := sc.Size()
	cfg := topology.Config{Width: w, Height: h, Background: bg}
	if w != 0 || h != 0 {
		if err := errors.ValidateViewport(w, h); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastUsed:  now,
		doc:       canvas.NewDocument(),
	}
	if logger != nil {
		logger = logger.With("session", s.ID)
	}
	opts = append([]topology.Option{topology.WithLogger(logger)}, opts...)
	s.engine = topology.New(s.doc, cfg, opts...)
	s.subscribe()

	s.engine.SetNodes(sc.Nodes)
	s.engine.SetLinks(sc.Links)
	s.engine.Render()
	return s, nil
}

func (s *Session) subscribe() {
	e := s.engine
	e.OnNodeClick(func(n *scene.Node, ev *canvas.Event) { s.note("node.click", n.ID, ev.X, ev.Y) })
	e.OnNodeRightClick(func(n *scene.Node, ev *canvas.Event) { s.note("node.contextmenu", n.ID, ev.X, ev.Y) })
	e.OnLinkClick(func(l *scene.Link, ev *canvas.Event) { s.note("link.click", l.ID, ev.X, ev.Y) })
	e.OnLinkRightClick(func(l *scene.Link, ev *canvas.Event) { s.note("link.contextmenu", l.ID, ev.X, ev.Y) })
	e.OnNodeDrag(func(n *scene.Node, x, y float64) { s.note("node.drag", n.ID, x, y) })
	e.OnNodeDragEnd(func(n *scene.Node, x, y float64) { s.note("node.dragend", n.ID, x, y) })
}

// note is only reached from Dispatch, which holds s.mu.
func (s *Session) note(event, id string, x, y float64) {
	s.pending = append(s.pending, Notification{Event: event, ID: id, X: x, Y: y})
}

// Dispatch delivers ev to the drawn element it names and returns the handler
// notifications it caused, in order.
func (s *Session) Dispatch(ev Event) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	var (
		el canvas.Element
		ok bool
	)
	switch ev.Kind {
	case KindNode:
		el, ok = s.engine.NodeElement(ev.ID)
	case KindLink:
		el, ok = s.engine.LinkElement(ev.ID)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown event kind %q (must be node or link)", ev.Kind)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "%s %q is not drawn", ev.Kind, ev.ID)
	}

	s.pending = nil
	switch ev.Type {
	case TypeClick:
		s.doc.Click(el, ev.X, ev.Y)
	case TypeContextMenu:
		s.doc.ContextMenu(el, ev.X, ev.Y)
	case TypeDrag:
		if ev.Kind != KindNode {
			return nil, errors.New(errors.ErrCodeInvalidInput, "only nodes can be dragged")
		}
		s.doc.Drag(el, canvas.Point{X: ev.X, Y: ev.Y}, ev.Path...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown event type %q", ev.Type)
	}

	notes := s.pending
	s.pending = nil
	if notes == nil {
		notes = []Notification{}
	}
	return notes, nil
}

// SVG returns the current drawing.
func (s *Session) SVG() []byte {
	s.touch()
	return s.doc.SVG()
}

// Resize changes the viewport and redraws.
func (s *Session) Resize(width, height float64) error {
	if err := errors.ValidateViewport(width, height); err != nil {
		return err
	}
	s.touch()
	s.engine.UpdateSize(width, height)
	return nil
}

// Reset restores the pre-fit geometry and redraws.
func (s *Session) Reset() {
	s.touch()
	s.engine.ResetView()
}

// Scene returns a copy of the current node and link lists.
func (s *Session) Scene() *io.Scene {
	s.touch()
	nodes, links := s.engine.CopyGraph()
	cfg := s.engine.Config()
	return &io.Scene{
		Viewport: &io.Viewport{Width: cfg.Width, Height: cfg.Height, Background: cfg.Background},
		Nodes:    nodes,
		Links:    links,
	}
}

// Close stops the session's timers and releases its drawing.
func (s *Session) Close() {
	s.engine.Destroy()
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastUsed) > ttl
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. Unknown and expired sessions return an
	// error with code SESSION_NOT_FOUND.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete closes and removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup closes and removes expired sessions and returns how many.
	Cleanup(ctx context.Context) (int, error)
}
