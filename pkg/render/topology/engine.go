package topology

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/geometry"
	"github.com/matzehuels/visualtopo/pkg/observability"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Config sets the viewport. Zero values fall back to the scene defaults.
type Config struct {
	Width      float64
	Height     float64
	Background string
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = scene.DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = scene.DefaultHeight
	}
	if c.Background == "" {
		c.Background = scene.DefaultBackground
	}
	return c
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) { e.ctx = ctx }
}

// WithScheduler replaces the wall-clock scheduler driving blink timers.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithBlinkPeriod sets the interval between image toggles.
func WithBlinkPeriod(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.period = d
		}
	}
}

// WithoutFit disables the viewport fit on render; nodes are drawn at their
// given coordinates.
func WithoutFit() Option {
	return func(e *Engine) { e.fit = false }
}

// Engine renders a scene onto a surface and routes pointer events to the
// registered handlers.
type Engine struct {
	mu sync.Mutex

	surface canvas.Surface
	cfg     Config
	store   *scene.Store
	logger  *log.Logger
	ctx     context.Context
	fit     bool

	scheduler Scheduler
	period    time.Duration
	blink     *Blinker

	handlers handlers
	drag     dragState

	// generation increments on every full render and clear; blink ticks
	// scheduled under an older generation are dropped.
	generation uint64
	drawn      drawn
}

// New creates an engine drawing onto surface and applies the viewport
// configuration to it.
func New(surface canvas.Surface, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		surface: surface,
		cfg:     cfg.withDefaults(),
		store:   scene.NewStore(),
		logger:  log.New(io.Discard),
		ctx:     context.Background(),
		fit:     true,
		period:  scene.DefaultBlinkPeriod,
		drawn:   newDrawn(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.scheduler == nil {
		e.scheduler = TickerScheduler{}
	}
	e.blink = NewBlinker(e.scheduler, e.period)
	e.configure()
	return e
}

func (e *Engine) configure() {
	e.surface.SetSize(e.cfg.Width, e.cfg.Height)
	e.surface.SetBackground(e.cfg.Background)
}

// Config returns the current viewport configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetNodes replaces the node list. The engine keeps the caller's pointers.
func (e *Engine) SetNodes(nodes []*scene.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if dups := e.store.SetNodes(nodes); len(dups) > 0 {
		e.logger.Warn("duplicate node ids, last one wins", "ids", dups)
	}
}

// SetLinks replaces the link list.
func (e *Engine) SetLinks(links []*scene.Link) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.SetLinks(links)
}

// Graph returns the current node and link lists.
func (e *Engine) Graph() (nodes []*scene.Node, links []*scene.Link) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Nodes(), e.store.Links()
}

// CopyGraph returns copies of the current nodes and links taken under the
// engine lock. Later drags and fits do not affect them.
func (e *Engine) CopyGraph() (nodes []*scene.Node, links []*scene.Link) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.store.Nodes() {
		if n == nil {
			continue
		}
		c := *n
		nodes = append(nodes, &c)
	}
	for _, l := range e.store.Links() {
		if l == nil {
			continue
		}
		c := *l
		links = append(links, &c)
	}
	return nodes, links
}

// Node looks up a node by id.
func (e *Engine) Node(id string) (*scene.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Node(id)
}

// Render clears the surface and redraws the whole scene.
func (e *Engine) Render() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.render()
}

func (e *Engine) render() {
	start := time.Now()
	nodes, links := e.store.Len()
	observability.Render().OnRenderStart(e.ctx, nodes, links)

	e.stopBlinking()
	e.generation++
	e.surface.Clear()
	e.drawn = newDrawn()

	scale := 1.0
	if e.fit {
		scale = geometry.FitToViewport(e.store.Nodes(), e.cfg.Width, e.cfg.Height).Scale
	}

	e.drawLinks()
	e.drawNodes()
	e.drawLabels()

	elapsed := time.Since(start)
	e.logger.Debug("rendered scene", "nodes", nodes, "links", links, "scale", scale, "elapsed", elapsed)
	observability.Render().OnRenderComplete(e.ctx, scale, elapsed)
}

// UpdateSize changes the viewport size and redraws. A non-positive
// dimension keeps its current value.
func (e *Engine) UpdateSize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if width <= 0 || height <= 0 {
		e.logger.Debug("ignoring non-positive viewport dimension", "width", width, "height", height)
	}
	if width > 0 {
		e.cfg.Width = width
	}
	if height > 0 {
		e.cfg.Height = height
	}
	width, height = e.cfg.Width, e.cfg.Height
	e.surface.SetSize(width, height)
	e.render()
}

// ResetView restores every node's pre-fit geometry and redraws.
func (e *Engine) ResetView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	geometry.Restore(e.store.Nodes())
	e.render()
}

// Clear empties the scene, stops all blink timers and removes every drawn
// element. Registered handlers are kept.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clear()
}

func (e *Engine) clear() {
	e.store.Clear()
	e.stopBlinking()
	e.generation++
	e.drag = dragState{}
	e.surface.Clear()
	e.drawn = newDrawn()
}

// Destroy stops timers, removes every handler and clears the scene.
// The engine can be reused afterwards.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = handlers{}
	e.clear()
}

// NodeElement returns the image drawn for the node that id resolves to.
func (e *Engine) NodeElement(id string) (canvas.Element, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.store.Node(id)
	if !ok {
		return nil, false
	}
	el, ok := e.drawn.images[n]
	return el, ok
}

// LinkElement returns the group drawn for the first link with id.
func (e *Engine) LinkElement(id string) (canvas.Element, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.store.Links() {
		if l != nil && l.ID == id {
			el, ok := e.drawn.groups[l]
			return el, ok
		}
	}
	return nil, false
}

// Blinking returns the ids of nodes with an active blink timer, sorted.
func (e *Engine) Blinking() []string {
	return e.blink.Active()
}

// Dragging reports whether a drag gesture is in progress.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.active
}
