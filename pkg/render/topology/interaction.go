package topology

import (
	"slices"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/observability"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Handler signatures. Click-style handlers receive the originating event;
// drag handlers receive the node's new position.
type (
	NodeClickHandler      func(n *scene.Node, ev *canvas.Event)
	LinkClickHandler      func(l *scene.Link, ev *canvas.Event)
	NodeRightClickHandler func(n *scene.Node, ev *canvas.Event)
	LinkRightClickHandler func(l *scene.Link, ev *canvas.Event)
	NodeDragHandler       func(n *scene.Node, x, y float64)
	NodeDragEndHandler    func(n *scene.Node, x, y float64)
)

// Event kinds reported to the interaction hooks.
const (
	kindNodeClick      = "node.click"
	kindNodeRightClick = "node.contextmenu"
	kindLinkClick      = "link.click"
	kindLinkRightClick = "link.contextmenu"
	kindNodeDrag       = "node.drag"
	kindNodeDragEnd    = "node.dragend"
)

type handlers struct {
	nodeClick      []NodeClickHandler
	linkClick      []LinkClickHandler
	nodeRightClick []NodeRightClickHandler
	linkRightClick []LinkRightClickHandler
	nodeDrag       []NodeDragHandler
	nodeDragEnd    []NodeDragEndHandler
}

// dragState is the drag state machine shared by all nodes.
type dragState struct {
	active bool
	moved  bool
	// ended is the element whose drag just finished after moving; the click
	// the substrate delivers on release is swallowed for it.
	ended canvas.Element
}

// OnNodeClick registers a handler for clicks on nodes.
func (e *Engine) OnNodeClick(h NodeClickHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers.nodeClick = append(e.handlers.nodeClick, h)
}

// OnLinkClick registers a handler for clicks on links.
func (e *Engine) OnLinkClick(h LinkClickHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers.linkClick = append(e.handlers.linkClick, h)
}

// OnNodeRightClick registers a handler for context-menu events on nodes.
func (e *Engine) OnNodeRightClick(h NodeRightClickHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers.nodeRightClick = append(e.handlers.nodeRightClick, h)
}

// OnLinkRightClick registers a handler for context-menu events on links.
func (e *Engine) OnLinkRightClick(h LinkRightClickHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers.linkRightClick = append(e.handlers.linkRightClick, h)
}

// OnNodeDrag registers a handler called on every drag move.
func (e *Engine) OnNodeDrag(h NodeDragHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers.nodeDrag = append(e.handlers.nodeDrag, h)
}

// OnNodeDragEnd registers a handler called when a drag gesture ends.
func (e *Engine) OnNodeDragEnd(h NodeDragEndHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers.nodeDragEnd = append(e.handlers.nodeDragEnd, h)
}

// RemoveAllEventHandlers empties all six handler lists at once.
func (e *Engine) RemoveAllEventHandlers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = handlers{}
}

// suppressClick reports whether a click on el belongs to a drag gesture.
// It consumes the drag-ended latch either way, so only the click directly
// following the drag is swallowed.
//
// Must be called with e.mu held.
func (e *Engine) suppressClick(el canvas.Element) bool {
	ended := e.drag.ended
	e.drag.ended = nil
	if e.drag.active {
		e.drag.active = false
		return true
	}
	return ended != nil && ended == el
}

func (e *Engine) handleNodeClick(n *scene.Node, img canvas.Element, ev *canvas.Event, right bool) {
	kind := kindNodeClick
	if right {
		kind = kindNodeRightClick
		ev.PreventDefault()
	}

	e.mu.Lock()
	if e.suppressClick(img) {
		e.mu.Unlock()
		e.logger.Debug("click suppressed after drag", "node", n.ID, "kind", kind)
		observability.Interaction().OnClickSuppressed(e.ctx, kind, n.ID)
		return
	}
	var hs []func(*scene.Node, *canvas.Event)
	if right {
		for _, h := range e.handlers.nodeRightClick {
			hs = append(hs, h)
		}
	} else {
		for _, h := range e.handlers.nodeClick {
			hs = append(hs, h)
		}
	}
	e.mu.Unlock()

	for _, h := range hs {
		h(n, ev)
	}
	observability.Interaction().OnEvent(e.ctx, kind, n.ID, len(hs))
}

func (e *Engine) handleLinkClick(l *scene.Link, ev *canvas.Event, right bool) {
	kind := kindLinkClick
	if right {
		kind = kindLinkRightClick
		ev.PreventDefault()
	}
	ev.StopPropagation()

	e.mu.Lock()
	if e.suppressClick(nil) {
		e.mu.Unlock()
		observability.Interaction().OnClickSuppressed(e.ctx, kind, l.ID)
		return
	}
	var hs []func(*scene.Link, *canvas.Event)
	if right {
		for _, h := range e.handlers.linkRightClick {
			hs = append(hs, h)
		}
	} else {
		for _, h := range e.handlers.linkClick {
			hs = append(hs, h)
		}
	}
	e.mu.Unlock()

	for _, h := range hs {
		h(l, ev)
	}
	observability.Interaction().OnEvent(e.ctx, kind, l.ID, len(hs))
}

func (e *Engine) handleDragStart(n *scene.Node, img canvas.Element, _ *canvas.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag = dragState{active: true}
	e.surface.Raise(img)
	e.logger.Debug("drag started", "node", n.ID)
}

func (e *Engine) handleDrag(n *scene.Node, ev *canvas.Event) {
	e.mu.Lock()
	n.X, n.Y = ev.X, ev.Y
	e.drag.moved = true
	if img, ok := e.drawn.images[n]; ok {
		placeImage(img, n)
	}
	if t, ok := e.drawn.labels[n]; ok {
		placeLabel(t, n)
	}
	e.rerouteLinks(n.ID)
	hs := slices.Clone(e.handlers.nodeDrag)
	x, y := n.X, n.Y
	e.mu.Unlock()

	for _, h := range hs {
		h(n, x, y)
	}
	observability.Interaction().OnEvent(e.ctx, kindNodeDrag, n.ID, len(hs))
}

func (e *Engine) handleDragEnd(n *scene.Node, img canvas.Element, _ *canvas.Event) {
	e.mu.Lock()
	if e.drag.moved {
		e.drag.ended = img
	}
	e.drag.active = false
	e.drag.moved = false
	hs := slices.Clone(e.handlers.nodeDragEnd)
	x, y := n.X, n.Y
	e.mu.Unlock()

	e.logger.Debug("drag ended", "node", n.ID, "x", x, "y", y)
	for _, h := range hs {
		h(n, x, y)
	}
	observability.Interaction().OnEvent(e.ctx, kindNodeDragEnd, n.ID, len(hs))
}
