package topology

import (
	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/geometry"
	"github.com/matzehuels/visualtopo/pkg/observability"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Element id prefixes. Hosts resolve pointer targets by these ids.
const (
	LinkIDPrefix      = "link-"
	NodeIDPrefix      = "node-"
	LabelIDPrefix     = "label-"
	MarkerEndPrefix   = "arrowhead-"
	MarkerStartPrefix = "reverseArrowhead-"
)

const arrowPath = "M 0 0 L 10 5 L 0 10 z"

// drawn indexes the elements of the current render by entity pointer, so
// duplicate ids never alias each other's elements.
type drawn struct {
	groups  map[*scene.Link]canvas.Element
	paths   map[*scene.Link]canvas.Element
	images  map[*scene.Node]canvas.Element
	labels  map[*scene.Node]canvas.Element
	markers map[string]canvas.Element

	// blinking holds the image whose timer currently runs for each node id.
	blinking map[string]blinkTarget
}

type blinkTarget struct {
	node *scene.Node
	img  canvas.Element
}

func newDrawn() drawn {
	return drawn{
		groups:   make(map[*scene.Link]canvas.Element),
		paths:    make(map[*scene.Link]canvas.Element),
		images:   make(map[*scene.Node]canvas.Element),
		labels:   make(map[*scene.Node]canvas.Element),
		markers:  make(map[string]canvas.Element),
		blinking: make(map[string]blinkTarget),
	}
}

func (e *Engine) drawLinks() {
	links := e.store.Links()
	if len(links) == 0 {
		return
	}
	defs := e.surface.Defs()

	for _, l := range links {
		if l == nil {
			continue
		}
		g := e.surface.Append(nil, canvas.KindGroup).
			SetAttr("id", LinkIDPrefix+l.ID).
			SetAttr("class", "link-group").
			SetAttr("style", "cursor: pointer")

		color := l.StrokeColor()
		p := e.surface.Append(g, canvas.KindPath).
			SetAttr("class", "link").
			SetAttr("d", e.linkPath(l)).
			SetAttr("fill", "none").
			SetAttr("stroke", color).
			SetAttr("stroke-width", canvas.Num(l.Width())).
			SetAttr("stroke-dasharray", l.StrokeDasharray)

		if l.Arrow.HasEnd() {
			id := MarkerEndPrefix + l.ID
			e.marker(defs, id, color, "8", "auto")
			p.SetAttr("marker-end", canvas.URL(id))
		}
		if l.Arrow.HasStart() {
			id := MarkerStartPrefix + l.ID
			e.marker(defs, id, color, "2", "auto-start-reverse")
			p.SetAttr("marker-start", canvas.URL(id))
		}

		e.drawn.groups[l] = g
		e.drawn.paths[l] = p

		e.surface.On(g, canvas.EventClick, func(ev *canvas.Event) { e.handleLinkClick(l, ev, false) })
		e.surface.On(g, canvas.EventContextMenu, func(ev *canvas.Event) { e.handleLinkClick(l, ev, true) })
	}
}

// linkPath returns the boundary-to-boundary path for l, or "" when an
// endpoint does not resolve.
func (e *Engine) linkPath(l *scene.Link) string {
	src, dst, ok := e.store.Resolve(l)
	if !ok {
		e.logger.Debug("link endpoint missing, drawing empty path", "link", l.ID, "source", l.Source, "target", l.Target)
		observability.Render().OnDanglingLink(e.ctx, l.ID)
		return ""
	}
	return geometry.LinkPath(src, dst)
}

// marker defines an arrowhead tinted with color. An existing marker with the
// same id is replaced.
func (e *Engine) marker(defs canvas.Element, id, color, refX, orient string) {
	if old, ok := e.drawn.markers[id]; ok {
		e.surface.Remove(old)
	}
	m := e.surface.Append(defs, canvas.KindMarker).
		SetAttr("id", id).
		SetAttr("viewBox", "0 0 10 10").
		SetAttr("refX", refX).
		SetAttr("refY", "5").
		SetAttr("markerWidth", "6").
		SetAttr("markerHeight", "6").
		SetAttr("orient", orient)
	e.surface.Append(m, canvas.KindPath).
		SetAttr("d", arrowPath).
		SetAttr("fill", color)
	e.drawn.markers[id] = m
}

func (e *Engine) drawNodes() {
	for _, n := range e.store.Nodes() {
		if n == nil {
			continue
		}
		img := e.surface.Append(nil, canvas.KindImage).
			SetAttr("id", NodeIDPrefix+n.ID).
			SetAttr("class", "node").
			SetAttr("width", canvas.Num(n.H*2)).
			SetAttr("height", canvas.Num(n.H*2)).
			SetAttr("href", n.Image).
			SetAttr("style", "cursor: pointer")
		placeImage(img, n)
		e.drawn.images[n] = img

		e.surface.On(img, canvas.EventClick, func(ev *canvas.Event) { e.handleNodeClick(n, img, ev, false) })
		e.surface.On(img, canvas.EventContextMenu, func(ev *canvas.Event) { e.handleNodeClick(n, img, ev, true) })
		e.surface.On(img, canvas.EventDragStart, func(ev *canvas.Event) { e.handleDragStart(n, img, ev) })
		e.surface.On(img, canvas.EventDrag, func(ev *canvas.Event) { e.handleDrag(n, ev) })
		e.surface.On(img, canvas.EventDragEnd, func(ev *canvas.Event) { e.handleDragEnd(n, img, ev) })

		if n.HasError() {
			e.startBlinking(n, img)
		}
	}
}

func (e *Engine) drawLabels() {
	for _, n := range e.store.Nodes() {
		if n == nil {
			continue
		}
		t := e.surface.Append(nil, canvas.KindText).
			SetAttr("id", LabelIDPrefix+n.ID).
			SetAttr("class", "label").
			SetAttr("text-anchor", "middle").
			SetAttr("dominant-baseline", "middle").
			SetAttr("fill", scene.DefaultLabelFill).
			SetAttr("font-size", canvas.Num(FontSize(n))+"px").
			SetText(n.Name)
		placeLabel(t, n)
		e.drawn.labels[n] = t
	}
}

// FontSize is the label font size for n: half its radius, capped at 14.
func FontSize(n *scene.Node) float64 {
	return min(scene.MaxFontSize, n.H/2)
}

func placeImage(img canvas.Element, n *scene.Node) {
	img.SetAttr("x", canvas.Num(n.X-n.H)).SetAttr("y", canvas.Num(n.Y-n.H))
}

func placeLabel(t canvas.Element, n *scene.Node) {
	t.SetAttr("x", canvas.Num(n.X)).SetAttr("y", canvas.Num(n.Y+n.H+scene.LabelGap))
}

// rerouteLinks recomputes the paths of every drawn link touching id.
func (e *Engine) rerouteLinks(id string) {
	for _, l := range e.store.LinksTouching(id) {
		p, ok := e.drawn.paths[l]
		if !ok {
			continue
		}
		if src, dst, ok := e.store.Resolve(l); ok {
			p.SetAttr("d", geometry.LinkPath(src, dst))
		}
	}
}
