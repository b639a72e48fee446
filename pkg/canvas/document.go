package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

const svgNS = "http://www.w3.org/2000/svg"

type attr struct {
	name, value string
}

type element struct {
	doc       *Document
	kind      Kind
	attrs     []attr
	text      string
	parent    *element
	children  []*element
	listeners map[EventType][]Listener
}

func (e *element) Kind() Kind { return e.kind }

func (e *element) SetAttr(name, value string) Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.setAttr(name, value)
	return e
}

func (e *element) setAttr(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name, value})
}

func (e *element) Attr(name string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.attr(name)
}

func (e *element) attr(name string) string {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value
		}
	}
	return ""
}

func (e *element) SetText(text string) Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.text = text
	return e
}

func (e *element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.text
}

func (e *element) detach() {
	e.parent = nil
	e.listeners = nil
	for _, c := range e.children {
		c.detach()
	}
}

// Document is a retained SVG element tree implementing [Surface].
type Document struct {
	mu         sync.RWMutex
	width      float64
	height     float64
	background string
	root       *element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.root = &element{doc: d, kind: "svg"}
	return d
}

// SetSize implements [Surface].
func (d *Document) SetSize(width, height float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
}

// Size returns the viewport size.
func (d *Document) Size() (width, height float64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.width, d.height
}

// SetBackground implements [Surface].
func (d *Document) SetBackground(color string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.background = color
}

// Background returns the background color.
func (d *Document) Background() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.background
}

// Clear implements [Surface].
func (d *Document) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.root.children {
		c.detach()
	}
	d.root.children = nil
}

// Defs implements [Surface]. The container is kept first among the root's
// children.
func (d *Document) Defs() Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.root.children {
		if c.kind == KindDefs {
			return c
		}
	}
	defs := &element{doc: d, kind: KindDefs, parent: d.root}
	d.root.children = slices.Insert(d.root.children, 0, defs)
	return defs
}

// Append implements [Surface].
func (d *Document) Append(parent Element, kind Kind) Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.root
	if parent != nil {
		p = d.own(parent)
	}
	el := &element{doc: d, kind: kind, parent: p}
	p.children = append(p.children, el)
	return el
}

// Remove implements [Surface].
func (d *Document) Remove(el Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.own(el)
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *element) bool { return c == e })
	e.detach()
}

// Raise implements [Surface].
func (d *Document) Raise(el Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.own(el)
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *element) bool { return c == e })
	p.children = append(p.children, e)
}

// On implements [Surface].
func (d *Document) On(el Element, typ EventType, fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.own(el)
	if e.listeners == nil {
		e.listeners = make(map[EventType][]Listener)
	}
	e.listeners[typ] = append(e.listeners[typ], fn)
}

func (d *Document) own(el Element) *element {
	e, ok := el.(*element)
	if !ok || e.doc != d {
		panic(fmt.Sprintf("canvas: element %v does not belong to this document", el))
	}
	return e
}

func (d *Document) attached(e *element) bool {
	for ; e != nil; e = e.parent {
		if e == d.root {
			return true
		}
	}
	return false
}

// Dispatch delivers ev to el and bubbles it to el's ancestors until a
// listener stops propagation. It reports whether el is attached; events to
// removed elements are dropped.
func (d *Document) Dispatch(el Element, ev *Event) bool {
	d.mu.RLock()
	e := d.own(el)
	if !d.attached(e) {
		d.mu.RUnlock()
		return false
	}
	var chain [][]Listener
	for cur := e; cur != nil; cur = cur.parent {
		chain = append(chain, slices.Clone(cur.listeners[ev.Type]))
	}
	d.mu.RUnlock()

	ev.Target = el
	for _, ls := range chain {
		for _, fn := range ls {
			fn(ev)
		}
		if ev.stopped {
			break
		}
	}
	return true
}

// Click dispatches a primary-button click at (x, y) to el.
func (d *Document) Click(el Element, x, y float64) *Event {
	ev := &Event{Type: EventClick, X: x, Y: y, Button: ButtonPrimary}
	d.Dispatch(el, ev)
	return ev
}

// ContextMenu dispatches a secondary-button context-menu event to el.
// The returned event reports whether the native menu was suppressed.
func (d *Document) ContextMenu(el Element, x, y float64) *Event {
	ev := &Event{Type: EventContextMenu, X: x, Y: y, Button: ButtonSecondary}
	d.Dispatch(el, ev)
	return ev
}

// Point is a pointer position used by [Document.Drag].
type Point struct {
	X, Y float64
}

// Drag performs a drag gesture on el: drag start at from, one drag event per
// move, and drag end at the last position.
func (d *Document) Drag(el Element, from Point, moves ...Point) {
	last := from
	d.Dispatch(el, &Event{Type: EventDragStart, X: from.X, Y: from.Y})
	for _, p := range moves {
		d.Dispatch(el, &Event{Type: EventDrag, X: p.X, Y: p.Y})
		last = p
	}
	d.Dispatch(el, &Event{Type: EventDragEnd, X: last.X, Y: last.Y})
}

// Find returns the first element in document order whose id attribute is id.
func (d *Document) Find(id string) (Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found *element
	d.walk(d.root, func(e *element) bool {
		if e.attr("id") == id {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// Elements returns every attached element of the given kind in document order.
func (d *Document) Elements(kind Kind) []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Element
	d.walk(d.root, func(e *element) bool {
		if e.kind == kind {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Children returns el's children in draw order; nil el means the root.
func (d *Document) Children(el Element) []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p := d.root
	if el != nil {
		p = d.own(el)
	}
	out := make([]Element, len(p.children))
	for i, c := range p.children {
		out[i] = c
	}
	return out
}

// Parent returns el's parent, or nil for top-level and detached elements.
func (d *Document) Parent(el Element) Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e := d.own(el)
	if e.parent == nil || e.parent == d.root {
		return nil
	}
	return e.parent
}

func (d *Document) walk(e *element, fn func(*element) bool) bool {
	for _, c := range e.children {
		if !fn(c) || !d.walk(c, fn) {
			return false
		}
	}
	return true
}

// WriteSVG serializes the document as a standalone SVG.
func (d *Document) WriteSVG(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="%s" width="%s" height="%s" viewBox="0 0 %s %s"`,
		svgNS, Num(d.width), Num(d.height), Num(d.width), Num(d.height))
	if d.background != "" {
		fmt.Fprintf(&buf, ` style="background-color: %s"`, escape(d.background))
	}
	buf.WriteString(">\n")
	for _, c := range d.root.children {
		writeElement(&buf, c, 1)
	}
	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// SVG returns the serialized document.
func (d *Document) SVG() []byte {
	var buf bytes.Buffer
	_ = d.WriteSVG(&buf)
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, e *element, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent + "<" + string(e.kind))
	for _, a := range e.attrs {
		if a.value == "" {
			continue
		}
		fmt.Fprintf(buf, ` %s="%s"`, a.name, escape(a.value))
	}
	switch {
	case len(e.children) == 0 && e.text == "":
		buf.WriteString("/>\n")
	case len(e.children) == 0:
		buf.WriteString(">" + escape(e.text) + "</" + string(e.kind) + ">\n")
	default:
		buf.WriteString(">\n")
		if e.text != "" {
			buf.WriteString(indent + "  " + escape(e.text) + "\n")
		}
		for _, c := range e.children {
			writeElement(buf, c, depth+1)
		}
		buf.WriteString(indent + "</" + string(e.kind) + ">\n")
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
