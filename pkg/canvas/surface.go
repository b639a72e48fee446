package canvas

import "strconv"

// Kind is the SVG element type of a primitive.
type Kind string

const (
	KindGroup  Kind = "g"
	KindPath   Kind = "path"
	KindImage  Kind = "image"
	KindText   Kind = "text"
	KindDefs   Kind = "defs"
	KindMarker Kind = "marker"
)

// Element is a drawn primitive.
//
// Setters return the element so calls chain the way selection APIs do.
type Element interface {
	Kind() Kind
	SetAttr(name, value string) Element
	Attr(name string) string
	SetText(text string) Element
	Text() string
}

// Listener receives pointer events delivered to an element.
type Listener func(ev *Event)

// Surface creates and manipulates primitives in a 2D coordinate space.
type Surface interface {
	// SetSize sets the viewport size in canvas units.
	SetSize(width, height float64)
	// SetBackground sets the background color.
	SetBackground(color string)
	// Clear removes every element, including definitions and their listeners.
	Clear()
	// Defs returns the definitions container, creating it if needed.
	Defs() Element
	// Append creates a child of parent; a nil parent appends to the root.
	Append(parent Element, kind Kind) Element
	// Remove detaches el and its subtree. Removing a detached element is a no-op.
	Remove(el Element)
	// Raise moves el to the end of its parent's children (top of draw order).
	Raise(el Element)
	// On attaches a listener for typ to el.
	On(el Element, typ EventType, fn Listener)
}

// Num formats a number for an attribute value without trailing zeros.
func Num(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// URL formats a local reference such as url(#arrowhead-l1).
func URL(id string) string { return "url(#" + id + ")" }
