package canvas

// EventType names a pointer event.
type EventType string

const (
	EventClick       EventType = "click"
	EventContextMenu EventType = "contextmenu"
	EventDragStart   EventType = "dragstart"
	EventDrag        EventType = "drag"
	EventDragEnd     EventType = "dragend"
)

// Mouse buttons.
const (
	ButtonPrimary   = 0
	ButtonSecondary = 2
)

// Event is a pointer event in canvas coordinates.
type Event struct {
	Type   EventType
	X, Y   float64
	Button int

	// Target is the element the event was dispatched to. Set by Dispatch.
	Target Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the substrate's default action, such as the
// native context menu.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from bubbling to ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }
