package scene

import (
	"strings"
	"time"

	"github.com/matzehuels/visualtopo/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

// Drawing defaults applied when a link or node leaves a field unset.
const (
	DefaultStroke      = "#94a3b8"
	DefaultStrokeWidth = 1.0
	DefaultLabelFill   = "#333"
	DefaultBackground  = "#f5f5f5"

	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// LabelGap is the vertical distance between a node's edge and its label.
	LabelGap = 20.0
	// MaxFontSize caps the label font size.
	MaxFontSize = 14.0

	DefaultBlinkPeriod = 500 * time.Millisecond
)

// =============================================================================
// ArrowStyle
// =============================================================================

// ArrowStyle selects the arrow markers drawn on a link.
type ArrowStyle int

const (
	// ArrowNone draws no marker.
	ArrowNone ArrowStyle = iota
	// ArrowSingle draws a marker at the target end.
	ArrowSingle
	// ArrowDouble draws markers at both ends.
	ArrowDouble
)

var arrowNames = [...]string{
	ArrowNone:   "none",
	ArrowSingle: "single",
	ArrowDouble: "double",
}

// ParseArrowStyle parses "none", "single" or "double" (case-insensitive).
// The empty string parses as [ArrowNone].
func ParseArrowStyle(s string) (ArrowStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ArrowNone, nil
	case "single":
		return ArrowSingle, nil
	case "double":
		return ArrowDouble, nil
	}
	return ArrowNone, errors.New(errors.ErrCodeInvalidArrow, "unknown arrow style %q (must be none, single or double)", s)
}

// String returns the textual form of the style.
func (a ArrowStyle) String() string {
	if a < ArrowNone || a > ArrowDouble {
		return "invalid"
	}
	return arrowNames[a]
}

// Valid reports whether a is one of the three defined styles.
func (a ArrowStyle) Valid() bool { return a >= ArrowNone && a <= ArrowDouble }

// HasEnd reports whether a marker is drawn at the target end.
func (a ArrowStyle) HasEnd() bool { return a == ArrowSingle || a == ArrowDouble }

// HasStart reports whether a marker is drawn at the source end.
func (a ArrowStyle) HasStart() bool { return a == ArrowDouble }

// MarshalText implements encoding.TextMarshaler.
func (a ArrowStyle) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidArrow, "invalid arrow style %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ArrowStyle) UnmarshalText(text []byte) error {
	v, err := ParseArrowStyle(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// =============================================================================
// Node
// =============================================================================

// Snapshot records whether the viewport fit has been applied to a node and,
// if so, the geometry the node had before it.
type Snapshot struct {
	Transformed bool
	X, Y        float64
	W, H        float64
}

// Node is a positioned, sized, labeled image.
//
// X and Y are the center in canvas units. W and H are half-sizes; H is also
// the radius used to size the image.
type Node struct {
	ID         string  `json:"id" toml:"id" yaml:"id"`
	Name       string  `json:"name" toml:"name" yaml:"name"`
	X          float64 `json:"x" toml:"x" yaml:"x"`
	Y          float64 `json:"y" toml:"y" yaml:"y"`
	W          float64 `json:"w" toml:"w" yaml:"w"`
	H          float64 `json:"h" toml:"h" yaml:"h"`
	Image      string  `json:"image" toml:"image" yaml:"image"`
	ErrorImage string  `json:"errorImage,omitempty" toml:"errorImage,omitempty" yaml:"errorImage,omitempty"`

	Snapshot Snapshot `json:"-" toml:"-" yaml:"-"`
}

// HasError reports whether the node carries an error image and should blink.
func (n *Node) HasError() bool { return n.ErrorImage != "" }

// Radius is the boundary radius used for link endpoints.
func (n *Node) Radius() float64 { return max(n.W, n.H) }

// =============================================================================
// Link
// =============================================================================

// Link connects two nodes by id.
type Link struct {
	ID              string     `json:"id" toml:"id" yaml:"id"`
	Source          string     `json:"source" toml:"source" yaml:"source"`
	Target          string     `json:"target" toml:"target" yaml:"target"`
	Stroke          string     `json:"stroke,omitempty" toml:"stroke,omitempty" yaml:"stroke,omitempty"`
	StrokeWidth     float64    `json:"strokeWidth,omitempty" toml:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
	StrokeDasharray string     `json:"strokeDasharray,omitempty" toml:"strokeDasharray,omitempty" yaml:"strokeDasharray,omitempty"`
	Arrow           ArrowStyle `json:"arrowType,omitempty" toml:"arrowType,omitempty" yaml:"arrowType,omitempty"`
}

// StrokeColor returns the link color, falling back to [DefaultStroke].
func (l *Link) StrokeColor() string {
	if l.Stroke != "" {
		return l.Stroke
	}
	return DefaultStroke
}

// Width returns the stroke width, falling back to [DefaultStrokeWidth].
func (l *Link) Width() float64 {
	if l.StrokeWidth > 0 {
		return l.StrokeWidth
	}
	return DefaultStrokeWidth
}

// Touches reports whether the link has the node id as an endpoint.
func (l *Link) Touches(id string) bool { return l.Source == id || l.Target == id }
