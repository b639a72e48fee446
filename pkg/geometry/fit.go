package geometry

import (
	"math"

	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Margin is the fraction of the viewport the fitted box may occupy.
const Margin = 0.9

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Width() float64   { return b.MaxX - b.MinX }
func (b Bounds) Height() float64  { return b.MaxY - b.MinY }
func (b Bounds) CenterX() float64 { return (b.MinX + b.MaxX) / 2 }
func (b Bounds) CenterY() float64 { return (b.MinY + b.MaxY) / 2 }

// BoundsOf returns the box around all nodes, each padded by H on both axes
// to cover its drawn 2H square. W only sets the intersection radius and does
// not widen the box. ok is false when there are no nodes.
func BoundsOf(nodes []*scene.Node) (b Bounds, ok bool) {
	b = Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		ok = true
		b.MinX = min(b.MinX, n.X-n.H)
		b.MinY = min(b.MinY, n.Y-n.H)
		b.MaxX = max(b.MaxX, n.X+n.H)
		b.MaxY = max(b.MaxY, n.Y+n.H)
	}
	if !ok {
		return Bounds{}, false
	}
	return b, true
}

// Fit is a computed offset-then-scale transform around the viewport center.
type Fit struct {
	OffsetX, OffsetY float64
	Scale            float64
	CenterX, CenterY float64 // viewport center
}

// Identity reports whether applying f leaves every node unchanged.
func (f Fit) Identity() bool {
	return f.OffsetX == 0 && f.OffsetY == 0 && f.Scale == 1
}

// Apply maps a point through the transform.
func (f Fit) Apply(x, y float64) (float64, float64) {
	return (x+f.OffsetX-f.CenterX)*f.Scale + f.CenterX,
		(y+f.OffsetY-f.CenterY)*f.Scale + f.CenterY
}

// ComputeFit returns the transform that centers nodes in a viewport of the
// given size. ok is false when there are no nodes.
//
// A box with zero width or height does not constrain the scale on that axis.
func ComputeFit(nodes []*scene.Node, viewportW, viewportH float64) (Fit, bool) {
	b, ok := BoundsOf(nodes)
	if !ok {
		return Fit{Scale: 1}, false
	}
	cx, cy := viewportW/2, viewportH/2
	f := Fit{
		OffsetX: cx - b.CenterX(),
		OffsetY: cy - b.CenterY(),
		Scale:   1,
		CenterX: cx,
		CenterY: cy,
	}
	if w := b.Width(); w > 0 {
		f.Scale = min(f.Scale, viewportW*Margin/w)
	}
	if h := b.Height(); h > 0 {
		f.Scale = min(f.Scale, viewportH*Margin/h)
	}
	return f, true
}

// FitToViewport computes the fit for nodes and applies it in place: centers
// move through [Fit.Apply] and half-sizes are multiplied by the scale.
// Nodes seen for the first time get their pre-fit geometry snapshotted.
// It returns the applied transform; empty input is a no-op.
func FitToViewport(nodes []*scene.Node, viewportW, viewportH float64) Fit {
	f, ok := ComputeFit(nodes, viewportW, viewportH)
	if !ok {
		return f
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !n.Snapshot.Transformed {
			n.Snapshot = scene.Snapshot{Transformed: true, X: n.X, Y: n.Y, W: n.W, H: n.H}
		}
		n.X, n.Y = f.Apply(n.X, n.Y)
		n.W *= f.Scale
		n.H *= f.Scale
	}
	return f
}

// Restore writes each transformed node's snapshot back and marks it
// untransformed. Nodes never fit are left alone.
func Restore(nodes []*scene.Node) {
	for _, n := range nodes {
		if n == nil || !n.Snapshot.Transformed {
			continue
		}
		n.X, n.Y = n.Snapshot.X, n.Snapshot.Y
		n.W, n.H = n.Snapshot.W, n.Snapshot.H
		n.Snapshot = scene.Snapshot{}
	}
}
