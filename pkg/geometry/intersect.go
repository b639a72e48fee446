package geometry

import (
	"math"
	"strconv"

	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Intersect returns the point on from's circular boundary in the direction
// of to's center. When both centers coincide it returns from's center.
func Intersect(from, to *scene.Node) Point {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dx == 0 && dy == 0 {
		return Point{from.X, from.Y}
	}
	length := math.Hypot(dx, dy)
	r := from.Radius()
	return Point{
		X: from.X + dx/length*r,
		Y: from.Y + dy/length*r,
	}
}

// Endpoints returns the boundary-to-boundary segment between src and dst.
func Endpoints(src, dst *scene.Node) (start, end Point) {
	return Intersect(src, dst), Intersect(dst, src)
}

// LinkPath returns the SVG path data for a straight link between src and dst.
func LinkPath(src, dst *scene.Node) string {
	a, b := Endpoints(src, dst)
	return "M " + fmtNum(a.X) + " " + fmtNum(a.Y) + " L " + fmtNum(b.X) + " " + fmtNum(b.Y)
}

// fmtNum formats a coordinate with the shortest exact representation,
// so integral values print without a fraction ("10", not "10.00").
func fmtNum(v float64) string {
	if v == 0 {
		v = 0 // normalizes -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
