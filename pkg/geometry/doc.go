// Package geometry computes the viewport fit and link endpoints for a scene.
//
// # Fit Transform
//
// [FitToViewport] centers the bounding box of all nodes on the viewport and
// scales it uniformly so it occupies at most 90% of either dimension. It
// never scales up. Each node's pre-fit geometry is recorded in its
// [scene.Snapshot] the first time the transform touches it, and [Restore]
// writes it back.
//
// The transform is not idempotent: applying it twice scales the
// already-scaled geometry again, while the snapshot keeps the geometry from
// before the first application.
//
// # Boundary Intersection
//
// Nodes are treated as circles of radius max(W, H). [Intersect] returns the
// point where the segment between two centers leaves the first circle, so a
// link drawn between two intersections runs boundary to boundary.
package geometry
