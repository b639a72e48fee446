// Package scene defines the data model of a topology diagram.
//
// # Overview
//
// A scene is a list of [Node] values (positioned, sized, labeled images) and a
// list of [Link] values connecting them by id. The [Store] holds both lists
// together with an id-indexed lookup and is the single mutable source the
// renderer and the interaction controller read from.
//
// # Ownership
//
// The store keeps the caller's pointers. Nodes are mutated in place by the fit
// transform and by dragging, so a host that keeps its own references observes
// the new positions. The store never copies, creates or destroys nodes on its
// own.
//
// # Fit State
//
// Each node carries a [Snapshot] describing whether the viewport fit has been
// applied to it. The zero value means untransformed; once transformed, the
// snapshot holds the position and size the node had before the first fit.
//
// # Degradation
//
// Links whose source or target does not resolve are kept; they draw as empty
// paths. Use [Dangling] to report them. Duplicate node ids are kept as well:
// the last node with a given id wins the lookup.
package scene
