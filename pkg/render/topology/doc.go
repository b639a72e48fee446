// Package topology draws an interactive node-link topology onto a canvas.
//
// # Overview
//
// An [Engine] owns a [canvas.Surface] and a [scene.Store]. The host sets the
// node and link lists, calls [Engine.Render], and subscribes to pointer
// events with the On* registration methods:
//
//	doc := canvas.NewDocument()
//	e := topology.New(doc, topology.Config{Width: 800, Height: 600})
//	e.SetNodes(nodes)
//	e.SetLinks(links)
//	e.OnNodeClick(func(n *scene.Node, ev *canvas.Event) { ... })
//	e.Render()
//
// # Rendering
//
// A full render stops every blink timer, clears the surface, fits the nodes to
// the viewport (see [geometry.FitToViewport]) and draws links, then node
// images, then labels. Every full render fits again, so the output is always
// centered but the transform compounds; [Engine.ResetView] restores the
// pre-fit geometry before redrawing.
//
// Links whose endpoints do not resolve are drawn as empty paths. Arrow markers
// are created per link and filled with that link's stroke color.
//
// # Interaction
//
// Dragging a node moves its image and label and re-routes the links touching
// it in place, without a full render. A click that completes a drag gesture is
// swallowed, so drag takes precedence over click. Handlers run in
// registration order, after the engine has released its lock, and may call
// back into the engine.
//
// # Blinking
//
// Nodes with an error image alternate between their two images every 500ms.
// Timers are keyed by node id and are stopped before every full render and on
// [Engine.Clear]; a timer that fires late never writes to an element from an
// earlier render.
//
// # Concurrency
//
// Engine methods are safe to call from multiple goroutines; one mutex
// serializes the host, the pointer listeners and the blink timers.
package topology
