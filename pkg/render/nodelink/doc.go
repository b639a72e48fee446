// Package nodelink exports a topology scene as a static Graphviz diagram.
//
// # Overview
//
// The interactive engine in [topology] draws onto a live surface. This
// package produces a snapshot of the same scene for documents and reports:
// node positions are pinned, so Graphviz only routes and draws, it never
// re-lays out the topology.
//
// # Usage
//
//	dot := nodelink.ToDOT(nodes, links, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG output go through render.Convert on the SVG.
//
// # DOT Format
//
// [ToDOT] writes one node per scene node with a pinned pos attribute
// ("x,y!", y flipped because Graphviz grows upwards) and inputscale=72 so
// coordinates stay in canvas units. Nodes carrying an error image are drawn
// with a red outline. Links keep their stroke color, width and dash style;
// the arrow style maps onto the dir attribute (none, forward, both). Links
// with a missing endpoint are left out, matching the empty path the engine
// draws for them.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz] with the neato engine.
//
// [topology]: github.com/matzehuels/visualtopo/pkg/render/topology
package nodelink
