// Package render holds the topology renderers and output conversion.
//
// # Overview
//
//   - [topology]: the interactive engine that fits, draws and animates a
//     scene on a [canvas.Surface]
//   - [nodelink]: static Graphviz export with pinned node positions
//   - format conversion from SVG to PDF/PNG (this package)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both renderers produce SVG first:
//
//	doc := canvas.NewDocument()
//	eng := topology.New(doc, topology.Config{})
//	eng.SetNodes(nodes)
//	eng.Render()
//	png, err := render.ToPNG(ctx, doc.SVG(), 2.0)
//
// [topology]: github.com/matzehuels/visualtopo/pkg/render/topology
// [nodelink]: github.com/matzehuels/visualtopo/pkg/render/nodelink
// [canvas.Surface]: github.com/matzehuels/visualtopo/pkg/canvas.Surface
package render
