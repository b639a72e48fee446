// Package canvas is the drawing substrate the topology engine draws into.
//
// # Surface
//
// [Surface] is the capability the engine consumes: create, style, reorder and
// remove primitives (groups, paths, images, text, marker definitions) in a 2D
// coordinate space, and attach pointer listeners to them. Any retained-mode
// backend can implement it; a browser DOM bridge would map it onto SVG
// elements one to one.
//
// # Document
//
// [Document] is the in-process implementation: a retained SVG element tree
// that serializes with [Document.WriteSVG] and delivers pointer events with
// [Document.Dispatch]. Events bubble from the target to the root like DOM
// events, so a listener on a group sees clicks on its children.
//
// Document is safe for concurrent use. Listeners are invoked without the
// document lock held, so they may freely mutate the document.
//
//	doc := canvas.NewDocument()
//	g := doc.Append(nil, canvas.KindGroup)
//	p := doc.Append(g, canvas.KindPath).SetAttr("d", "M 0 0 L 10 10")
//	doc.On(g, canvas.EventClick, func(ev *canvas.Event) { ... })
//	doc.Dispatch(p, &canvas.Event{Type: canvas.EventClick})
package canvas
