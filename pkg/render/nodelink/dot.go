package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/visualtopo/pkg/scene"
)

// pointsPerInch converts canvas units, treated as points, to Graphviz inches.
const pointsPerInch = 72.0

const errorColor = "#dc2626"

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node id and position under the display name.
	Detailed bool
	// Background is the graph background color. Empty means transparent.
	Background string
}

// ToDOT converts a scene to Graphviz DOT with every node pinned at its
// current position.
func ToDOT(nodes []*scene.Node, links []*scene.Link, opts Options) string {
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, style=filled, fillcolor=white, fontcolor=%q];\n", scene.DefaultLabelFill)
	buf.WriteString("\n")

	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		ids[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range links {
		if l == nil || !ids[l.Source] || !ids[l.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *scene.Node, detailed bool) string {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nid: %s\npos: %s,%s", label, n.ID, num(n.X), num(n.Y))
}

func nodeAttrs(n *scene.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(-n.Y)),
		fmt.Sprintf("width=%s", num(2*n.Radius()/pointsPerInch)),
		fmt.Sprintf("fontsize=%s", num(max(1, 2*min(scene.MaxFontSize, n.H/2)))),
	}
	if n.HasError() {
		attrs = append(attrs, fmt.Sprintf("color=%q", errorColor), "penwidth=2")
	}
	return attrs
}

func linkAttrs(l *scene.Link) []string {
	attrs := []string{
		fmt.Sprintf("id=%q", l.ID),
		fmt.Sprintf("color=%q", l.StrokeColor()),
		fmt.Sprintf("penwidth=%s", num(l.Width())),
	}
	switch l.Arrow {
	case scene.ArrowSingle:
		attrs = append(attrs, "dir=forward")
	case scene.ArrowDouble:
		attrs = append(attrs, "dir=both")
	default:
		attrs = append(attrs, "dir=none")
	}
	if l.StrokeDasharray != "" {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG with the neato engine, keeping the
// pinned node positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a unitless
// one so the output scales like the engine's own SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
