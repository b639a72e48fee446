package cli

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

func TestInspectScene(t *testing.T) {
	sc := &io.Scene{
		Nodes: []*scene.Node{
			{ID: "a", X: 0, Y: 0, W: 10, H: 10},
			{ID: "b", X: 1000, Y: 0, W: 10, H: 10, ErrorImage: "err.png"},
			{ID: "a", X: 500, Y: 0, W: 10, H: 10},
		},
		Links: []*scene.Link{
			{ID: "ab", Source: "a", Target: "b"},
			{ID: "ax", Source: "a", Target: "x"},
		},
	}

	r := inspectScene(sc, topology.Config{Width: 512, Height: 300})

	if r.nodes != 3 || r.links != 2 {
		t.Errorf("counts = %d nodes, %d links, want 3, 2", r.nodes, r.links)
	}
	if !r.hasBounds || r.bounds.MinX != -10 || r.bounds.MaxX != 1010 {
		t.Errorf("bounds = %+v, want x from -10 to 1010", r.bounds)
	}
	// 512 * 0.9 / 1020 across, the narrower axis.
	if want := 512 * 0.9 / 1020; math.Abs(r.fit.Scale-want) > 1e-12 {
		t.Errorf("fit scale = %v, want %v", r.fit.Scale, want)
	}
	if !slices.Equal(r.blinking, []string{"b"}) {
		t.Errorf("blinking = %v, want [b]", r.blinking)
	}
	if !slices.Equal(r.dangling, []string{"ax"}) {
		t.Errorf("dangling = %v, want [ax]", r.dangling)
	}
	if !slices.Equal(r.duplicates, []string{"a"}) {
		t.Errorf("duplicates = %v, want [a]", r.duplicates)
	}

	// Inspecting must not move the nodes.
	if sc.Nodes[0].X != 0 || sc.Nodes[0].Snapshot.Transformed {
		t.Errorf("node a changed: %+v", sc.Nodes[0])
	}
}

func TestInspectEmptyScene(t *testing.T) {
	r := inspectScene(&io.Scene{}, topology.Config{Width: 100, Height: 100})
	if r.hasBounds {
		t.Error("empty scene should have no bounds")
	}
	if r.fit.Scale != 1 {
		t.Errorf("fit scale = %v, want 1", r.fit.Scale)
	}
}

func TestNodeTable(t *testing.T) {
	out := nodeTable([]*scene.Node{
		{ID: "a", Name: "Alpha", X: 1.5, Y: 2},
		nil,
		{ID: "b", ErrorImage: "err.png"},
	})
	for _, want := range []string{"Alpha", "1.5", "blink"} {
		if !strings.Contains(out, want) {
			t.Errorf("nodeTable() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatNum(t *testing.T) {
	tests := map[float64]string{0: "0", 10: "10", -2.5: "-2.5", 1.25: "1.25"}
	for in, want := range tests {
		if got := formatNum(in); got != want {
			t.Errorf("formatNum(%v) = %q, want %q", in, got, want)
		}
	}
}
