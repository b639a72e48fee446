package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/visualtopo/pkg/errors"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

const sceneJSON = `{
  "viewport": {"width": 400, "height": 300},
  "nodes": [
    {"id": "a", "name": "A", "x": 0, "y": 0, "w": 10, "h": 10, "image": "a.png"},
    {"id": "b", "name": "B", "x": 100, "y": 0, "w": 10, "h": 10, "image": "b.png", "errorImage": "b-err.png"}
  ],
  "links": [
    {"id": "ab", "source": "a", "target": "b", "stroke": "#ff0000", "arrowType": "single"}
  ]
}`

const sceneTOML = `
[viewport]
width = 400.0
height = 300.0

[[nodes]]
id = "a"
name = "A"
x = 0.0
y = 0.0
w = 10.0
h = 10.0
image = "a.png"

[[nodes]]
id = "b"
name = "B"
x = 100.0
y = 0.0
w = 10.0
h = 10.0
image = "b.png"
errorImage = "b-err.png"

[[links]]
id = "ab"
source = "a"
target = "b"
stroke = "#ff0000"
arrowType = "single"
`

const sceneYAML = `
viewport:
  width: 400
  height: 300
nodes:
  - id: a
    name: A
    x: 0
    y: 0
    w: 10
    h: 10
    image: a.png
  - id: b
    name: B
    x: 100
    y: 0
    w: 10
    h: 10
    image: b.png
    errorImage: b-err.png
links:
  - id: ab
    source: a
    target: b
    stroke: "#ff0000"
    arrowType: single
`

func TestRead(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, sceneJSON},
		{FormatTOML, sceneTOML},
		{FormatYAML, sceneYAML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			s, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}

			if w, h, _ := s.Size(); w != 400 || h != 300 {
				t.Errorf("Size() = %v x %v, want 400 x 300", w, h)
			}
			if len(s.Nodes) != 2 || len(s.Links) != 1 {
				t.Fatalf("got %d nodes, %d links, want 2 and 1", len(s.Nodes), len(s.Links))
			}
			b := s.Nodes[1]
			if b.ID != "b" || b.X != 100 || b.H != 10 || b.ErrorImage != "b-err.png" {
				t.Errorf("node b = %+v", *b)
			}
			l := s.Links[0]
			if l.Arrow != scene.ArrowSingle {
				t.Errorf("Arrow = %v, want single", l.Arrow)
			}
			if l.Stroke != "#ff0000" || l.Source != "a" || l.Target != "b" {
				t.Errorf("link = %+v", *l)
			}
		})
	}
}

func TestReadRejectsUnknownArrow(t *testing.T) {
	input := `{"nodes": [], "links": [{"id": "x", "source": "a", "target": "b", "arrowType": "triple"}]}`

	_, err := Read(strings.NewReader(input), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidArrow) {
		t.Errorf("Read() error = %v, want %s", err, errors.ErrCodeInvalidArrow)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"malformed toml", FormatTOML, `[[nodes]`, errors.ErrCodeInvalidFormat},
		{"empty node id", FormatJSON, `{"nodes": [{"id": ""}]}`, errors.ErrCodeInvalidInput},
		{"negative size", FormatJSON, `{"nodes": [{"id": "a", "h": -1}]}`, errors.ErrCodeInvalidGeometry},
		{"unknown format", Format("xml"), `<scene/>`, errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("Read() should fail")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestReadDanglingLinkAccepted(t *testing.T) {
	input := `{"nodes": [{"id": "a"}], "links": [{"id": "x", "source": "a", "target": "ghost"}]}`

	s, err := Read(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got := scene.Dangling(s.Nodes, s.Links); len(got) != 1 || got[0] != "x" {
		t.Errorf("Dangling() = %v, want [x]", got)
	}
}

func TestReadAssignsLinkIDs(t *testing.T) {
	input := `{"nodes": [], "links": [{"source": "a", "target": "b"}, {"source": "b", "target": "a"}]}`

	s, err := Read(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	first, second := s.Links[0].ID, s.Links[1].ID
	if first == "" || second == "" {
		t.Fatal("links without an id should get one")
	}
	if first == second {
		t.Errorf("generated ids collide: %q", first)
	}
}

func TestReadEmptyYAML(t *testing.T) {
	s, err := Read(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(s.Nodes) != 0 || s.Viewport != nil {
		t.Errorf("Read() = %+v, want empty scene", s)
	}
}

func TestWriteOmitsDefaults(t *testing.T) {
	s := &Scene{
		Nodes: []*scene.Node{{ID: "a", Name: "A", W: 1, H: 1, Image: "a.png"}},
		Links: []*scene.Link{{ID: "l", Source: "a", Target: "a"}},
	}

	var buf bytes.Buffer
	if err := Write(s, &buf, FormatJSON); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	for _, absent := range []string{"errorImage", "arrowType", "viewport", "Snapshot"} {
		if strings.Contains(out, absent) {
			t.Errorf("Write() output contains %q:\n%s", absent, out)
		}
	}
}

func TestExportImport(t *testing.T) {
	for _, ext := range []string{".json", ".toml", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene"+ext)
			in := &Scene{
				Viewport: &Viewport{Background: "#000"},
				Nodes: []*scene.Node{
					{ID: "a", Name: "A", X: 1.5, Y: -2, W: 3, H: 4, Image: "a.png"},
				},
				Links: []*scene.Link{
					{ID: "l", Source: "a", Target: "a", StrokeDasharray: "4 2", Arrow: scene.ArrowDouble},
				},
			}
			if err := Export(in, path); err != nil {
				t.Fatalf("Export() error: %v", err)
			}

			out, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if _, _, bg := out.Size(); bg != "#000" {
				t.Errorf("background = %q, want #000", bg)
			}
			if got := *out.Nodes[0]; got != *in.Nodes[0] {
				t.Errorf("node = %+v, want %+v", got, *in.Nodes[0])
			}
			if got := *out.Links[0]; got != *in.Links[0] {
				t.Errorf("link = %+v, want %+v", got, *in.Links[0])
			}
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestImportAnnotatesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Import(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("Import() error = %v, want it to mention %s", err, path)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"scene.json", FormatJSON, false},
		{"dir/scene.TOML", FormatTOML, false},
		{"scene.yaml", FormatYAML, false},
		{"scene.yml", FormatYAML, false},
		{"scene.xml", "", true},
		{"scene", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
