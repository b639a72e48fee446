package io

import (
	"github.com/google/uuid"

	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Viewport is the optional canvas configuration stored with a scene.
type Viewport struct {
	Width      float64 `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height     float64 `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	Background string  `json:"background,omitempty" toml:"background,omitempty" yaml:"background,omitempty"`
}

// Scene is the serialized form of a topology.
type Scene struct {
	Viewport *Viewport     `json:"viewport,omitempty" toml:"viewport,omitempty" yaml:"viewport,omitempty"`
	Nodes    []*scene.Node `json:"nodes" toml:"nodes" yaml:"nodes"`
	Links    []*scene.Link `json:"links" toml:"links" yaml:"links"`
}

// Size returns the stored viewport size and background. Zero values mean
// "use the default".
func (s *Scene) Size() (width, height float64, background string) {
	if s.Viewport == nil {
		return 0, 0, ""
	}
	return s.Viewport.Width, s.Viewport.Height, s.Viewport.Background
}

// assignLinkIDs gives every link without an id a random one. Link ids name
// the arrow markers, so they must be non-empty.
func (s *Scene) assignLinkIDs() {
	for _, l := range s.Links {
		if l != nil && l.ID == "" {
			l.ID = uuid.NewString()
		}
	}
}

func (s *Scene) validate() error {
	s.assignLinkIDs()
	return scene.Validate(s.Nodes, s.Links)
}
