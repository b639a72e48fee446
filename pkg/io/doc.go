// Package io reads and writes scene files.
//
// # Overview
//
// A scene file holds the node and link lists handed to the topology engine,
// plus an optional viewport. Three encodings are supported and chosen by
// file extension:
//
//   - .json: encoding/json
//   - .toml: github.com/BurntSushi/toml
//   - .yaml, .yml: gopkg.in/yaml.v3
//
// # Format
//
// The JSON form:
//
//	{
//	  "viewport": {"width": 800, "height": 600, "background": "#f5f5f5"},
//	  "nodes": [
//	    {"id": "a", "name": "A", "x": 0, "y": 0, "w": 10, "h": 10, "image": "a.png"},
//	    {"id": "b", "name": "B", "x": 100, "y": 0, "w": 10, "h": 10, "image": "b.png",
//	     "errorImage": "b-error.png"}
//	  ],
//	  "links": [
//	    {"id": "ab", "source": "a", "target": "b", "stroke": "#ff0000", "arrowType": "single"}
//	  ]
//	}
//
// TOML and YAML use the same field names. arrowType is one of "none",
// "single" or "double"; any other value fails to decode.
//
// # Validation
//
// [Read] and [Import] run [scene.Validate] after decoding. Links without an
// id are given a random one. Unknown link endpoints and duplicate node ids
// are accepted; the engine degrades gracefully for both.
//
// # Export
//
// [Write] and [Export] encode the current geometry of the nodes. A scene that
// has been fit to a viewport is written in its fitted coordinates.
package io
