package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/visualtopo/pkg/errors"
)

// Read decodes a scene from r in the given format and validates it.
//
// Read returns an error if:
//   - the input is malformed for the format
//   - an arrowType is not none, single or double
//   - a node has an invalid id, a non-finite coordinate or a negative size
//
// Read does not close r.
func Read(r io.Reader, format Format) (*Scene, error) {
	var s Scene
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&s)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&s)
		if err == io.EOF {
			err = nil
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	if err != nil {
		// Keep codes raised by field decoders such as the arrow style.
		if errors.GetCode(err) != "" {
			return nil, fmt.Errorf("decode %s scene: %w", format, err)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s scene", format)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Import reads and validates the scene file at path. The format is chosen
// by extension.
func Import(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
