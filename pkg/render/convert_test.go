package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/visualtopo/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConvertSVGPassthrough(t *testing.T) {
	out, err := Convert(context.Background(), []byte(tinySVG), FormatSVG, 1)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if string(out) != tinySVG {
		t.Errorf("Convert() = %q, want input unchanged", out)
	}
}

func TestConvertUnsupported(t *testing.T) {
	_, err := Convert(context.Background(), []byte(tinySVG), "gif", 1)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Convert() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := ToPNG(context.Background(), []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Error("ToPNG() output is not a PNG")
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("ToPDF() output is not a PDF")
	}
}
