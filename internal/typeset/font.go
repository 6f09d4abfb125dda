package typeset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/mixster/internal/shared"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType/OpenType font. It is read-only and may be shared between goroutines;
// faces created from it may not.
type Font struct {
	name string
	otf  *opentype.Font
}

// LoadFont reads and parses the font file at path.
//
// A missing or unparseable file is reported as [shared.ErrMissingFont].
func LoadFont(path string) (*Font, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no font path configured", shared.ErrMissingFont)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingFont, err)
	}
	return ParseFont(filepath.Base(path), data)
}

// ParseFont parses font data already in memory.
func ParseFont(name string, data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", shared.ErrMissingFont, name, err)
	}
	return &Font{name: name, otf: otf}, nil
}

// Name returns the file name the font was loaded from.
func (f *Font) Name() string { return f.name }

// NewFace creates a face at size points (72 DPI, so one point is one pixel). The caller must Close it.
func (f *Font) NewFace(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: face at size %.1f: %v", shared.ErrRender, size, err)
	}
	return face, nil
}

// NewFaces returns a per-goroutine face cache for f.
func (f *Font) NewFaces() *Faces {
	return &Faces{font: f, faces: make(map[float64]font.Face)}
}

// Faces caches one face per size. It implements [Measurer] and is not safe for concurrent use.
type Faces struct {
	font  *Font
	faces map[float64]font.Face
}

var _ Measurer = (*Faces)(nil)

// Face returns the cached face for size, creating it on first use.
func (c *Faces) Face(size float64) (font.Face, error) {
	if face, ok := c.faces[size]; ok {
		return face, nil
	}
	face, err := c.font.NewFace(size)
	if err != nil {
		return nil, err
	}
	c.faces[size] = face
	return face, nil
}

// Measure returns the advance width of text at size in pixels.
func (c *Faces) Measure(text string, size float64) (float64, error) {
	face, err := c.Face(size)
	if err != nil {
		return 0, err
	}
	return FixedToFloat(font.MeasureString(face, text)), nil
}

// Close releases every cached face.
func (c *Faces) Close() error {
	var first error
	for size, face := range c.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
		delete(c.faces, size)
	}
	return first
}

// FixedToFloat converts a 26.6 fixed point value to float64.
func FixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
