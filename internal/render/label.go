package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/shared"
	"github.com/desertthunder/mixster/internal/typeset"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// LabelOptions holds label geometry in pixels and font sizes in points (1pt = 1px).
type LabelOptions struct {
	Size        int     // Side length of the square card
	Margin      int     // Cut margin kept free on every edge
	YearSize    float64 // Release year size
	TitleSize   float64 // Base title size before fitting
	MinSize     float64 // Fitting floor for title and artist
	ArtistScale float64 // Artist base size as a fraction of YearSize
	LineSpacing int     // Extra space between wrapped lines
	Gap         int     // Space between the year and the text blocks
}

// DefaultLabelOptions returns the 800px card layout.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		Size:        800,
		Margin:      80,
		YearSize:    160,
		TitleSize:   80,
		MinSize:     typeset.DefaultMinSize,
		ArtistScale: 0.4,
		LineSpacing: 5,
		Gap:         20,
	}
}

// TextWidth is the usable width for title and artist lines.
func (o LabelOptions) TextWidth() float64 {
	return float64(o.Size - 2*o.Margin)
}

// ArtistSize is the base size of the artist line.
func (o LabelOptions) ArtistSize() float64 {
	return float64(int(o.YearSize * o.ArtistScale))
}

func (o LabelOptions) validate() error {
	switch {
	case o.Size <= 0:
		return fmt.Errorf("%w: label size must be positive", shared.ErrInvalidConfig)
	case o.Margin < 0 || 2*o.Margin >= o.Size:
		return fmt.Errorf("%w: label margin %d does not fit a %dpx card", shared.ErrInvalidConfig, o.Margin, o.Size)
	case o.YearSize <= 0 || o.TitleSize <= 0 || o.MinSize <= 0 || o.ArtistScale <= 0:
		return fmt.Errorf("%w: label font sizes must be positive", shared.ErrInvalidConfig)
	}
	return nil
}

// LabelRenderer draws track label cards. It holds only read-only state and may be used from several goroutines.
type LabelRenderer struct {
	font *typeset.Font
	opts LabelOptions
}

// NewLabelRenderer validates the font and options up front so a bad configuration fails before any track is drawn.
func NewLabelRenderer(f *typeset.Font, opts LabelOptions) (*LabelRenderer, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: label renderer needs a font", shared.ErrMissingFont)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &LabelRenderer{font: f, opts: opts}, nil
}

// Options returns the renderer's layout options.
func (r *LabelRenderer) Options() LabelOptions { return r.opts }

// Render draws the label card for track.
func (r *LabelRenderer) Render(track models.Track) (image.Image, error) {
	faces := r.font.NewFaces()
	defer faces.Close()

	o := r.opts
	canvas := image.NewRGBA(image.Rect(0, 0, o.Size, o.Size))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	yearFace, err := faces.Face(o.YearSize)
	if err != nil {
		return nil, r.wrap(track, err)
	}
	yearTop := float64(o.Size)/2 - o.YearSize/2

	title, err := typeset.Fit(faces, `"`+track.Title+`"`, o.TextWidth(), o.TitleSize, o.MinSize)
	if err != nil {
		return nil, r.wrap(track, err)
	}
	titleFace, err := faces.Face(title.Size)
	if err != nil {
		return nil, r.wrap(track, err)
	}

	step := title.Size + float64(o.LineSpacing)
	y := yearTop - float64(len(title.Lines))*step - float64(o.Gap)
	for _, line := range title.Lines {
		r.drawCentered(canvas, titleFace, line, y)
		y += step
	}

	artist, err := typeset.Fit(faces, track.Artist, o.TextWidth(), o.ArtistSize(), o.MinSize)
	if err != nil {
		return nil, r.wrap(track, err)
	}
	artistFace, err := faces.Face(artist.Size)
	if err != nil {
		return nil, r.wrap(track, err)
	}

	step = artist.Size + float64(o.LineSpacing)
	y = yearTop + o.YearSize + float64(o.Gap)
	for _, line := range artist.Lines {
		r.drawCentered(canvas, artistFace, line, y)
		y += step
	}

	r.drawCentered(canvas, yearFace, track.Year(), yearTop)
	return canvas, nil
}

// drawCentered draws text horizontally centred with the top of its ascent at top.
func (r *LabelRenderer) drawCentered(dst draw.Image, face font.Face, text string, top float64) {
	width := typeset.FixedToFloat(font.MeasureString(face, text))
	x := (float64(r.opts.Size) - width) / 2
	baseline := top + typeset.FixedToFloat(face.Metrics().Ascent)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(text)
}

func (r *LabelRenderer) wrap(track models.Track, err error) error {
	return fmt.Errorf("%w: label for track %q: %v", shared.ErrRender, track.ID, err)
}
