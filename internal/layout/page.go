package layout

import (
	"fmt"
	"image"

	"github.com/desertthunder/mixster/internal/shared"
)

// Kind distinguishes the two pages produced per chunk.
type Kind int

const (
	LabelPage Kind = iota
	CodePage
)

func (k Kind) String() string {
	switch k {
	case LabelPage:
		return "labels"
	case CodePage:
		return "codes"
	default:
		return ""
	}
}

// Cell is one placed card. Position and size are in millimetres from the top-left page corner.
type Cell struct {
	Index int // Position within the chunk
	Row   int
	Col   int
	X     float64
	Y     float64
	W     float64
	H     float64
	Image image.Image
}

// Page is an ordered set of placed cards.
type Page struct {
	Kind  Kind
	Style Style
	Cells []Cell
}

// Position returns the grid cell for the card at index within a chunk.
//
// Label pages fill rows left to right; code pages fill them right to left.
func Position(kind Kind, index int, s Style) (row, col int) {
	row = index / s.CardsPerRow
	col = index % s.CardsPerRow
	if kind == CodePage {
		col = s.CardsPerRow - 1 - col
	}
	return row, col
}

// PlaceLabels lays images out in natural row-major order.
func PlaceLabels(images []image.Image, s Style) (Page, error) {
	return place(LabelPage, images, s)
}

// PlaceCodes lays images out row-major with mirrored columns.
func PlaceCodes(images []image.Image, s Style) (Page, error) {
	return place(CodePage, images, s)
}

func place(kind Kind, images []image.Image, s Style) (Page, error) {
	if err := s.Validate(); err != nil {
		return Page{}, err
	}
	if len(images) > s.Capacity() {
		return Page{}, fmt.Errorf("%w: %d images exceed %s page capacity of %d", shared.ErrInvalidInput, len(images), s.Name, s.Capacity())
	}

	page := Page{Kind: kind, Style: s, Cells: make([]Cell, 0, len(images))}
	for i, img := range images {
		row, col := Position(kind, i, s)
		page.Cells = append(page.Cells, Cell{
			Index: i,
			Row:   row,
			Col:   col,
			X:     s.MarginX + float64(col)*s.CardWidth,
			Y:     s.MarginY + float64(row)*s.CardHeight,
			W:     s.CardWidth,
			H:     s.CardHeight,
			Image: img,
		})
	}
	return page, nil
}
