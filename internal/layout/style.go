package layout

import (
	"fmt"
	"sort"

	"github.com/desertthunder/mixster/internal/shared"
)

// A4 portrait page size in millimetres.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// Style is a named card grid. Lengths are in millimetres.
type Style struct {
	Name           string  `json:"name"`
	CardsPerRow    int     `json:"cards_per_row"`
	CardsPerColumn int     `json:"cards_per_column"`
	CardWidth      float64 `json:"card_width"`
	CardHeight     float64 `json:"card_height"`
	MarginX        float64 `json:"margin_x"`
	MarginY        float64 `json:"margin_y"`
}

var (
	// Default is the dense 3×4 grid of 60mm cards.
	Default = Style{Name: "default", CardsPerRow: 3, CardsPerColumn: 4, CardWidth: 60, CardHeight: 60, MarginX: 15, MarginY: 10}
	// Large is the 2×3 grid of 90mm cards.
	Large = Style{Name: "large", CardsPerRow: 2, CardsPerColumn: 3, CardWidth: 90, CardHeight: 90, MarginX: 15, MarginY: 10}
)

var presets = map[string]Style{
	Default.Name: Default,
	Large.Name:   Large,
}

// Presets returns the built-in styles sorted by name.
func Presets() []Style {
	styles := make([]Style, 0, len(presets))
	for _, s := range presets {
		styles = append(styles, s)
	}
	sort.Slice(styles, func(i, j int) bool { return styles[i].Name < styles[j].Name })
	return styles
}

// Lookup returns the preset with the given name. An empty name selects [Default].
func Lookup(name string) (Style, error) {
	if name == "" {
		return Default, nil
	}
	s, ok := presets[name]
	if !ok {
		return Style{}, fmt.Errorf("%w: unknown style %q", shared.ErrInvalidStyle, name)
	}
	return s, nil
}

// Capacity is the number of cards per page.
func (s Style) Capacity() int {
	return s.CardsPerRow * s.CardsPerColumn
}

// Validate checks that the grid holds at least one card and fits on the page.
func (s Style) Validate() error {
	if s.CardsPerRow < 1 || s.CardsPerColumn < 1 {
		return fmt.Errorf("%w: %q needs at least one card per row and column", shared.ErrInvalidStyle, s.Name)
	}
	if s.CardWidth <= 0 || s.CardHeight <= 0 {
		return fmt.Errorf("%w: %q has non-positive card size", shared.ErrInvalidStyle, s.Name)
	}
	if s.MarginX < 0 || s.MarginY < 0 {
		return fmt.Errorf("%w: %q has negative margins", shared.ErrInvalidStyle, s.Name)
	}
	if w := s.MarginX + float64(s.CardsPerRow)*s.CardWidth; w > PageWidth {
		return fmt.Errorf("%w: %q is %.1fmm wide, page is %.0fmm", shared.ErrInvalidStyle, s.Name, w, PageWidth)
	}
	if h := s.MarginY + float64(s.CardsPerColumn)*s.CardHeight; h > PageHeight {
		return fmt.Errorf("%w: %q is %.1fmm tall, page is %.0fmm", shared.ErrInvalidStyle, s.Name, h, PageHeight)
	}
	return nil
}

func (s Style) String() string {
	return fmt.Sprintf("%s (%dx%d, %.0fx%.0fmm cards)", s.Name, s.CardsPerRow, s.CardsPerColumn, s.CardWidth, s.CardHeight)
}
