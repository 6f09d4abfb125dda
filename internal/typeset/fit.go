package typeset

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMinSize is the size floor below which text is wrapped instead of shrunk.
	DefaultMinSize = 30
	// SizeStep is the decrement applied per shrink iteration.
	SizeStep = 2
)

// Measurer measures the single-line width of text at a font size.
type Measurer interface {
	Measure(text string, size float64) (float64, error)
}

// Fitted is the result of [Fit].
type Fitted struct {
	Size    float64
	Lines   []string
	Wrapped bool
}

// Fit chooses a font size for text so it fits within maxWidth.
//
// Starting at baseSize the size shrinks by [SizeStep] while the text overflows, never going below minSize.
// If the text still overflows at minSize it is wrapped greedily by words. A single word wider than maxWidth is kept
// on its own overflowing line; words are never split.
func Fit(m Measurer, text string, maxWidth, baseSize, minSize float64) (Fitted, error) {
	text = norm.NFC.String(text)
	if minSize <= 0 {
		minSize = DefaultMinSize
	}

	size := max(baseSize, minSize)
	width, err := m.Measure(text, size)
	if err != nil {
		return Fitted{}, err
	}

	for width > maxWidth && size > minSize {
		size = max(size-SizeStep, minSize)
		if width, err = m.Measure(text, size); err != nil {
			return Fitted{}, err
		}
	}

	if width <= maxWidth {
		return Fitted{Size: size, Lines: []string{text}}, nil
	}

	lines, err := Wrap(m, text, maxWidth, size)
	if err != nil {
		return Fitted{}, err
	}
	return Fitted{Size: size, Lines: lines, Wrapped: len(lines) > 1}, nil
}

// Wrap splits text into lines no wider than maxWidth at size, breaking only between words.
func Wrap(m Measurer, text string, maxWidth, size float64) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}, nil
	}

	var lines []string
	current := []string{words[0]}
	for _, word := range words[1:] {
		candidate := strings.Join(current, " ") + " " + word
		width, err := m.Measure(candidate, size)
		if err != nil {
			return nil, err
		}

		if width > maxWidth {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
			continue
		}
		current = append(current, word)
	}

	return append(lines, strings.Join(current, " ")), nil
}
