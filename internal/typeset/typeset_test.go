package typeset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/desertthunder/mixster/internal/shared"
	"golang.org/x/image/font/gofont/goregular"
)

// runeMeasurer gives every rune the same advance: perRune * size.
type runeMeasurer struct {
	perRune float64
	calls   int
}

func (m *runeMeasurer) Measure(text string, size float64) (float64, error) {
	m.calls++
	return float64(utf8.RuneCountInString(text)) * size * m.perRune, nil
}

type failingMeasurer struct{}

func (failingMeasurer) Measure(string, float64) (float64, error) {
	return 0, errors.New("metrics unavailable")
}

func TestFit(t *testing.T) {
	tt := []struct {
		name      string
		text      string
		maxWidth  float64
		baseSize  float64
		minSize   float64
		wantSize  float64
		wantLines []string
	}{
		{
			name:      "fits at base size",
			text:      "Hi",
			maxWidth:  640,
			baseSize:  80,
			minSize:   30,
			wantSize:  80,
			wantLines: []string{"Hi"},
		},
		{
			name:      "shrinks until it fits",
			text:      strings.Repeat("x", 20),
			maxWidth:  640,
			baseSize:  80,
			minSize:   30,
			wantSize:  64,
			wantLines: []string{strings.Repeat("x", 20)},
		},
		{
			name:      "wraps at the floor",
			text:      "aaaaaaaaaa bbbbbbbbbb cccccccccc",
			maxWidth:  400,
			baseSize:  80,
			minSize:   30,
			wantSize:  30,
			wantLines: []string{"aaaaaaaaaa bbbbbbbbbb", "cccccccccc"},
		},
		{
			name:      "single overflowing word stays whole",
			text:      "Pneumonoultramicroscopic",
			maxWidth:  200,
			baseSize:  80,
			minSize:   30,
			wantSize:  30,
			wantLines: []string{"Pneumonoultramicroscopic"},
		},
		{
			name:      "overflowing word gets its own line",
			text:      "a Pneumonoultramicroscopic b",
			maxWidth:  200,
			baseSize:  80,
			minSize:   30,
			wantSize:  30,
			wantLines: []string{"a", "Pneumonoultramicroscopic", "b"},
		},
		{
			name:      "base below floor is raised to floor",
			text:      "ok",
			maxWidth:  640,
			baseSize:  20,
			minSize:   30,
			wantSize:  30,
			wantLines: []string{"ok"},
		},
		{
			name:      "zero floor uses default",
			text:      strings.Repeat("y", 100),
			maxWidth:  100,
			baseSize:  40,
			minSize:   0,
			wantSize:  DefaultMinSize,
			wantLines: []string{strings.Repeat("y", 100)},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Fit(&runeMeasurer{perRune: 0.5}, tc.text, tc.maxWidth, tc.baseSize, tc.minSize)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if got.Size != tc.wantSize {
				t.Errorf("Size = %v, want %v", got.Size, tc.wantSize)
			}
			if !reflect.DeepEqual(got.Lines, tc.wantLines) {
				t.Errorf("Lines = %q, want %q", got.Lines, tc.wantLines)
			}
		})
	}
}

func TestFitProperties(t *testing.T) {
	texts := []string{
		"",
		"Short",
		"The Quick Brown Fox Jumps Over The Lazy Dog Again And Again",
		"Antidisestablishmentarianism Floccinaucinihilipilification Hippopotomonstrosesquippedaliophobia",
		"  spaced   out    words  ",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			m := &runeMeasurer{perRune: 0.55}
			first, err := Fit(m, text, 300, 80, 30)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			second, err := Fit(m, text, 300, 80, 30)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}

			if !reflect.DeepEqual(first, second) {
				t.Errorf("Fit() not idempotent: %+v vs %+v", first, second)
			}
			if first.Size < 30 {
				t.Errorf("Size %v below floor", first.Size)
			}
			if len(first.Lines) == 0 {
				t.Fatal("expected at least one line")
			}
			if got, want := strings.Fields(strings.Join(first.Lines, " ")), strings.Fields(text); !reflect.DeepEqual(got, want) {
				t.Errorf("word sequence changed: %q vs %q", got, want)
			}

			for _, line := range first.Lines {
				width, _ := m.Measure(line, first.Size)
				if width > 300 && strings.Contains(line, " ") {
					t.Errorf("multi-word line %q overflows (%v)", line, width)
				}
			}
		})
	}
}

func TestFitWrapsThreeWordTitle(t *testing.T) {
	faces := goFont(t).NewFaces()
	defer faces.Close()

	title := `"Incomprehensibilities Counterrevolutionaries Electroencephalographically"`
	fitted, err := Fit(faces, title, 640, 80, 30)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if len(fitted.Lines) < 2 {
		t.Fatalf("expected wrapping into at least 2 lines, got %q at size %v", fitted.Lines, fitted.Size)
	}

	for _, line := range fitted.Lines {
		width, err := faces.Measure(line, fitted.Size)
		if err != nil {
			t.Fatalf("Measure() error = %v", err)
		}
		if width > 640 && strings.Contains(line, " ") {
			t.Errorf("line %q is %v wide", line, width)
		}
	}
}

func TestFitMeasurerError(t *testing.T) {
	if _, err := Fit(failingMeasurer{}, "text", 100, 80, 30); err == nil {
		t.Error("expected measurer error to propagate")
	}
}

func TestFont(t *testing.T) {
	t.Run("Measure grows with size", func(t *testing.T) {
		faces := goFont(t).NewFaces()
		defer faces.Close()

		small, err := faces.Measure("1999", 40)
		if err != nil {
			t.Fatalf("Measure() error = %v", err)
		}
		large, err := faces.Measure("1999", 160)
		if err != nil {
			t.Fatalf("Measure() error = %v", err)
		}
		if small <= 0 || large <= small {
			t.Errorf("expected 0 < %v < %v", small, large)
		}
	})

	t.Run("LoadFont from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
		if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
			t.Fatalf("failed to write font: %v", err)
		}

		font, err := LoadFont(path)
		if err != nil {
			t.Fatalf("LoadFont() error = %v", err)
		}
		if font.Name() != "Go-Regular.ttf" {
			t.Errorf("Name() = %q", font.Name())
		}
	})

	t.Run("missing font", func(t *testing.T) {
		for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.ttf")} {
			if _, err := LoadFont(path); !errors.Is(err, shared.ErrMissingFont) {
				t.Errorf("LoadFont(%q) expected ErrMissingFont, got %v", path, err)
			}
		}
	})

	t.Run("corrupt font", func(t *testing.T) {
		_, err := ParseFont("bad.ttf", []byte("not a font"))
		if !errors.Is(err, shared.ErrMissingFont) {
			t.Errorf("expected ErrMissingFont, got %v", err)
		}
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected missing font to be a configuration error, got %v", err)
		}
	})
}

func goFont(t *testing.T) *Font {
	t.Helper()
	font, err := ParseFont("Go-Regular.ttf", goregular.TTF)
	if err != nil {
		t.Fatalf("failed to parse Go font: %v", err)
	}
	return font
}
