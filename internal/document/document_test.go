package document

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mixster/internal/layout"
)

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func twoPages(t *testing.T) *Document {
	t.Helper()
	labels, err := layout.PlaceLabels([]image.Image{solid(color.White), solid(color.Black)}, layout.Default)
	if err != nil {
		t.Fatalf("PlaceLabels() error = %v", err)
	}
	codes, err := layout.PlaceCodes([]image.Image{image.NewGray(image.Rect(0, 0, 16, 16))}, layout.Default)
	if err != nil {
		t.Fatalf("PlaceCodes() error = %v", err)
	}

	doc := New()
	if err := doc.AddPage(labels); err != nil {
		t.Fatalf("AddPage(labels) error = %v", err)
	}
	if err := doc.AddPage(codes); err != nil {
		t.Fatalf("AddPage(codes) error = %v", err)
	}
	return doc
}

func TestDocument(t *testing.T) {
	t.Run("Save writes a pdf", func(t *testing.T) {
		doc := twoPages(t)
		if doc.PageCount() != 2 {
			t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
		}

		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "out.pdf")
		if err := doc.Save(path); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read pdf: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("expected PDF header, got %q", data[:8])
		}

		entries, _ := os.ReadDir(filepath.Join(dir, "nested"))
		if len(entries) != 1 {
			t.Errorf("expected only the pdf in the output directory, got %d entries", len(entries))
		}
	})

	t.Run("empty pages", func(t *testing.T) {
		doc := New()
		for _, kind := range []layout.Kind{layout.LabelPage, layout.CodePage} {
			if err := doc.AddPage(layout.Page{Kind: kind, Style: layout.Default}); err != nil {
				t.Fatalf("AddPage() error = %v", err)
			}
		}

		var buf bytes.Buffer
		if err := doc.Write(&buf); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Error("expected PDF output")
		}
	})

	t.Run("write once", func(t *testing.T) {
		doc := twoPages(t)
		var buf bytes.Buffer
		if err := doc.Write(&buf); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := doc.Write(&buf); err == nil {
			t.Error("expected second write to fail")
		}
		if err := doc.AddPage(layout.Page{}); err == nil {
			t.Error("expected AddPage after save to fail")
		}
	})

	t.Run("Save into a file path fails cleanly", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write blocker: %v", err)
		}

		if err := twoPages(t).Save(filepath.Join(blocker, "out.pdf")); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}
