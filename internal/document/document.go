// Package document accumulates placed pages into a PDF and writes it out.
//
// A [Document] is owned by a single export job. Pages are appended in call order and nothing touches the disk until
// [Document.Save], which writes to a temporary file next to the destination and renames it into place, so a failed
// or abandoned export never leaves a partial PDF behind.
package document

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/mixster/internal/layout"
	"github.com/desertthunder/mixster/internal/shared"
	"github.com/go-pdf/fpdf"
)

// Document is an in-memory A4 portrait PDF.
type Document struct {
	pdf     *fpdf.Fpdf
	encoder png.Encoder
	pages   int
	saved   bool
}

// New creates an empty document with no page margins; cards are positioned absolutely.
func New() *Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &Document{
		pdf:     pdf,
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// AddPage appends p as a new page, embedding every cell image at its position.
func (d *Document) AddPage(p layout.Page) error {
	if d.saved {
		return fmt.Errorf("%w: document already saved", shared.ErrRender)
	}

	d.pdf.AddPage()
	for _, cell := range p.Cells {
		if cell.Image == nil {
			continue
		}

		var buf bytes.Buffer
		if err := d.encoder.Encode(&buf, cell.Image); err != nil {
			return fmt.Errorf("%w: page %d cell %d: %v", shared.ErrRender, d.pages+1, cell.Index, err)
		}

		name := fmt.Sprintf("p%03d-%s-%02d", d.pages+1, p.Kind, cell.Index)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		d.pdf.RegisterImageOptionsReader(name, opts, &buf)
		d.pdf.ImageOptions(name, cell.X, cell.Y, cell.W, cell.H, false, opts, 0, "")
	}

	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("%w: page %d: %v", shared.ErrRender, d.pages+1, err)
	}
	d.pages++
	return nil
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int { return d.pages }

// Write renders the PDF to w. A document can be written once.
func (d *Document) Write(w io.Writer) error {
	if d.saved {
		return fmt.Errorf("%w: document already saved", shared.ErrRender)
	}
	d.saved = true
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("%w: failed to write pdf: %v", shared.ErrRender, err)
	}
	return nil
}

// Save writes the PDF to path atomically, creating parent directories.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mixster-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move pdf into place: %w", err)
	}
	return nil
}
