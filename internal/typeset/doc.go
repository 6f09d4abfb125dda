// Package typeset fits label text into a bounding width.
//
// [Fit] shrinks a font size in fixed steps until the text fits on one line, and falls back to greedy word wrapping
// once the size floor is reached. Width measurement is delegated to a [Measurer]; [Faces] measures with a parsed
// [Font] through golang.org/x/image/font/opentype.
//
//	font, _ := typeset.LoadFont("Arial.ttf")
//	faces := font.NewFaces()
//	defer faces.Close()
//
//	fitted, _ := typeset.Fit(faces, `"A Very Long Song Title"`, 640, 80, typeset.DefaultMinSize)
//	// fitted.Size >= 30, fitted.Lines holds one line or the wrapped lines
package typeset
