package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/desertthunder/mixster/internal/shared"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// ModulePixels is the side of one QR module before the final resize.
const ModulePixels = 10

// CodeEncoder turns URLs into QR code cards. Encoding is a pure function of the URL.
type CodeEncoder struct {
	size int
}

// NewCodeEncoder returns an encoder producing size×size images.
func NewCodeEncoder(size int) *CodeEncoder {
	if size <= 0 {
		size = DefaultLabelOptions().Size
	}
	return &CodeEncoder{size: size}
}

// Encode renders url at the highest error correction level with the standard quiet zone,
// then scales the symbol to the card size.
func (e *CodeEncoder) Encode(url string) (image.Image, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: empty url", shared.ErrEncode)
	}

	q, err := qrcode.New(url, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEncode, err)
	}

	src := q.Image(-ModulePixels)
	dst := image.NewGray(image.Rect(0, 0, e.size, e.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
