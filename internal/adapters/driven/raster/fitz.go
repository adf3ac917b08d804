// Package raster implements the rasterizer port using MuPDF via go-fitz.
package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"

	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
)

// maxThumbWidth caps preview width in pixels. Larger renders are
// downscaled before encoding so data URIs stay small.
const maxThumbWidth = 480

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

// Rasterizer renders PDF pages with MuPDF.
type Rasterizer struct{}

// NewRasterizer creates a new MuPDF rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// RenderPage renders the 1-based page of data at the given scale and
// returns it as a PNG data URI. Each call opens the document fresh;
// MuPDF contexts are not safe to share across goroutines.
func (r *Rasterizer) RenderPage(data []byte, pageNumber int, scale float64) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening document: %w", err)
	}
	defer doc.Close()

	if pageNumber < 1 || pageNumber > doc.NumPage() {
		return "", fmt.Errorf("page %d out of 1..%d", pageNumber, doc.NumPage())
	}

	if scale <= 0 {
		scale = 1.0
	}
	img, err := doc.ImageDPI(pageNumber-1, 72*scale)
	if err != nil {
		return "", fmt.Errorf("rendering page %d: %w", pageNumber, err)
	}

	shrunk := shrinkToWidth(img, maxThumbWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, shrunk); err != nil {
		return "", fmt.Errorf("encoding page %d: %w", pageNumber, err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// shrinkToWidth downscales img to at most width pixels wide, keeping
// the aspect ratio. Images already narrow enough pass through.
func shrinkToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width {
		return img
	}

	height := bounds.Dy() * width / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
