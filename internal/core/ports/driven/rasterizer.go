package driven

// Rasterizer renders PDF pages to preview images.
type Rasterizer interface {
	// RenderPage renders the 1-based page of data at the given scale
	// (1.0 = 72 dpi) and returns it as a PNG data URI.
	RenderPage(data []byte, pageNumber int, scale float64) (string, error)
}
