package ocr

import "context"

// Image is one extracted figure with its bounding box on the page and the
// raw base64 payload.
type Image struct {
	Id           string `json:"id"`
	TopLeftX     int    `json:"top_left_x"`
	TopLeftY     int    `json:"top_left_y"`
	BottomRightX int    `json:"bottom_right_x"`
	BottomRightY int    `json:"bottom_right_y"`
	ImageBase64  string `json:"image_base64"`
}

// PageDimensions is the page geometry at the reported DPI.
type PageDimensions struct {
	DPI    int `json:"dpi"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Page is the recognized content of one PDF page.
type Page struct {
	Index      int             `json:"index"`
	Markdown   string          `json:"markdown"`
	Images     []Image         `json:"images"`
	Dimensions *PageDimensions `json:"dimensions"`
}

// Result is the full OCR output for a document.
type Result struct {
	Pages []Page `json:"pages"`
}

// Provider runs OCR over a document reachable at a URL.
type Provider interface {
	Process(ctx context.Context, documentURL string) (*Result, error)
}
