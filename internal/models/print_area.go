package models

const (
	DefaultAreaWidth  = 1000
	DefaultAreaHeight = 1000
)

// PrintArea is one placement position on a garment.
// Width and Height are zero when the catalog did not report them.
type PrintArea struct {
	ID       string `json:"id"`
	Position string `json:"position"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Dimensions returns the area size, defaulting missing values to 1000x1000.
func (a PrintArea) Dimensions() (int, int) {
	w, h := a.Width, a.Height
	if w <= 0 {
		w = DefaultAreaWidth
	}
	if h <= 0 {
		h = DefaultAreaHeight
	}
	return w, h
}

// PrintAreaContext is the placement a caller wants a design generated for.
type PrintAreaContext struct {
	Position string `json:"position"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func (c PrintAreaContext) HasDimensions() bool {
	return c.Width > 0 && c.Height > 0
}
