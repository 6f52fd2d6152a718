package layout

import (
	"image"

	"go.uber.org/zap"
)

// RowSource yields label records in input order. Next reports ok=false once
// the source is exhausted.
type RowSource interface {
	Next() (rec LabelRecord, ok bool, err error)
}

// BarcodeEncoder turns a payload into a raster barcode.
type BarcodeEncoder interface {
	Encode(payload string) (image.Image, error)
}

// PageSink is the drawing surface the label engine writes to.
type PageSink interface {
	NewPage(width, height float64) error
	DrawImage(img image.Image, label string, rect Rect) error
	DrawText(text string, rect Rect, style TextStyle) error
}

// Typesetter measures text so overflowing lines can be reported.
type Typesetter interface {
	MeasureText(content string, font FontResource, fontSize float64) (float64, error)
}

// TextStyle describes how a text line is drawn inside its rect.
type TextStyle struct {
	Font     string
	FontSize float64 // mm
	Color    Color
	Align    string
	VAlign   string
}

// GenerateOptions configures optional collaborators of Generate.
type GenerateOptions struct {
	Typesetter Typesetter  // optional; enables overflow warnings
	Font       FontResource // passed to the Typesetter
	Logger     *zap.Logger
}

// BuildOptions configures Build.
type BuildOptions struct {
	Encoder    BarcodeEncoder
	Typesetter Typesetter
	Font       FontResource
	Meta       DocumentMeta
	Logger     *zap.Logger
}

func (o GenerateOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
