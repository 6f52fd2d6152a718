// Package barcode renders label payloads as Code 128 rasters.
package barcode

import (
	"errors"
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"github.com/ByLCY/labelgrid/layout"
)

// Default raster size in pixels.
const (
	DefaultWidth  = 100
	DefaultHeight = 40
)

// ErrEmptyPayload is returned for an empty payload.
var ErrEmptyPayload = errors.New("empty barcode payload")

// EncodeError reports a payload the symbology cannot represent.
type EncodeError struct {
	Payload string
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("code128 cannot encode %q: %v", e.Payload, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Code128 encodes payloads as Code 128 rasters of Width x Height pixels.
// Width is a minimum: payloads with more modules than Width pixels are
// rendered one pixel per module so no bar is lost.
type Code128 struct {
	Width  int
	Height int
}

var _ layout.BarcodeEncoder = Code128{}

// New returns an encoder producing rasters of the default size.
func New() Code128 {
	return Code128{Width: DefaultWidth, Height: DefaultHeight}
}

// Encode implements layout.BarcodeEncoder.
func (c Code128) Encode(payload string) (image.Image, error) {
	if payload == "" {
		return nil, &EncodeError{Payload: payload, Err: ErrEmptyPayload}
	}
	bc, err := code128.Encode(payload)
	if err != nil {
		return nil, &EncodeError{Payload: payload, Err: err}
	}

	width, height := c.Width, c.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	width = max(width, bc.Bounds().Dx())

	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, &EncodeError{Payload: payload, Err: err}
	}
	return scaled, nil
}
