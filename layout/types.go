package layout

import "image"

// This file defines the layout result and resource descriptions shared by the
// label engine, the renderer and the debug JSON dump. All lengths are mm.

// Result holds the laid-out pages and the resources they reference.
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet records the fonts referenced by text boxes.
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource describes a font; Src is a file path or an embed:<name> reference.
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"`
}

// Color uses 0-255 RGB values.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black is the default text color.
var Black = Color{}

// Page records the page size and the elements drawn on it.
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Texts  []TextBox  `json:"texts"`
	Images []ImageBox `json:"images"`
}

// Rect is an axis-aligned box with a top-left origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextBox is a single positioned line of text.
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
	Align    string  `json:"align,omitempty"`  // left/center/right, default left
	VAlign   string  `json:"valign,omitempty"` // top/middle/bottom, default top
}

// ImageBox places a raster image, stretched to fill its rect.
type ImageBox struct {
	Path   string      `json:"path"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Image  image.Image `json:"-"`
}

// DocumentMeta holds the PDF info dictionary.
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
