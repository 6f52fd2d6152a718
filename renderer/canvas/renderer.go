package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/labelgrid/fonts"
	"github.com/ByLCY/labelgrid/layout"
	"github.com/ByLCY/labelgrid/renderer"
)

// Renderer draws label sheets as PDF via github.com/tdewolff/canvas.
type Renderer struct {
	fontDir string // resolves relative font paths

	mu       sync.Mutex
	families map[string]*canvas.FontFamily // by source and style
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer returns a renderer that resolves relative font paths against fontDir.
func NewRenderer(fontDir string) *Renderer {
	return &Renderer{fontDir: fontDir, families: map[string]*canvas.FontFamily{}}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("layout has no pages")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, matching the layout

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// MeasureText implements layout.Typesetter. fontSize and the result are mm.
func (r *Renderer) MeasureText(content string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	for _, textBox := range page.Texts {
		fontRes := resolveFontResource(textBox.Font, resources.Fonts)
		if err := r.drawTextBox(ctx, textBox, fontRes); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	// TextBox coordinates and font size are mm; the face is created in pt.
	face, err := r.fontFace(fontRes, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	metrics := face.Metrics()
	textHeight := metrics.Ascent + metrics.Descent
	var top float64
	switch strings.ToLower(tb.VAlign) {
	case "middle", "center":
		top = tb.Y + (tb.Height-textHeight)/2
	case "bottom":
		top = tb.Y + tb.Height - textHeight
	default:
		top = tb.Y
	}

	textLine := canvas.NewTextLine(face, tb.Content, textAlign)
	ctx.DrawText(anchorX, top+metrics.Ascent, textLine)
	return nil
}

// drawImages stretches every image to fill its box.
func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Image == nil {
			return fmt.Errorf("image %s has no raster", img.Path)
		}
		if img.Width <= 0 || img.Height <= 0 {
			return fmt.Errorf("image %s has an empty box", img.Path)
		}
		raster, dpmm := fitRaster(img.Image, img.Width, img.Height)
		ctx.DrawImage(img.X, img.Y, raster, canvas.DPMM(dpmm))
	}
	return nil
}

// fitRaster resamples src so that, drawn at the returned resolution, it
// covers exactly width x height mm. The horizontal scale is a whole multiple
// of the source so bar widths stay uniform.
func fitRaster(src image.Image, width, height float64) (image.Image, float64) {
	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	k := math.Max(1, math.Ceil((sh/height)*width/sw))
	dpmm := k * sw / width
	dw := int(k * sw)
	dh := int(math.Round(height * dpmm))
	if dh < 1 {
		dh = 1
	}
	if dw == b.Dx() && dh == b.Dy() {
		return src, dpmm
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, dpmm
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	style := parseFontStyle(font.Style)
	family, err := r.family(font, style)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

// family loads the font file once per source and style. An empty source
// means the built-in default face.
func (r *Renderer) family(font layout.FontResource, style canvas.FontStyle) (*canvas.FontFamily, error) {
	src := font.Src
	if src == "" {
		src = fonts.Default
	}
	key := fmt.Sprintf("%s|%d", src, style)

	r.mu.Lock()
	defer r.mu.Unlock()
	if family, ok := r.families[key]; ok {
		return family, nil
	}

	data, err := r.readFont(src)
	if err != nil {
		return nil, err
	}
	name := font.Family
	if name == "" {
		name = font.Name
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("load font %s: %w", src, err)
	}
	r.families[key] = family
	return family, nil
}

func (r *Renderer) readFont(src string) ([]byte, error) {
	if fonts.IsBuiltin(src) {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) && r.fontDir != "" {
		path = filepath.Join(r.fontDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", src, err)
	}
	return data, nil
}

func resolveFontResource(name string, known map[string]layout.FontResource) layout.FontResource {
	if font, ok := known[name]; ok {
		return font
	}
	if font, ok := known["Body"]; ok {
		return font
	}
	return layout.FontResource{}
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt converts mm to pt.
func toPt(mm float64) float64 { return mm * layout.MmToPt }
