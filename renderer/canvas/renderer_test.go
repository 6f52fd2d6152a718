package canvasrenderer

import (
	"bytes"
	"errors"
	"io/fs"
	"image"
	"math"
	"testing"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/ByLCY/labelgrid/barcode"
	"github.com/ByLCY/labelgrid/layout"
)

var bodyFont = layout.FontResource{Name: "Body", Src: "embed:go-regular"}

func TestMeasureTextGrowsWithContent(t *testing.T) {
	r := NewRenderer(".")
	size := 7 * layout.PtToMm

	one, err := r.MeasureText("W", bodyFont, size)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	four, err := r.MeasureText("WWWW", bodyFont, size)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if one <= 0 || four <= one {
		t.Fatalf("expected widths to grow: W=%g WWWW=%g", one, four)
	}
	// a 7pt glyph is a few mm wide at most
	if one > 5 {
		t.Fatalf("width should be mm, got %g", one)
	}
}

func TestMeasureTextFallsBackWithoutSrc(t *testing.T) {
	r := NewRenderer("")
	w, err := r.MeasureText("783/123/R$9,90", layout.FontResource{Name: "Body"}, 2.5)
	if err != nil {
		t.Fatalf("fallback font should load: %v", err)
	}
	if w <= 0 {
		t.Fatalf("expected positive width, got %g", w)
	}
}

func TestMeasureTextUnknownFont(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.MeasureText("x", layout.FontResource{Name: "Body", Src: "embed:missing"}, 2.5); err == nil {
		t.Fatalf("expected error for unknown built-in font")
	}
}

func TestMeasureTextMissingFontFile(t *testing.T) {
	r := NewRenderer(t.TempDir())
	_, err := r.MeasureText("x", layout.FontResource{Name: "Body", Src: "fonts/absent.ttf"}, 2.5)
	if err == nil {
		t.Fatalf("expected error for missing font file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestMeasureTextCachesFamily(t *testing.T) {
	r := NewRenderer("")
	for i := 0; i < 3; i++ {
		if _, err := r.MeasureText("123", bodyFont, 2.5); err != nil {
			t.Fatalf("measure failed: %v", err)
		}
	}
	if len(r.families) != 1 {
		t.Fatalf("expected one cached family, got %d", len(r.families))
	}
}

func TestRenderPageCountAndSize(t *testing.T) {
	grid := layout.DefaultGrid()
	records := []layout.LabelRecord{
		{Row: 2, Code: "123", Description: "Short", Price: "9,90", Quantity: 2},
		{Row: 3, Code: "456", Description: "This description is definitely long", Price: "1,25", Quantity: 5},
	}
	r := NewRenderer("")
	res, stats, err := layout.Build(layout.NewSliceSource(records), grid, layout.BuildOptions{
		Encoder:    barcode.New(),
		Typesetter: r,
		Font:       bodyFont,
		Meta:       layout.DocumentMeta{Title: "Etiquetas", Creator: "labelgrid"},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if stats.Pages != 3 {
		t.Fatalf("expected 3 pages for 7 cells, got %d", stats.Pages)
	}

	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}

	doc, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	defer doc.Close()

	n, err := pagetree.NumPages(doc)
	if err != nil {
		t.Fatalf("page count failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 PDF pages, got %d", n)
	}

	wantW, wantH := grid.PageWidth*layout.MmToPt, grid.PageHeight*layout.MmToPt
	for i := 0; i < n; i++ {
		_, page, err := pagetree.GetPage(doc, i)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		box, err := pdf.GetRectangle(doc, page["MediaBox"])
		if err != nil || box == nil {
			t.Fatalf("page %d MediaBox: %v", i, err)
		}
		if math.Abs(box.URx-box.LLx-wantW) > 0.5 || math.Abs(box.URy-box.LLy-wantH) > 0.5 {
			t.Fatalf("page %d size %gx%gpt, want %gx%gpt", i, box.URx-box.LLx, box.URy-box.LLy, wantW, wantH)
		}
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without pages")
	}
}

func TestRenderRejectsImageWithoutRaster(t *testing.T) {
	r := NewRenderer("")
	res := &layout.Result{Pages: []layout.Page{{
		Width: 106, Height: 21,
		Images: []layout.ImageBox{{Path: "barcode:x", X: 1, Y: 1, Width: 10, Height: 5}},
	}}}
	if _, err := r.Render(res); err == nil {
		t.Fatalf("expected error for image without raster")
	}
}

func TestFitRasterKeepsWholeBarMultiples(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 100, 40))
	m := layout.DefaultGrid().Metrics()
	w, h := m.ColumnWidth-2*m.Padding, m.BarcodeHeight-2*m.Padding

	out, dpmm := fitRaster(src, w, h)
	if out.Bounds().Dx()%100 != 0 {
		t.Fatalf("width %d is not a multiple of the source", out.Bounds().Dx())
	}
	if got := float64(out.Bounds().Dx()) / dpmm; math.Abs(got-w) > 1e-9 {
		t.Fatalf("drawn width %gmm, want %gmm", got, w)
	}
	if got := float64(out.Bounds().Dy()) / dpmm; math.Abs(got-h) > 0.5/dpmm {
		t.Fatalf("drawn height %gmm, want %gmm", got, h)
	}
}
