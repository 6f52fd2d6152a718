package layout

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// LabelRecord is one spreadsheet row: a part and how many labels to print for it.
type LabelRecord struct {
	Row         int    `json:"row"` // 1-based source row, for diagnostics
	Code        string `json:"code"`
	Description string `json:"description"`
	Price       string `json:"price"` // preformatted, never parsed
	Quantity    int    `json:"quantity"`
}

const (
	DefaultColumns = 3
	DefaultPadding = 1 * PtToMm // one point, in mm

	barcodeBandRatio = 0.5
	textLineDivisor  = 3.5

	// Descriptions are split into two lines of lineChars characters; anything
	// past descriptionCap is dropped.
	lineChars      = 20
	descriptionCap = 2 * lineChars

	pricePrefix = "783/"
)

// Grid fixes the page geometry of a label sheet. Lengths are mm.
type Grid struct {
	PageWidth  float64
	PageHeight float64
	Columns    int
	Padding    float64
	FontSize   float64
	Font       string
}

// DefaultGrid is a 10.6cm x 2.1cm strip of three labels with 7pt text.
func DefaultGrid() Grid {
	return Grid{
		PageWidth:  106,
		PageHeight: 21,
		Columns:    DefaultColumns,
		Padding:    DefaultPadding,
		FontSize:   7 * PtToMm,
		Font:       "Body",
	}
}

// Metrics are the per-cell measurements derived from a Grid.
type Metrics struct {
	ColumnWidth    float64 `json:"columnWidth"`
	BarcodeHeight  float64 `json:"barcodeHeight"`
	TextLineHeight float64 `json:"textLineHeight"`
	Padding        float64 `json:"padding"`
}

// Metrics computes the cell geometry. The values depend only on the grid, so
// they are computed once per document.
func (g Grid) Metrics() Metrics {
	band := g.PageHeight * barcodeBandRatio
	return Metrics{
		ColumnWidth:    g.PageWidth / float64(g.Columns),
		BarcodeHeight:  band,
		TextLineHeight: (g.PageHeight - band) / textLineDivisor,
		Padding:        g.Padding,
	}
}

// Validate reports grids that cannot hold a single label.
func (g Grid) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("page size must be positive, got %gx%gmm", g.PageWidth, g.PageHeight)
	}
	if g.Columns <= 0 {
		return fmt.Errorf("column count must be positive, got %d", g.Columns)
	}
	if g.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %gmm", g.Padding)
	}
	m := g.Metrics()
	if 2*m.Padding >= m.ColumnWidth || 2*m.Padding >= m.BarcodeHeight {
		return fmt.Errorf("padding %gmm leaves no room inside a %gx%gmm cell", g.Padding, m.ColumnWidth, m.BarcodeHeight)
	}
	return nil
}

// Stats summarizes one generation run.
type Stats struct {
	Records int `json:"records"`
	Cells   int `json:"cells"`
	Pages   int `json:"pages"`
}

// CellError reports a failure while drawing the label of one record.
type CellError struct {
	Row  int
	Code string
	Err  error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("label for row %d (code %q): %v", e.Row, e.Code, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// WrapLines returns the text printed under the barcode. Descriptions up to
// 20 characters give two lines; longer ones give three, with the description
// cut at 40 characters regardless of word boundaries.
func WrapLines(description, code, price string) []string {
	runes := []rune(description)
	line1 := string(runes[:min(len(runes), lineChars)])
	line2 := ""
	if len(runes) > lineChars {
		line2 = string(runes[lineChars:min(len(runes), descriptionCap)])
	}
	if line2 == "" {
		return []string{line1, pricePrefix + code + "/R$" + price}
	}
	return []string{line1, line2, code + "/" + price}
}

// PageCount is the number of pages Generate emits for the given cell count.
// The first page exists even when there are no cells.
func PageCount(cells, columns int) int {
	if cells <= 0 || columns <= 0 {
		return 1
	}
	return int(math.Ceil(float64(cells) / float64(columns)))
}

// Generate expands every record into Quantity label cells and draws them on
// sink, Columns cells per page, opening a new page whenever the row is full.
// Any error from src, enc or sink aborts the run.
func Generate(src RowSource, grid Grid, enc BarcodeEncoder, sink PageSink, opts GenerateOptions) (Stats, error) {
	if src == nil || enc == nil || sink == nil {
		return Stats{}, errors.New("row source, barcode encoder and page sink are required")
	}
	if err := grid.Validate(); err != nil {
		return Stats{}, err
	}
	log := opts.logger()
	m := grid.Metrics()
	style := TextStyle{
		Font:     grid.Font,
		FontSize: grid.FontSize,
		Color:    Black,
		Align:    "center",
		VAlign:   "middle",
	}

	var stats Stats
	if err := sink.NewPage(grid.PageWidth, grid.PageHeight); err != nil {
		return stats, fmt.Errorf("add page: %w", err)
	}
	stats.Pages = 1

	column := 0
	for {
		rec, ok, err := src.Next()
		if err != nil {
			return stats, fmt.Errorf("read record: %w", err)
		}
		if !ok {
			break
		}
		stats.Records++

		for i := 0; i < rec.Quantity; i++ {
			if column == grid.Columns {
				column = 0
				if err := sink.NewPage(grid.PageWidth, grid.PageHeight); err != nil {
					return stats, fmt.Errorf("add page %d: %w", stats.Pages+1, err)
				}
				stats.Pages++
			}
			x := float64(column) * m.ColumnWidth
			if err := drawCell(sink, enc, rec, x, m, style, opts, log); err != nil {
				return stats, &CellError{Row: rec.Row, Code: rec.Code, Err: err}
			}
			stats.Cells++
			column++
		}
	}

	log.Debug("labels laid out",
		zap.Int("records", stats.Records),
		zap.Int("cells", stats.Cells),
		zap.Int("pages", stats.Pages),
	)
	return stats, nil
}

func drawCell(sink PageSink, enc BarcodeEncoder, rec LabelRecord, x float64, m Metrics, style TextStyle, opts GenerateOptions, log *zap.Logger) error {
	y := 0.0
	img, err := enc.Encode(rec.Code)
	if err != nil {
		return fmt.Errorf("encode barcode: %w", err)
	}
	barcodeRect := Rect{
		X:      x + m.Padding,
		Y:      y + m.Padding,
		Width:  m.ColumnWidth - 2*m.Padding,
		Height: m.BarcodeHeight - 2*m.Padding,
	}
	if err := sink.DrawImage(img, rec.Code, barcodeRect); err != nil {
		return fmt.Errorf("draw barcode: %w", err)
	}

	y += m.BarcodeHeight
	for _, line := range WrapLines(rec.Description, rec.Code, rec.Price) {
		rect := Rect{X: x + m.Padding, Y: y, Width: m.ColumnWidth - 2*m.Padding, Height: m.TextLineHeight}
		if opts.Typesetter != nil {
			width, err := opts.Typesetter.MeasureText(line, opts.Font, style.FontSize)
			if err != nil {
				return fmt.Errorf("measure text %q: %w", line, err)
			}
			if width > rect.Width {
				log.Warn("label text overflows cell",
					zap.Int("row", rec.Row),
					zap.String("code", rec.Code),
					zap.String("text", line),
					zap.Float64("width_mm", width),
					zap.Float64("cell_mm", rect.Width),
				)
			}
		}
		if err := sink.DrawText(line, rect, style); err != nil {
			return fmt.Errorf("draw text: %w", err)
		}
		y += m.TextLineHeight
	}
	return nil
}

// Build lays out every record of src in memory and returns the recorded
// document, ready for a renderer.
func Build(src RowSource, grid Grid, opts BuildOptions) (*Result, Stats, error) {
	if opts.Encoder == nil {
		return nil, Stats{}, errors.New("barcode encoder is required")
	}
	c := NewCollector()
	stats, err := Generate(src, grid, opts.Encoder, c, GenerateOptions{
		Typesetter: opts.Typesetter,
		Font:       opts.Font,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, stats, err
	}
	res := c.Result()
	res.Meta = opts.Meta
	if opts.Font.Src != "" {
		res.Resources.Fonts[grid.Font] = opts.Font
	}
	return res, stats, nil
}
